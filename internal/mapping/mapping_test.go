package mapping

import (
	"testing"

	"github.com/homepresso/formgraph/model"
)

func pairWith(itemFields, listFields []string) *model.ViewPair {
	item := &model.View{Name: "LineItems_Item"}
	for i, f := range itemFields {
		item.Controls = append(item.Controls, model.Control{
			ID: "item-" + f, FieldName: f, Type: model.ControlText, Row: i + 1,
		})
	}
	list := &model.View{Name: "LineItems_List"}
	for i, f := range listFields {
		list.Controls = append(list.Controls, model.Control{
			ID: "list-" + f, FieldName: f, Type: model.ControlText, Row: i + 1,
		})
	}
	return &model.ViewPair{Item: item, List: list}
}

func TestBuild_matchesByFieldNameInItemOrder(t *testing.T) {
	pair := pairWith([]string{"Description", "Amount"}, []string{"Amount", "Description"})

	diags := Build(pair)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(pair.Mappings) != 2 {
		t.Fatalf("got %d mappings, want 2", len(pair.Mappings))
	}
	// Item-view order wins.
	if pair.Mappings[0].FieldName != "Description" || pair.Mappings[1].FieldName != "Amount" {
		t.Errorf("mapping order = [%s %s]", pair.Mappings[0].FieldName, pair.Mappings[1].FieldName)
	}
	if pair.Mappings[0].ItemControlID != "item-Description" || pair.Mappings[0].ListControlID != "list-Description" {
		t.Errorf("Description mapping ids = %+v", pair.Mappings[0])
	}
}

// Every mapping refers to a field present on both sides, and no field
// present on both sides is omitted.
func TestBuild_symmetry(t *testing.T) {
	pair := pairWith([]string{"A", "B", "C"}, []string{"B", "C", "D"})

	Build(pair)

	mapped := map[string]bool{}
	for _, m := range pair.Mappings {
		mapped[m.FieldName] = true
		if _, ok := pair.Item.Control(m.FieldName); !ok {
			t.Errorf("mapping %s has no item control", m.FieldName)
		}
		if _, ok := pair.List.Control(m.FieldName); !ok {
			t.Errorf("mapping %s has no list control", m.FieldName)
		}
	}
	if !mapped["B"] || !mapped["C"] {
		t.Errorf("both-sided fields must be mapped, got %v", mapped)
	}
	if mapped["A"] || mapped["D"] {
		t.Errorf("one-sided fields must not be mapped, got %v", mapped)
	}
}

func TestBuild_oneSidedFieldsDiagnosedBothDirections(t *testing.T) {
	pair := pairWith([]string{"OnlyItem", "Shared"}, []string{"Shared", "OnlyList"})

	diags := Build(pair)
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(diags), diags)
	}
	for _, d := range diags {
		if d.Code != model.DiagMissingMapping {
			t.Errorf("code = %s, want MissingMapping", d.Code)
		}
	}
	if len(pair.Mappings) != 1 || pair.Mappings[0].FieldName != "Shared" {
		t.Errorf("mappings = %+v, want just Shared", pair.Mappings)
	}
}

func TestBuild_structuralControlsIgnored(t *testing.T) {
	pair := pairWith([]string{"Amount"}, []string{"Amount"})
	pair.Item.Controls = append(pair.Item.Controls, model.Control{ID: "btn", FieldName: "Add", Type: model.ControlButton})
	pair.List.Controls = append(pair.List.Controls, model.Control{ID: "lbl", FieldName: "Heading", Type: model.ControlLabel})

	diags := Build(pair)
	if len(diags) != 0 {
		t.Fatalf("structural controls should not produce diagnostics: %v", diags)
	}
	if len(pair.Mappings) != 1 {
		t.Errorf("got %d mappings, want 1", len(pair.Mappings))
	}
}
