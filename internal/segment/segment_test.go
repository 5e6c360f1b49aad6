package segment

import (
	"testing"

	"github.com/homepresso/formgraph/model"
)

func ctl(name, group string, row int) model.Control {
	return model.Control{FieldName: name, GroupName: group, Row: row, Type: model.ControlText}
}

func TestSplit_noGroupsPassesThroughUnchanged(t *testing.T) {
	controls := []model.Control{
		ctl("Name", "", 1),
		ctl("Date", "", 2),
		ctl("Notes", "", 3),
	}

	segs := Split(controls)
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].Kind != model.SegmentRegular {
		t.Errorf("kind = %v, want regular", segs[0].Kind)
	}
	if len(segs[0].Controls) != 3 {
		t.Errorf("controls = %d, want 3", len(segs[0].Controls))
	}
}

func TestSplit_groupInterleavedByRow(t *testing.T) {
	controls := []model.Control{
		ctl("Name", "", 1),
		ctl("Description", "LineItems", 2),
		ctl("Amount", "LineItems", 3),
		ctl("Notes", "", 4),
	}

	segs := Split(controls)
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}
	if segs[0].Kind != model.SegmentRegular || segs[0].Controls[0].FieldName != "Name" {
		t.Errorf("segment 0 should be the leading regular run, got %+v", segs[0])
	}
	if segs[1].Kind != model.SegmentGroup || segs[1].GroupName != "LineItems" {
		t.Errorf("segment 1 should be the LineItems group, got %+v", segs[1])
	}
	if segs[2].Kind != model.SegmentRegular || segs[2].Controls[0].FieldName != "Notes" {
		t.Errorf("segment 2 should be the trailing regular run, got %+v", segs[2])
	}
}

// Concatenating every segment's controls must reproduce the per-run input
// order: group members stay in declaration order and so do plain controls.
func TestSplit_orderPreservation(t *testing.T) {
	controls := []model.Control{
		ctl("A", "", 1),
		ctl("G1a", "G1", 2),
		ctl("B", "", 2),
		ctl("G1b", "G1", 3),
		ctl("G2a", "G2", 5),
		ctl("C", "", 6),
	}

	segs := Split(controls)

	counts := map[string]int{}
	for _, s := range segs {
		for _, c := range s.Controls {
			counts[c.FieldName]++
		}
	}
	if len(counts) != len(controls) {
		t.Fatalf("segments cover %d distinct controls, want %d", len(counts), len(controls))
	}
	for name, n := range counts {
		if n != 1 {
			t.Errorf("control %s appears %d times, want 1", name, n)
		}
	}

	// Within each group segment, declaration order is preserved.
	for _, s := range Groups(segs) {
		if s.GroupName == "G1" {
			if s.Controls[0].FieldName != "G1a" || s.Controls[1].FieldName != "G1b" {
				t.Errorf("G1 order = %v", s.Controls)
			}
		}
	}
}

// All controls of one group land in exactly one segment, even when other
// controls interleave in the declaration order.
func TestSplit_contiguity(t *testing.T) {
	controls := []model.Control{
		ctl("G1a", "G1", 1),
		ctl("X", "", 2),
		ctl("G1b", "G1", 3),
		ctl("G1c", "G1", 4),
	}

	segs := Split(controls)
	groupSegs := Groups(segs)
	if len(groupSegs) != 1 {
		t.Fatalf("got %d group segments, want 1", len(groupSegs))
	}
	if len(groupSegs[0].Controls) != 3 {
		t.Errorf("G1 segment has %d controls, want 3", len(groupSegs[0].Controls))
	}
}

func TestSplit_groupsSortedByFirstRow(t *testing.T) {
	controls := []model.Control{
		ctl("Late", "LateGroup", 10),
		ctl("Early", "EarlyGroup", 2),
	}

	segs := Split(controls)
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[0].GroupName != "EarlyGroup" || segs[1].GroupName != "LateGroup" {
		t.Errorf("group order = [%s %s], want [EarlyGroup LateGroup]", segs[0].GroupName, segs[1].GroupName)
	}
}

func TestSplit_tieFavorsRegularRunFirst(t *testing.T) {
	controls := []model.Control{
		ctl("G1a", "G1", 3),
		ctl("A", "", 3),
	}

	segs := Split(controls)
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[0].Kind != model.SegmentRegular {
		t.Errorf("on a row tie the regular run should precede the group")
	}
}

func TestSplit_missingRowTreatedAsStart(t *testing.T) {
	// Row 1 is the default assigned upstream for missing metadata; such a
	// regular run sorts ahead of any later group.
	controls := []model.Control{
		ctl("G1a", "G1", 5),
		ctl("Orphan", "", 1),
	}

	segs := Split(controls)
	if segs[0].Kind != model.SegmentRegular || segs[0].Controls[0].FieldName != "Orphan" {
		t.Errorf("row-1 regular run should lead the output, got %+v", segs[0])
	}
}

func TestSplit_empty(t *testing.T) {
	if segs := Split(nil); segs != nil {
		t.Errorf("Split(nil) = %v, want nil", segs)
	}
}
