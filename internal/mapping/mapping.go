// Package mapping builds the ordered field-mapping table for a repeating
// group's item/list view pair, used for data transfer between the two.
package mapping

import (
	"github.com/homepresso/formgraph/model"
)

// Build matches the item view's controls to the list view's controls by
// canonical field name, in item-view control order. A field present on only
// one side is reported as a MissingMapping diagnostic and omitted from the
// table — never silently dropped. Structural controls (labels, buttons)
// take no part in data transfer.
func Build(pair *model.ViewPair) []model.Diagnostic {
	var diags []model.Diagnostic

	listFields := make(map[string]model.Control, len(pair.List.Controls))
	for _, c := range pair.List.Controls {
		if c.Type.IsData() {
			listFields[c.FieldName] = c
		}
	}

	itemFields := make(map[string]bool, len(pair.Item.Controls))
	for _, ic := range pair.Item.Controls {
		if !ic.Type.IsData() {
			continue
		}
		itemFields[ic.FieldName] = true

		lc, ok := listFields[ic.FieldName]
		if !ok {
			diags = append(diags, model.Diagnostic{
				Code:    model.DiagMissingMapping,
				View:    pair.List.Name,
				Subject: ic.FieldName,
				Message: "field present on item view but absent from list view",
			})
			continue
		}
		pair.Mappings = append(pair.Mappings, model.FieldMapping{
			FieldName:     ic.FieldName,
			ItemControlID: ic.ID,
			ListControlID: lc.ID,
		})
	}

	for _, lc := range pair.List.Controls {
		if !lc.Type.IsData() || itemFields[lc.FieldName] {
			continue
		}
		diags = append(diags, model.Diagnostic{
			Code:    model.DiagMissingMapping,
			View:    pair.Item.Name,
			Subject: lc.FieldName,
			Message: "field present on list view but absent from item view",
		})
	}

	return diags
}
