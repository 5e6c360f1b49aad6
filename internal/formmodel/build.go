package formmodel

import (
	"strings"

	"github.com/homepresso/formgraph/internal/heuristics"
	"github.com/homepresso/formgraph/internal/sanitize"
	"github.com/homepresso/formgraph/model"
)

// BuildControls converts one input view's controls into the canonical
// control list consumed by the segmenter. Names are canonicalized, group
// membership is resolved from both the control's own grouping metadata and
// the form's data table, and missing row metadata defaults to row 1 so the
// control sorts to the very start.
func BuildControls(view model.ViewInput, form model.FormInput, h heuristics.Set) []model.Control {
	byColumn := repeatingColumns(form, h)

	controls := make([]model.Control, 0, len(view.Controls))
	for _, in := range view.Controls {
		fieldName := sanitize.CanonicalizeName(in.Name)

		group := ""
		if in.Group.InGroup && in.Group.GroupName != "" {
			group = h.NormalizeGroupName(in.Group.GroupName)
		} else if g, ok := byColumn[fieldName]; ok {
			group = g
		}

		row := in.Grid.Row
		if row < 1 {
			row = 1
		}

		controls = append(controls, model.Control{
			FieldName:   fieldName,
			DisplayName: sanitize.DisplayName(in.Name),
			Type:        controlType(in),
			Row:         row,
			Column:      in.Grid.Column,
			GroupName:   group,
			ReadOnly:    in.Options.DisableEditing,
		})
	}
	return controls
}

// repeatingColumns indexes the form's data table by canonical column name,
// mapping each repeating column to its normalized group name.
func repeatingColumns(form model.FormInput, h heuristics.Set) map[string]string {
	out := make(map[string]string)
	for _, col := range form.Data {
		if col.IsRepeating && col.RepeatingGroupName != "" {
			out[sanitize.CanonicalizeName(col.ColumnName)] = h.NormalizeGroupName(col.RepeatingGroupName)
		}
	}
	return out
}

// controlType maps a declared input type onto the canonical vocabulary.
// Unknown data types fall back to text.
func controlType(in model.ControlInput) model.ControlType {
	switch strings.ToLower(in.Type) {
	case "label", "heading":
		return model.ControlLabel
	case "image":
		return model.ControlImage
	case "button":
		return model.ControlButton
	case "number", "integer", "decimal", "currency":
		return model.ControlNumber
	case "date", "datetime":
		return model.ControlDate
	case "choice", "select", "dropdown":
		return model.ControlChoice
	case "boolean", "checkbox":
		return model.ControlBoolean
	case "multiline", "textarea":
		return model.ControlMultiline
	default:
		if in.Options.Multiline {
			return model.ControlMultiline
		}
		return model.ControlText
	}
}
