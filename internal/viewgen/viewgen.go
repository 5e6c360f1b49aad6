// Package viewgen builds the generated views for a form: one primary view
// per plain segment and one item/list view pair per repeating group. Every
// physical control instance gets its own identifier here, and the
// navigation buttons added to each view are registered with the generation
// context for the rule generators to read back.
package viewgen

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homepresso/formgraph/internal/formmodel"
	"github.com/homepresso/formgraph/internal/genctx"
	"github.com/homepresso/formgraph/internal/sanitize"
	"github.com/homepresso/formgraph/internal/segment"
	"github.com/homepresso/formgraph/model"
)

// Standard button display names.
const (
	ButtonAdd    = "Add"
	ButtonDelete = "Delete"
	ButtonCancel = "Cancel"
	ButtonSubmit = "Submit"
	ButtonClear  = "Clear"
)

// Generator builds the structural model for one form at a time.
type Generator struct {
	ctx *genctx.Context
}

// NewGenerator creates a Generator bound to the run's context.
func NewGenerator(ctx *genctx.Context) *Generator {
	return &Generator{ctx: ctx}
}

// BuildForm segments every input view, collects repeating groups across
// them, and materializes the generated views. Nesting is not resolved
// here; the caller runs the resolver over the returned form's groups.
// The returned soleTopLevel is the name of the single group when the form
// has no primary content at all, for the resolver's depth-0 rule.
func (g *Generator) BuildForm(displayName string, input model.FormInput) (form *model.Form, soleTopLevel string) {
	form = &model.Form{
		ID:          uuid.NewString(),
		Name:        sanitize.CanonicalizeName(displayName),
		DisplayName: sanitize.DisplayName(displayName),
	}

	var groups []*model.RepeatingGroup
	byName := make(map[string]*model.RepeatingGroup)
	primaries := 0

	for _, view := range input.Views {
		controls := formmodel.BuildControls(view, input, g.ctx.Heuristics)
		for _, seg := range segment.Split(controls) {
			switch seg.Kind {
			case model.SegmentRegular:
				primaries++
				form.Views = append(form.Views, g.primaryView(form.Name, primaries, seg.Controls))
			case model.SegmentGroup:
				grp, ok := byName[seg.GroupName]
				if !ok {
					grp = &model.RepeatingGroup{
						Name:        seg.GroupName,
						DisplayName: seg.GroupName,
					}
					byName[seg.GroupName] = grp
					groups = append(groups, grp)
				}
				grp.Controls = append(grp.Controls, seg.Controls...)
			}
		}
	}

	form.Groups = groups

	for _, grp := range groups {
		pair := g.viewPair(grp)
		form.Pairs = append(form.Pairs, pair)
		form.Views = append(form.Views, pair.Item, pair.List)
	}

	g.ctx.Log.Debug("form structure built",
		zap.String("form", form.Name),
		zap.Int("views", len(form.Views)),
		zap.Int("groups", len(form.Groups)),
	)

	if primaries == 0 && len(groups) == 1 {
		soleTopLevel = groups[0].Name
	}
	return form, soleTopLevel
}

// primaryView materializes one plain segment as a view bound to the root
// entity. The first primary view carries the form's Submit and Clear
// buttons.
func (g *Generator) primaryView(formName string, ordinal int, controls []model.Control) *model.View {
	name := formName + "_Main"
	if ordinal > 1 {
		name = fmt.Sprintf("%s_Section%d", formName, ordinal)
	}

	v := &model.View{
		ID:          uuid.NewString(),
		Name:        name,
		DisplayName: name,
		Role:        model.RolePrimary,
		Controls:    instantiate(controls, ""),
	}

	var buttons model.ViewButtons
	if ordinal == 1 {
		submit := g.button(v, ButtonSubmit)
		clear := g.button(v, ButtonClear)
		buttons.SubmitID, buttons.SubmitName = submit.ID, submit.FieldName
		buttons.ClearID, buttons.ClearName = clear.ID, clear.FieldName
	}
	g.ctx.RegisterViewButtons(v.Name, buttons)

	return v
}

// viewPair materializes the item and list views for one repeating group.
// The item view gets Add (accept) and Cancel buttons; the list view gets
// Add and Delete buttons.
func (g *Generator) viewPair(grp *model.RepeatingGroup) *model.ViewPair {
	item := &model.View{
		ID:          uuid.NewString(),
		Name:        grp.Name + "_Item",
		DisplayName: grp.DisplayName + " Item",
		Role:        model.RoleDetailItem,
		GroupName:   grp.Name,
		Controls:    instantiate(grp.Controls, grp.Name),
	}
	list := &model.View{
		ID:          uuid.NewString(),
		Name:        grp.Name + "_List",
		DisplayName: grp.DisplayName + " List",
		Role:        model.RoleDetailList,
		GroupName:   grp.Name,
		Controls:    instantiate(grp.Controls, grp.Name),
	}

	itemAdd := g.button(item, ButtonAdd)
	itemCancel := g.button(item, ButtonCancel)
	g.ctx.RegisterViewButtons(item.Name, model.ViewButtons{
		AddID: itemAdd.ID, AddName: itemAdd.FieldName,
		CancelID: itemCancel.ID, CancelName: itemCancel.FieldName,
	})

	listAdd := g.button(list, ButtonAdd)
	listDelete := g.button(list, ButtonDelete)
	g.ctx.RegisterViewButtons(list.Name, model.ViewButtons{
		AddID: listAdd.ID, AddName: listAdd.FieldName,
		DeleteID: listDelete.ID, DeleteName: listDelete.FieldName,
	})

	return &model.ViewPair{Group: grp, Item: item, List: list}
}

// instantiate copies controls into a view, giving each physical instance
// its own identifier.
func instantiate(controls []model.Control, group string) []model.Control {
	out := make([]model.Control, len(controls))
	for i, c := range controls {
		c.ID = uuid.NewString()
		c.GroupName = group
		out[i] = c
	}
	return out
}

// button appends a button control below the view's last row.
func (g *Generator) button(v *model.View, name string) model.Control {
	row := 1
	for _, c := range v.Controls {
		if c.Row >= row {
			row = c.Row + 1
		}
	}
	b := model.Control{
		ID:          uuid.NewString(),
		FieldName:   name,
		DisplayName: name,
		Type:        model.ControlButton,
		Row:         row,
		Column:      1,
	}
	v.Controls = append(v.Controls, b)
	return b
}
