// Package submit emits the persistence rules: the submit handler that
// writes the root record and every repeating group's rows in nesting
// order, and the clear handler that resets the whole form layout.
package submit

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/homepresso/formgraph/internal/fieldmeta"
	"github.com/homepresso/formgraph/internal/genctx"
	"github.com/homepresso/formgraph/internal/nesting"
	"github.com/homepresso/formgraph/internal/rulegraph"
	"github.com/homepresso/formgraph/model"
)

// Handler names referenced across rules.
const (
	SubmitHandlerName = "SubmitForm"
	ClearHandlerName  = "ClearForm"
)

// RootRecordVar is the form variable the root create-record action writes
// the new record identifier into.
const RootRecordVar = "RootRecordID"

// RowRecordField is the per-row identifier field the runtime exposes on
// created child records, read by nested groups as their parent reference.
const RowRecordField = "RecordID"

// GenerateClear emits the clear rule: a clear-values action against every
// deployed view of the form, fired from the first primary view's Clear
// button. Returns false when no Clear button exists; the rule is skipped
// and the submit handler must not invoke it.
func GenerateClear(b *rulegraph.Builder, ctx *genctx.Context, form *model.Form) bool {
	primaries := form.PrimaryViews()
	if len(primaries) == 0 {
		return false
	}
	entry := primaries[0]
	buttons, _ := ctx.ViewButtons(entry.Name)
	if buttons.ClearID == "" {
		ctx.Report.Add(model.Diagnostic{
			Code:    model.DiagMissingButton,
			Form:    form.Name,
			View:    entry.Name,
			Subject: "Clear",
			Message: fmt.Sprintf("view %s has no Clear button; clear rule skipped", entry.Name),
		})
		return false
	}

	entryIDs, _ := ctx.ViewIdentifiers(entry.Name)
	ev := b.Event(form.Name+"_ClearClick", model.TriggerClick, buttons.ClearID, entryIDs.ViewInstanceID)
	h := b.Handler(ev, ClearHandlerName, model.ExecSynchronous)

	for _, v := range form.Views {
		ids, ok := ctx.ViewIdentifiers(v.Name)
		if !ok || ids.ViewInstanceID == "" {
			continue
		}
		a := rulegraph.Action(model.ActionClearView, "Clear_"+v.Name)
		a.TargetViewInstanceID = ids.ViewInstanceID
		rulegraph.Append(h, a)
	}
	return true
}

// GenerateSubmit emits the submit handler: root record creation, per-group
// row persistence in ascending nesting depth, and the closing invocation
// of the clear rule. Groups whose parent could not be resolved are skipped
// individually; the rest of the sequence is still emitted.
func GenerateSubmit(b *rulegraph.Builder, ctx *genctx.Context, form *model.Form, meta fieldmeta.Lookup, clearEmitted bool) {
	primaries := form.PrimaryViews()
	if len(primaries) == 0 {
		ctx.Log.Debug("form has no primary views; submit rule skipped", zap.String("form", form.Name))
		return
	}
	entry := primaries[0]
	buttons, _ := ctx.ViewButtons(entry.Name)
	if buttons.SubmitID == "" {
		ctx.Report.Add(model.Diagnostic{
			Code:    model.DiagMissingButton,
			Form:    form.Name,
			View:    entry.Name,
			Subject: "Submit",
			Message: fmt.Sprintf("view %s has no Submit button; submit rule skipped", entry.Name),
		})
		return
	}

	entryIDs, _ := ctx.ViewIdentifiers(entry.Name)
	ev := b.Event(form.Name+"_Submit", model.TriggerSubmit, buttons.SubmitID, entryIDs.ViewInstanceID)
	h := b.Handler(ev, SubmitHandlerName, model.ExecSynchronous)

	b.Variable(RootRecordVar, "identifier")
	rulegraph.Append(h, rootCreate(ctx, form, primaries, meta))

	for _, grp := range nesting.ByDepth(form.Groups) {
		if grp.ParentUnresolved {
			// Already diagnosed by the nesting resolver.
			ctx.Log.Warn("group parent unresolved; submit handler skipped",
				zap.String("form", form.Name), zap.String("group", grp.Name))
			continue
		}
		pair, ok := form.Pair(grp.Name)
		if !ok || pair.ListIDs.ViewInstanceID == "" {
			ctx.Log.Warn("group list view not deployed; submit handler skipped",
				zap.String("form", form.Name), zap.String("group", grp.Name))
			continue
		}
		if a, ok := groupCreate(form, grp, pair, meta); ok {
			rulegraph.Append(h, a)
		}
	}

	if clearEmitted {
		clear := rulegraph.Action(model.ActionInvokeRule, form.Name+"_PostSubmitClear")
		clear.TargetRule = ClearHandlerName
		rulegraph.Append(h, clear)
	}

	ctx.Log.Debug("submit rule emitted", zap.String("form", form.Name), zap.Int("actions", len(h.Actions)))
}

// rootCreate builds the create-record action for the root entity, sourcing
// one parameter from every data control of every deployed primary view and
// capturing the new identifier into the root variable.
func rootCreate(ctx *genctx.Context, form *model.Form, primaries []*model.View, meta fieldmeta.Lookup) *model.Action {
	a := rulegraph.Action(model.ActionCreateRecord, form.Name+"_CreateRoot")
	a.TargetEntity = form.Name
	a.ResultVariable = RootRecordVar

	for _, v := range primaries {
		ids, ok := ctx.ViewIdentifiers(v.Name)
		if !ok {
			continue
		}
		for _, c := range v.Controls {
			if !c.Type.IsData() {
				continue
			}
			rulegraph.Param(a, model.Parameter{
				Name:                 c.FieldName,
				TargetField:          c.FieldName,
				SourceControlID:      c.ID,
				SourceViewInstanceID: ids.ViewInstanceID,
				DataType:             meta.FieldDataType(form.Name, c.FieldName),
			})
		}
	}
	return a
}

// groupCreate builds the for-each chain that persists one group's rows.
// Depth 1 iterates the group's own list rows and sources the parent
// identifier from the root variable. Depth 2 and beyond nest inside a
// for-each over every ancestor list, and the parent identifier always
// comes from the immediate parent row, never the root variable.
func groupCreate(form *model.Form, grp *model.RepeatingGroup, pair *model.ViewPair, meta fieldmeta.Lookup) (*model.Action, bool) {
	create := rulegraph.Action(model.ActionCreateRecord, grp.Name+"_CreateRow")
	create.TargetEntity = grp.Name
	rulegraph.Param(create, parentParam(form, grp))
	for _, m := range pair.Mappings {
		rulegraph.Param(create, model.Parameter{
			Name:           m.FieldName,
			TargetField:    m.FieldName,
			SourceRowScope: grp.Name,
			SourceRowField: m.FieldName,
			DataType:       meta.FieldDataType(grp.Name, m.FieldName),
		})
	}

	inner := rulegraph.Action(model.ActionForEachRow, grp.Name+"_EachRow")
	inner.TargetViewInstanceID = pair.ListIDs.ViewInstanceID
	inner.RowState = model.RowStateAdded
	rulegraph.AppendChild(inner, create)

	// Wrap in ancestor iterations, outermost first.
	root := inner
	for parent := grp.Parent; parent != ""; {
		pg, ok := form.Group(parent)
		if !ok {
			return nil, false
		}
		ppair, ok := form.Pair(parent)
		if !ok || ppair.ListIDs.ViewInstanceID == "" {
			return nil, false
		}
		outer := rulegraph.Action(model.ActionForEachRow, parent+"_EachRow")
		outer.TargetViewInstanceID = ppair.ListIDs.ViewInstanceID
		outer.RowState = model.RowStateAdded
		rulegraph.AppendChild(outer, root)
		root = outer
		parent = pg.Parent
	}
	return root, true
}

// parentParam binds the child record's parent reference. Top-level groups
// read the root variable; nested groups read the identifier of the row
// currently iterated in the immediate parent's scope.
func parentParam(form *model.Form, grp *model.RepeatingGroup) model.Parameter {
	if grp.Depth >= 2 && grp.Parent != "" {
		return model.Parameter{
			Name:           "ParentID",
			TargetField:    grp.Parent + "ID",
			SourceRowScope: grp.Parent,
			SourceRowField: RowRecordField,
		}
	}
	return model.Parameter{
		Name:           "ParentID",
		TargetField:    form.Name + "ID",
		SourceVariable: RootRecordVar,
	}
}
