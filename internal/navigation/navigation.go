// Package navigation emits the click-driven rules that move the user
// between a repeating group's list and item views: open the item editor,
// cancel out of it, and commit the edited row back to the list.
package navigation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/homepresso/formgraph/internal/genctx"
	"github.com/homepresso/formgraph/internal/rulegraph"
	"github.com/homepresso/formgraph/model"
)

// Generate emits the Add, Cancel, and Commit rules for one view pair.
// Each rule depends on its own button: a missing button skips that rule
// alone with a MissingButton diagnostic, and whatever else can be
// generated still is.
func Generate(b *rulegraph.Builder, ctx *genctx.Context, pair *model.ViewPair) {
	itemButtons, _ := ctx.ViewButtons(pair.Item.Name)
	listButtons, _ := ctx.ViewButtons(pair.List.Name)
	group := pair.Group.Name

	if listButtons.AddID != "" {
		generateAdd(b, pair, listButtons)
	} else {
		missingButton(ctx, pair.List.Name, group, "Add")
	}

	if itemButtons.CancelID != "" {
		generateCancel(b, pair, itemButtons)
	} else {
		missingButton(ctx, pair.Item.Name, group, "Cancel")
	}

	if itemButtons.AddID != "" {
		generateCommit(b, pair, itemButtons)
	} else {
		missingButton(ctx, pair.Item.Name, group, "Add")
	}

	ctx.Log.Debug("navigation rules emitted", zap.String("group", group))
}

// generateAdd opens the item editor from the list view.
func generateAdd(b *rulegraph.Builder, pair *model.ViewPair, buttons model.ViewButtons) {
	ev := b.Event(pair.Group.Name+"_AddClick", model.TriggerClick, buttons.AddID, pair.ListIDs.ViewInstanceID)
	h := b.Handler(ev, pair.Group.Name+"_Add", model.ExecSynchronous)

	hide := rulegraph.Action(model.ActionHideView, pair.Group.Name+"_HideList")
	hide.TargetViewInstanceID = pair.ListIDs.ViewInstanceID
	rulegraph.Append(h, hide)

	show := rulegraph.Action(model.ActionShowView, pair.Group.Name+"_ShowItem")
	show.TargetViewInstanceID = pair.ItemIDs.ViewInstanceID
	rulegraph.Append(h, show)
}

// generateCancel abandons the item editor and returns to the list.
func generateCancel(b *rulegraph.Builder, pair *model.ViewPair, buttons model.ViewButtons) {
	ev := b.Event(pair.Group.Name+"_CancelClick", model.TriggerClick, buttons.CancelID, pair.ItemIDs.ViewInstanceID)
	h := b.Handler(ev, pair.Group.Name+"_Cancel", model.ExecSynchronous)

	hide := rulegraph.Action(model.ActionHideView, pair.Group.Name+"_HideItem")
	hide.TargetViewInstanceID = pair.ItemIDs.ViewInstanceID
	rulegraph.Append(h, hide)

	show := rulegraph.Action(model.ActionShowView, pair.Group.Name+"_ShowList")
	show.TargetViewInstanceID = pair.ListIDs.ViewInstanceID
	rulegraph.Append(h, show)
}

// generateCommit appends a list row, copies every mapped field from the
// item editor into it, accepts the row, resets the editor, and swaps the
// views back. The append/transfer/accept/clear prefix is strictly
// ordered; the two closing view toggles run in parallel.
func generateCommit(b *rulegraph.Builder, pair *model.ViewPair, buttons model.ViewButtons) {
	group := pair.Group.Name
	ev := b.Event(group+"_CommitClick", model.TriggerClick, buttons.AddID, pair.ItemIDs.ViewInstanceID)
	h := b.Handler(ev, group+"_Commit", model.ExecSynchronous)

	appendRow := rulegraph.Action(model.ActionAppendRow, group+"_AppendRow")
	appendRow.TargetViewInstanceID = pair.ListIDs.ViewInstanceID
	rulegraph.Append(h, appendRow)

	for _, m := range pair.Mappings {
		transfer := rulegraph.Action(model.ActionTransferValue, group+"_Copy"+m.FieldName)
		transfer.TargetViewInstanceID = pair.ListIDs.ViewInstanceID
		transfer.TargetControlID = m.ListControlID
		rulegraph.Param(transfer, model.Parameter{
			Name:                 m.FieldName,
			TargetField:          m.FieldName,
			SourceControlID:      m.ItemControlID,
			SourceViewInstanceID: pair.ItemIDs.ViewInstanceID,
		})
		rulegraph.Append(h, transfer)
	}

	accept := rulegraph.Action(model.ActionAcceptRow, group+"_AcceptRow")
	accept.TargetViewInstanceID = pair.ListIDs.ViewInstanceID
	rulegraph.Append(h, accept)

	clear := rulegraph.Action(model.ActionClearView, group+"_ResetItem")
	clear.TargetViewInstanceID = pair.ItemIDs.ViewInstanceID
	rulegraph.Append(h, clear)

	hide := rulegraph.Action(model.ActionHideView, group+"_HideItem")
	hide.TargetViewInstanceID = pair.ItemIDs.ViewInstanceID
	hide.Execution = model.ExecParallel
	rulegraph.Append(h, hide)

	show := rulegraph.Action(model.ActionShowView, group+"_ShowList")
	show.TargetViewInstanceID = pair.ListIDs.ViewInstanceID
	show.Execution = model.ExecParallel
	rulegraph.Append(h, show)
}

func missingButton(ctx *genctx.Context, viewName, group, button string) {
	ctx.Report.Add(model.Diagnostic{
		Code:    model.DiagMissingButton,
		View:    viewName,
		Subject: button,
		Message: fmt.Sprintf("view %s for group %s has no %s button; rule skipped", viewName, group, button),
	})
}
