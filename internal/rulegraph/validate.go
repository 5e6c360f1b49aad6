package rulegraph

import (
	"fmt"

	"github.com/homepresso/formgraph/model"
)

// Targets is the set of identifiers the finished graph may legally refer
// to: deployed view instances, generated controls, declared handlers.
type Targets struct {
	ViewInstances map[string]bool
	Controls      map[string]bool
}

// NewTargets creates an empty target set.
func NewTargets() *Targets {
	return &Targets{
		ViewInstances: make(map[string]bool),
		Controls:      make(map[string]bool),
	}
}

// AddView registers a deployed view instance and its controls.
func (t *Targets) AddView(ids model.ViewIdentifiers, controls []model.Control) {
	if ids.ViewInstanceID != "" {
		t.ViewInstances[ids.ViewInstanceID] = true
	}
	for _, c := range controls {
		if c.ID != "" {
			t.Controls[c.ID] = true
		}
	}
}

// Validate runs the post-hoc consistency pass: every event carries its
// required properties and every action target resolves against the known
// identifier sets. Findings are diagnostics, not hard errors; the caller
// decides whether an inconsistent graph is still worth writing.
func Validate(g *model.RuleGraph, targets *Targets) []model.Diagnostic {
	var diags []model.Diagnostic
	report := func(subject, format string, args ...any) {
		diags = append(diags, model.Diagnostic{
			Code:    model.DiagStructuralGap,
			Form:    g.FormName,
			Subject: subject,
			Message: fmt.Sprintf(format, args...),
		})
	}

	handlerNames := make(map[string]bool)
	for _, st := range g.States {
		for _, ev := range st.Events {
			for _, h := range ev.Handlers {
				handlerNames[h.Name] = true
			}
		}
	}

	variables := make(map[string]bool, len(g.Variables))
	for _, v := range g.Variables {
		variables[v.Name] = true
	}

	for _, st := range g.States {
		if st.ID == "" || st.DefinitionID == "" {
			report(st.Name, "state is missing identifiers")
		}
		for _, ev := range st.Events {
			if ev.Name == "" {
				report(ev.ID, "event has no name")
			}
			if ev.Trigger == "" {
				report(ev.Name, "event has no trigger")
			}
			if ev.SourceControlID == "" {
				report(ev.Name, "event has no source control")
			} else if targets != nil && !targets.Controls[ev.SourceControlID] {
				report(ev.Name, "event source control %s is not a generated control", ev.SourceControlID)
			}
			for _, h := range ev.Handlers {
				for _, a := range h.Actions {
					diags = append(diags, validateAction(g, a, targets, handlerNames, variables)...)
				}
			}
		}
	}

	return diags
}

func validateAction(g *model.RuleGraph, a *model.Action, targets *Targets, handlers, variables map[string]bool) []model.Diagnostic {
	var diags []model.Diagnostic
	report := func(format string, args ...any) {
		diags = append(diags, model.Diagnostic{
			Code:    model.DiagStructuralGap,
			Form:    g.FormName,
			Subject: a.Name,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if a.Kind == "" {
		report("action has no kind")
	}
	if a.ID == "" || a.DefinitionID == "" {
		report("action is missing identifiers")
	}

	switch a.Kind {
	case model.ActionShowView, model.ActionHideView, model.ActionClearView,
		model.ActionAppendRow, model.ActionAcceptRow:
		if a.TargetViewInstanceID == "" {
			report("%s action has no target view instance", a.Kind)
		} else if targets != nil && !targets.ViewInstances[a.TargetViewInstanceID] {
			report("target view instance %s is not a deployed view", a.TargetViewInstanceID)
		}
	case model.ActionForEachRow:
		if a.TargetViewInstanceID == "" {
			report("for-each action has no target view instance")
		}
		if a.RowState == "" {
			report("for-each action has no row-state filter")
		}
		if len(a.Actions) == 0 {
			report("for-each action iterates nothing")
		}
	case model.ActionTransferValue:
		if a.TargetControlID == "" {
			report("transfer action has no target control")
		} else if targets != nil && !targets.Controls[a.TargetControlID] {
			report("target control %s is not a generated control", a.TargetControlID)
		}
	case model.ActionCreateRecord:
		if a.TargetEntity == "" {
			report("create-record action has no target entity")
		}
	case model.ActionInvokeRule:
		if a.TargetRule == "" {
			report("invoke action names no rule")
		} else if !handlers[a.TargetRule] {
			report("invoked rule %q is not declared in this graph", a.TargetRule)
		}
	}

	for _, p := range a.Parameters {
		if p.SourceVariable != "" && !variables[p.SourceVariable] {
			diags = append(diags, model.Diagnostic{
				Code:    model.DiagStructuralGap,
				Form:    g.FormName,
				Subject: a.Name,
				Message: fmt.Sprintf("parameter %s references undeclared variable %s", p.Name, p.SourceVariable),
			})
		}
	}

	for _, child := range a.Actions {
		diags = append(diags, validateAction(g, child, targets, handlers, variables)...)
	}

	return diags
}
