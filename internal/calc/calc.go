// Package calc synthesizes aggregate expressions for calculated fields.
// It runs after every other generator because instance resolution searches
// the already-emitted transfer actions for the physical control instances
// carrying each source field.
package calc

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/homepresso/formgraph/internal/genctx"
	"github.com/homepresso/formgraph/internal/rulegraph"
	"github.com/homepresso/formgraph/model"
)

// SumFunction is the aggregate emitted for every calculation group.
const SumFunction = "SUM"

// Synthesize scans the form for calculated-field candidates and emits one
// sum expression per distinct source-field set. Candidates sharing a
// set-equal source list collapse into a single expression named for the
// first of them.
func Synthesize(b *rulegraph.Builder, ctx *genctx.Context, form *model.Form) {
	candidates := findCandidates(ctx, form)
	if len(candidates) == 0 {
		return
	}
	sources := findSources(ctx, form)

	// Group candidates by sorted distinct source-field-name set.
	emitted := make(map[string]bool)
	for _, cand := range candidates {
		cand.Sources = sources
		key := sourceKey(cand.Sources)
		if emitted[key] {
			continue
		}
		emitted[key] = true

		operands := resolveOperands(b.Graph(), ctx, form, cand)
		b.Expression(cand.FieldName, SumFunction, operands)
		ctx.Log.Debug("calculation expression emitted",
			zap.String("form", form.Name),
			zap.String("field", cand.FieldName),
			zap.Int("operands", len(operands)),
		)
	}
}

// findCandidates collects calculated-field candidates across every
// generated view, one per distinct field name.
func findCandidates(ctx *genctx.Context, form *model.Form) []*model.CalculationField {
	var out []*model.CalculationField
	seen := make(map[string]bool)
	for _, v := range form.Views {
		for _, c := range v.Controls {
			if !ctx.Heuristics.IsCalculationField(c) || seen[c.FieldName] {
				continue
			}
			seen[c.FieldName] = true
			out = append(out, &model.CalculationField{FieldName: c.FieldName, Type: c.Type})
		}
	}
	return out
}

// findSources collects aggregate source fields living inside repeating
// groups, one per (field, group) pair, in discovery order.
func findSources(ctx *genctx.Context, form *model.Form) []model.SourceField {
	var out []model.SourceField
	seen := make(map[string]bool)
	for _, grp := range form.Groups {
		for _, c := range grp.Controls {
			probe := c
			probe.GroupName = grp.Name
			if !ctx.Heuristics.IsSourceField(probe) {
				continue
			}
			k := grp.Name + "." + c.FieldName
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, model.SourceField{FieldName: c.FieldName, GroupName: grp.Name})
		}
	}
	return out
}

// sourceKey is the duplicate-detection key: the sorted set of distinct
// source field names.
func sourceKey(sources []model.SourceField) string {
	names := make([]string, 0, len(sources))
	seen := make(map[string]bool)
	for _, s := range sources {
		if !seen[s.FieldName] {
			seen[s.FieldName] = true
			names = append(names, s.FieldName)
		}
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// resolveOperands finds every physical control instance of each source
// field by searching the emitted transfer actions for a target-field
// match. A field resolving to zero instances is omitted with a diagnostic;
// the expression still carries whatever was found.
func resolveOperands(g *model.RuleGraph, ctx *genctx.Context, form *model.Form, cand *model.CalculationField) []model.Operand {
	var operands []model.Operand
	fieldSeen := make(map[string]bool)
	for _, src := range cand.Sources {
		if fieldSeen[src.FieldName] {
			continue
		}
		fieldSeen[src.FieldName] = true

		excluded := make(map[string]bool)
		for _, grp := range ctx.Heuristics.ExcludedGroups(src.FieldName) {
			excluded[grp] = true
		}

		found := 0
		dedup := make(map[string]bool)
		forEachTransfer(g, func(a *model.Action) {
			for _, p := range a.Parameters {
				if p.TargetField != src.FieldName {
					continue
				}
				if a.TargetControlID == "" || a.TargetViewInstanceID == "" {
					continue
				}
				if excluded[ctx.GroupForInstance(a.TargetViewInstanceID)] {
					continue
				}
				k := a.TargetControlID + "@" + a.TargetViewInstanceID
				if dedup[k] {
					continue
				}
				dedup[k] = true
				operands = append(operands, model.Operand{
					FieldName:      src.FieldName,
					ControlID:      a.TargetControlID,
					ViewInstanceID: a.TargetViewInstanceID,
				})
				found++
			}
		})

		if found == 0 {
			ctx.Report.Add(model.Diagnostic{
				Code:    model.DiagMissingMapping,
				Form:    form.Name,
				Subject: src.FieldName,
				Message: fmt.Sprintf("calculation %s: source field %s resolved to zero control instances; omitted", cand.FieldName, src.FieldName),
			})
		}
	}
	return operands
}

// forEachTransfer visits every transfer-value action in the graph,
// including those nested under for-each iterations.
func forEachTransfer(g *model.RuleGraph, visit func(*model.Action)) {
	var walk func(a *model.Action)
	walk = func(a *model.Action) {
		if a.Kind == model.ActionTransferValue {
			visit(a)
		}
		for _, child := range a.Actions {
			walk(child)
		}
	}
	for _, st := range g.States {
		for _, ev := range st.Events {
			for _, h := range ev.Handlers {
				for _, a := range h.Actions {
					walk(a)
				}
			}
		}
	}
}
