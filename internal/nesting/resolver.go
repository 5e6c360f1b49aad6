// Package nesting assigns a nesting depth and parent reference to every
// repeating group discovered across a form's views.
package nesting

import (
	"sort"

	"github.com/homepresso/formgraph/model"
)

// Resolve walks the explicit override table (child group name → declared
// parent group name) and assigns each group its depth, parent, and children.
// Depth follows the override chain to arbitrary depth: a group absent from
// the table sits at depth 1 under the synthetic root, and each override hop
// adds one. The soleTopLevel group, when the form is nothing but that one
// group, is depth 0.
//
// A declared parent that cannot be located, or a cycle in the table, marks
// the affected group ParentUnresolved and leaves it at depth 1; the submit
// generator skips such groups. Resolution is deterministic: the same groups
// and overrides always produce identical assignments.
func Resolve(groups []*model.RepeatingGroup, overrides map[string]string, soleTopLevel string) []model.Diagnostic {
	byName := make(map[string]*model.RepeatingGroup, len(groups))
	for _, g := range groups {
		byName[g.Name] = g
	}

	var diags []model.Diagnostic

	depths := make(map[string]int, len(groups))
	var depthOf func(name string, trail map[string]bool) int
	depthOf = func(name string, trail map[string]bool) int {
		if d, ok := depths[name]; ok {
			return d
		}
		parent, declared := overrides[name]
		if !declared {
			d := 1
			if name == soleTopLevel {
				d = 0
			}
			depths[name] = d
			return d
		}
		if trail[name] {
			// Cycle in the override table; break it here.
			depths[name] = 1
			return 1
		}
		if _, ok := byName[parent]; !ok {
			depths[name] = 1
			return 1
		}
		trail[name] = true
		d := depthOf(parent, trail) + 1
		delete(trail, name)
		depths[name] = d
		return d
	}

	for _, g := range groups {
		g.Children = nil
	}

	for _, g := range groups {
		parent, declared := overrides[g.Name]
		g.Depth = depthOf(g.Name, map[string]bool{})

		if !declared {
			g.Parent = ""
			continue
		}

		g.Parent = parent
		if cycleBack(g.Name, overrides, byName) {
			g.ParentUnresolved = true
			diags = append(diags, model.Diagnostic{
				Code:    model.DiagUnresolvedParent,
				Subject: g.Name,
				Message: "override table declares a parent cycle",
			})
			continue
		}
		if _, ok := byName[parent]; !ok {
			g.ParentUnresolved = true
			diags = append(diags, model.Diagnostic{
				Code:    model.DiagUnresolvedParent,
				Subject: g.Name,
				Message: "declared parent group " + parent + " not found in form",
			})
		}
	}

	// Children lists are the inverse of resolved parent references.
	for _, g := range groups {
		if g.Parent == "" || g.ParentUnresolved {
			continue
		}
		p := byName[g.Parent]
		p.Children = append(p.Children, g.Name)
	}
	for _, g := range groups {
		sort.Strings(g.Children)
	}

	return diags
}

// cycleBack reports whether following overrides from name revisits name.
func cycleBack(name string, overrides map[string]string, known map[string]*model.RepeatingGroup) bool {
	seen := map[string]bool{name: true}
	cur := name
	for {
		parent, ok := overrides[cur]
		if !ok {
			return false
		}
		if _, exists := known[parent]; !exists {
			return false
		}
		if seen[parent] {
			return true
		}
		seen[parent] = true
		cur = parent
	}
}

// ByDepth returns the groups sorted by ascending depth, then name. The
// submit generator processes groups in this order so every parent's rows
// exist before its children persist.
func ByDepth(groups []*model.RepeatingGroup) []*model.RepeatingGroup {
	out := make([]*model.RepeatingGroup, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		return out[i].Name < out[j].Name
	})
	return out
}
