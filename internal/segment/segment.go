// Package segment splits a view's ordered control list into alternating
// plain and repeating-group runs, preserving document order.
package segment

import (
	"sort"

	"github.com/homepresso/formgraph/model"
)

// run is one accumulated stretch of controls during the scan.
type run struct {
	group      string // empty for a regular run
	controls   []model.Control
	appearance int // order of first control, for stable tie-breaks
}

func (r *run) firstRow() int {
	if len(r.controls) == 0 {
		return 1
	}
	return r.controls[0].Row
}

func (r *run) lastRow() int {
	if len(r.controls) == 0 {
		return 1
	}
	return r.controls[len(r.controls)-1].Row
}

// Split segments one view's control list. Controls declaring repeating-group
// membership accumulate into one run per group name; everything else extends
// the current regular run. The final order re-interleaves regular runs with
// group runs by row position: a regular run precedes the first group whose
// first row is not above the run's last row, with ties favoring the run.
//
// Group names are expected to be normalized by the caller, so two spellings
// of the same group have already collapsed into one name. A view without
// repeating groups comes back as a single regular segment, unchanged.
func Split(controls []model.Control) []model.Segment {
	if len(controls) == 0 {
		return nil
	}

	var (
		regulars []*run
		groups   []*run
		byGroup  = make(map[string]*run)
		current  *run
	)

	for i, c := range controls {
		if c.GroupName != "" {
			current = nil
			g, ok := byGroup[c.GroupName]
			if !ok {
				g = &run{group: c.GroupName, appearance: i}
				byGroup[c.GroupName] = g
				groups = append(groups, g)
			}
			g.controls = append(g.controls, c)
			continue
		}
		if current == nil {
			current = &run{appearance: i}
			regulars = append(regulars, current)
		}
		current.controls = append(current.controls, c)
	}

	if len(groups) == 0 {
		return []model.Segment{{Kind: model.SegmentRegular, Controls: controls}}
	}

	// Groups in ascending first-row order, stable by first appearance.
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].firstRow() != groups[j].firstRow() {
			return groups[i].firstRow() < groups[j].firstRow()
		}
		return groups[i].appearance < groups[j].appearance
	})

	return interleave(regulars, groups)
}

// interleave merges regular runs back between the sorted group runs. A
// regular run is placed before the first group whose first row is >= the
// run's last row; runs that bracket no group trail the output.
func interleave(regulars, groups []*run) []model.Segment {
	out := make([]model.Segment, 0, len(regulars)+len(groups))
	ri := 0

	for _, g := range groups {
		for ri < len(regulars) && regulars[ri].lastRow() <= g.firstRow() {
			out = append(out, model.Segment{Kind: model.SegmentRegular, Controls: regulars[ri].controls})
			ri++
		}
		out = append(out, model.Segment{
			Kind:      model.SegmentGroup,
			GroupName: g.group,
			Controls:  g.controls,
		})
	}
	for ; ri < len(regulars); ri++ {
		out = append(out, model.Segment{Kind: model.SegmentRegular, Controls: regulars[ri].controls})
	}

	return out
}

// Groups returns the group segments of a segmented view, in output order.
func Groups(segments []model.Segment) []model.Segment {
	var out []model.Segment
	for _, s := range segments {
		if s.Kind == model.SegmentGroup {
			out = append(out, s)
		}
	}
	return out
}
