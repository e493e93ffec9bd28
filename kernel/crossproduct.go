package kernel

import (
	kerrors "github.com/NickG-1/qlever/internal/errors"
	"github.com/NickG-1/qlever/model"
)

// contextRange returns the exclusive end to of the run of contiguous rows
// in wep sharing wep.CIDs[from], so that [from, to) spans that run.
func contextRange(wep model.WordEntityPostings, from int) (to int) {
	to = from + 1
	for to < wep.Len() && wep.CIDs[to] == wep.CIDs[from] {
		to++
	}
	return to
}

// AppendCrossProduct appends, for the single context spanned by
// wep[from:to], the cross product of that context's entity postings
// against two bound filter sets: every entity in the context that
// appears in set1 is paired with every entity in the context that
// appears in set2 (and with every posting of that context), emitting
// rows [entity, score, context, matchedFromSet1, matchedFromSet2].
// Duplicate entities within the context are deduplicated before the
// product is taken, matching the per-context distinct-entity semantics
// of the intersector's output.
func AppendCrossProduct(wep model.WordEntityPostings, from, to int, set1, set2 model.FilterSet, out *model.OutputTable) error {
	if to <= from || to > wep.Len() {
		return kerrors.NewColumnLengthMismatchError("context range", wep.Len(), to)
	}

	seen := make(map[model.EntityID]struct{}, to-from)
	var matched1, matched2 []model.EntityID
	for i := from; i < to; i++ {
		eid := wep.EIDs[i]
		if _, ok := seen[eid]; ok {
			continue
		}
		seen[eid] = struct{}{}
		if set1.Contains(eid) {
			matched1 = append(matched1, eid)
		}
		if set2.Contains(eid) {
			matched2 = append(matched2, eid)
		}
	}
	if len(matched1) == 0 || len(matched2) == 0 {
		return nil
	}

	for i := from; i < to; i++ {
		for _, e1 := range matched1 {
			for _, e2 := range matched2 {
				row := model.Row{
					wep.EIDs[i].AsValue(),
					wep.Scores[i].AsValue(),
					wep.CIDs[i].AsValue(),
					e1.AsValue(),
					e2.AsValue(),
				}
				if err := out.Append(row); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// AppendCrossProductMaps appends, for the single context spanned by
// wep[from:to], the cross product of that context's distinct entities
// against k bound filter maps: each distinct entity contributes every
// row bound to it in every map, and the cartesian product of those
// per-map row sets is appended after each posting, using mixed-radix
// indexing (row n's slot for map j is (n / prod(sizes before j)) %
// size(j)) rather than k nested loops, so it generalizes to any number
// of maps.
func AppendCrossProductMaps(wep model.WordEntityPostings, from, to int, maps []model.FilterMap, out *model.OutputTable) error {
	if to <= from || to > wep.Len() {
		return kerrors.NewColumnLengthMismatchError("context range", wep.Len(), to)
	}

	matches := make([][][]model.ValueID, len(maps))
	seen := make(map[model.EntityID]struct{}, to-from)
	for i := from; i < to; i++ {
		eid := wep.EIDs[i]
		if _, ok := seen[eid]; ok {
			continue
		}
		seen[eid] = struct{}{}
		for j, m := range maps {
			if rows, ok := m[eid]; ok {
				matches[j] = append(matches[j], rows...)
			}
		}
	}

	nofResultRows := 1
	for _, m := range matches {
		nofResultRows *= len(m)
	}
	if nofResultRows == 0 {
		return nil
	}

	for i := from; i < to; i++ {
		for n := 0; n < nofResultRows; n++ {
			row := model.Row{wep.EIDs[i].AsValue(), wep.Scores[i].AsValue(), wep.CIDs[i].AsValue()}
			index := n
			for j, m := range matches {
				slot := index % len(m)
				if j < len(matches)-1 {
					index /= len(m)
				}
				row = append(row, m[slot]...)
			}
			if err := out.Append(row); err != nil {
				return err
			}
		}
	}
	return nil
}
