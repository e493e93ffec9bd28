// Package kernel implements the full-text-search join and aggregation
// primitives: range filtering over word-id prefix classes, sorted-context
// intersection (two-way and k-way), per-context cross-product expansion
// against bound sub-results, and top-k score aggregation, with and without
// an entity-membership filter.
package kernel

import (
	"log"

	"github.com/NickG-1/qlever/model"
)

// FilterByRange keeps only the postings in pre whose single word column
// falls within r, preserving relative order. pre must carry exactly one
// word column; this is the shape produced by a prefix-expansion stage
// before the per-context cross-product or intersection stages run.
func FilterByRange(r model.IdRange, pre model.WordEntityPostings) (model.WordEntityPostings, error) {
	if err := pre.ValidateOneWordColumn(); err != nil {
		return model.WordEntityPostings{}, err
	}

	log.Printf("kernel: filtering %d postings by word-id range [%d, %d]", pre.Len(), r.First, r.Last)

	n := pre.Len()
	out := model.WordEntityPostings{
		CIDs:   make([]model.ContextID, 0, n),
		Scores: make([]model.Score, 0, n),
		WIDs:   [][]model.WordID{make([]model.WordID, 0, n)},
	}
	hasEntities := pre.HasEntities()
	if hasEntities {
		out.EIDs = make([]model.EntityID, 0, n)
	}

	wids := pre.WIDs[0]
	for i := 0; i < n; i++ {
		if !r.Contains(wids[i]) {
			continue
		}
		out.CIDs = append(out.CIDs, pre.CIDs[i])
		out.Scores = append(out.Scores, pre.Scores[i])
		out.WIDs[0] = append(out.WIDs[0], wids[i])
		if hasEntities {
			out.EIDs = append(out.EIDs, pre.EIDs[i])
		}
	}

	log.Printf("kernel: range filter done, %d postings remain", out.Len())
	return out, nil
}
