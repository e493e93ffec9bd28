package kernel

import (
	"encoding/binary"
	"log"
	"sort"

	"github.com/NickG-1/qlever/config"
	kerrors "github.com/NickG-1/qlever/internal/errors"
	"github.com/NickG-1/qlever/model"
)

// AggScoresAndTakeTopKContexts groups wep by entity, counts the number of
// distinct (entity, context) pairs each entity participates in (the
// entity's score, per Open Question 2: occurrence count, not summed word
// score), and keeps at most k contexts per entity ranked by posting
// score. A posting only increments its entity's count the first time its
// (entity, context) pair is seen; subsequent word-tuples at that same
// pair append to the kept context's word list without recounting, and
// materialization emits one output row per stored word tuple (carrying
// as many trailing word columns as wep has word columns).
//
// k == 1 takes a dedicated O(n) path with a plain hash map instead of a
// per-entity ordered set, since there is nothing to rank beyond "the
// single best".
func AggScoresAndTakeTopKContexts(wep model.WordEntityPostings, k int) (*model.OutputTable, error) {
	if err := wep.Validate(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, kerrors.NewColumnLengthMismatchError("k", 1, k)
	}

	width := 3 + len(wep.WIDs)

	if k == 1 {
		return aggOneContextPerEntity(wep, width)
	}

	log.Printf("kernel: aggregating %d postings, k=%d contexts per entity", wep.Len(), k)

	type entityAgg struct {
		count int
		ctxs  map[model.ContextID][][]model.WordID
		set   *topKSet
	}
	agg := make(map[model.EntityID]*entityAgg, wep.Len())
	for i := 0; i < wep.Len(); i++ {
		eid := wep.EIDs[i]
		cid := wep.CIDs[i]
		a, ok := agg[eid]
		if !ok {
			a = &entityAgg{ctxs: make(map[model.ContextID][][]model.WordID), set: newTopKSet(k)}
			agg[eid] = a
		}
		if _, seen := a.ctxs[cid]; !seen {
			a.count++
			a.ctxs[cid] = [][]model.WordID{}
			a.set.Offer(scoredContext{score: wep.Scores[i], cid: cid})
		}
		if width > 3 {
			a.ctxs[cid] = append(a.ctxs[cid], wep.WordTupleAt(i))
		}
	}

	out := model.NewOutputTable(width, len(agg)*k)
	for eid, a := range agg {
		for _, c := range a.set.Descending() {
			if err := appendEntityContextRows(out, c.cid, a.count, eid, a.ctxs[c.cid], width); err != nil {
				return nil, err
			}
		}
	}
	log.Printf("kernel: aggregation done, %d entity-context rows", out.Len())
	return out, nil
}

func aggOneContextPerEntity(wep model.WordEntityPostings, width int) (*model.OutputTable, error) {
	type best struct {
		count     int
		bestCid   model.ContextID
		bestScore model.Score
		hasBest   bool
		ctxs      map[model.ContextID][][]model.WordID
	}
	agg := make(map[model.EntityID]*best, wep.Len())
	for i := 0; i < wep.Len(); i++ {
		eid := wep.EIDs[i]
		cid := wep.CIDs[i]
		score := wep.Scores[i]
		b, ok := agg[eid]
		if !ok {
			b = &best{ctxs: make(map[model.ContextID][][]model.WordID)}
			agg[eid] = b
		}
		if _, seen := b.ctxs[cid]; !seen {
			b.count++
			b.ctxs[cid] = [][]model.WordID{}
			if !b.hasBest || b.bestScore < score {
				b.bestCid = cid
				b.bestScore = score
				b.hasBest = true
			}
		}
		if width > 3 {
			b.ctxs[cid] = append(b.ctxs[cid], wep.WordTupleAt(i))
		}
	}

	out := model.NewOutputTable(width, len(agg))
	for eid, b := range agg {
		if err := appendEntityContextRows(out, b.bestCid, b.count, eid, b.ctxs[b.bestCid], width); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// appendEntityContextRows materializes one output row per word tuple
// stored at (eid, cid) (or a single wordless row if wep carries no word
// columns), per the §4.D.2 materialization rule.
func appendEntityContextRows(out *model.OutputTable, cid model.ContextID, count int, eid model.EntityID, words [][]model.WordID, width int) error {
	if width == 3 || len(words) == 0 {
		return out.Append(model.Row{cid.AsValue(), model.Score(count).AsValue(), eid.AsValue()})
	}
	for _, tuple := range words {
		row := make(model.Row, 0, width)
		row = append(row, cid.AsValue(), model.Score(count).AsValue(), eid.AsValue())
		for _, w := range tuple {
			row = append(row, w.AsValue())
		}
		if err := out.Append(row); err != nil {
			return err
		}
	}
	return nil
}

// entityKey packs an entity tuple into a comparable map key.
func entityKey(tuple []model.EntityID) string {
	b := make([]byte, len(tuple)*8)
	for i, e := range tuple {
		binary.LittleEndian.PutUint64(b[i*8:], uint64(e))
	}
	return string(b)
}

// MultVarsAggScoresAndTakeTopKContexts groups contiguous runs of the same
// context in cids into the cross product of that context's nofVars-ary
// entity tuples (mixed-radix indexed, the same enumeration the
// cross-product appenders use), then aggregates per distinct tuple the
// same way the single-variable aggregator does. cids must already be
// grouped by context (contiguous runs), the shape the intersector and
// range filter produce.
//
// A context whose entitiesInContext^nofVars would exceed
// limits.MaxFanout raises a FanoutExceededError rather than materializing
// the cross product, resolving the fan-out explosion question.
func MultVarsAggScoresAndTakeTopKContexts(cids []model.ContextID, eids []model.EntityID, scores []model.Score, nofVars, k int, limits config.Limits) (*model.OutputTable, error) {
	if len(cids) != len(eids) || len(cids) != len(scores) {
		return nil, kerrors.NewColumnLengthMismatchError("eids/scores", len(cids), len(eids))
	}
	width := 2 + nofVars
	if len(cids) == 0 {
		return model.NewOutputTable(width, 0), nil
	}

	type entityAgg struct {
		count int
		tuple []model.EntityID
		set   *topKSet
	}
	agg := make(map[string]*entityAgg)
	keyBuf := make([]model.EntityID, nofVars)

	process := func(entitiesInContext []model.EntityID, cid model.ContextID, cscore model.Score) error {
		n := len(entitiesInContext)
		fanout := 1
		for i := 0; i < nofVars; i++ {
			fanout *= n
			if fanout > limits.MaxFanout {
				return kerrors.NewFanoutExceededError(n, nofVars, limits.MaxFanout)
			}
		}
		// A tuple repeated within one context (an entity listed twice) is
		// counted and offered once, as a (tuple, context) pair.
		seenInContext := make(map[string]struct{}, fanout)
		for j := 0; j < fanout; j++ {
			rem := j
			for i := 0; i < nofVars; i++ {
				keyBuf[i] = entitiesInContext[rem%n]
				rem /= n
			}
			key := entityKey(keyBuf)
			if _, dup := seenInContext[key]; dup {
				continue
			}
			seenInContext[key] = struct{}{}
			a, ok := agg[key]
			if !ok {
				a = &entityAgg{set: newTopKSet(k), tuple: append([]model.EntityID(nil), keyBuf...)}
				agg[key] = a
			}
			a.count++
			a.set.Offer(scoredContext{score: cscore, cid: cid})
		}
		return nil
	}

	var entitiesInContext []model.EntityID
	currentCid := cids[0]
	currentScore := scores[0]
	for i := 0; i < len(cids); i++ {
		if cids[i] == currentCid {
			entitiesInContext = append(entitiesInContext, eids[i])
			continue
		}
		if err := process(entitiesInContext, currentCid, currentScore); err != nil {
			return nil, err
		}
		entitiesInContext = entitiesInContext[:0]
		currentCid = cids[i]
		currentScore = scores[i]
		entitiesInContext = append(entitiesInContext, eids[i])
	}
	if err := process(entitiesInContext, currentCid, currentScore); err != nil {
		return nil, err
	}

	out := model.NewOutputTable(width, len(agg)*k)
	for _, a := range agg {
		for _, c := range a.set.Descending() {
			row := make(model.Row, 0, width)
			row = append(row, c.cid.AsValue(), model.Score(a.count).AsValue())
			for _, e := range a.tuple {
				row = append(row, e.AsValue())
			}
			if err := out.Append(row); err != nil {
				return nil, err
			}
		}
	}
	log.Printf("kernel: multi-variable aggregation done, %d tuples, %d rows", len(agg), out.Len())
	return out, nil
}

// AggregateSortedRows is the sort-then-group aggregator variant: instead
// of a hash map kept live while scanning, it sorts already-materialized
// rows by (groupKeyCol, extraCols...) and collapses consecutive identical
// groups, keeping at most k rows per group and overwriting countCol with
// the group's total size. It trades the map's O(n) scan for an O(n log n)
// sort, useful when the rows already need sorting downstream (e.g. to
// restore context order) so the grouping pass is nearly free.
//
// extraCols names the columns (beyond groupKeyCol) that must also match
// for two rows to belong to the same group; rows are otherwise assumed
// pre-sorted by score, highest first, within a group.
func AggregateSortedRows(rows []model.Row, groupKeyCol, countCol int, extraCols []int, k int) []model.Row {
	if len(rows) == 0 {
		return nil
	}

	sameGroup := func(a, b model.Row) bool {
		if a[groupKeyCol] != b[groupKeyCol] {
			return false
		}
		for _, c := range extraCols {
			if a[c] != b[c] {
				return false
			}
		}
		return true
	}

	sorted := append([]model.Row(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i][groupKeyCol] != sorted[j][groupKeyCol] {
			return sorted[i][groupKeyCol] < sorted[j][groupKeyCol]
		}
		for _, c := range extraCols {
			if sorted[i][c] != sorted[j][c] {
				return sorted[i][c] < sorted[j][c]
			}
		}
		return false
	})

	var result []model.Row
	groupStart := 0
	flushGroup := func(end int) {
		size := end - groupStart
		limit := size
		if limit > k {
			limit = k
		}
		for i := groupStart; i < groupStart+limit; i++ {
			row := append(model.Row(nil), sorted[i]...)
			row[countCol] = model.ValueID(size)
			result = append(result, row)
		}
	}

	for i := 1; i < len(sorted); i++ {
		if !sameGroup(sorted[i], sorted[groupStart]) {
			flushGroup(i)
			groupStart = i
		}
	}
	flushGroup(len(sorted))
	return result
}
