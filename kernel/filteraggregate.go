package kernel

import (
	"log"

	kerrors "github.com/NickG-1/qlever/internal/errors"
	"github.com/NickG-1/qlever/model"
)

// OneVarFilterAggScoresAndTakeTopKContextsSet is AggScoresAndTakeTopKContexts
// restricted up front to postings whose entity is a member of fSet: every
// other entity is dropped before aggregation even starts, so the map never
// grows beyond fSet's cardinality. As in the unfiltered aggregator, an
// entity's count is the number of distinct contexts it was seen in, not
// its posting count.
func OneVarFilterAggScoresAndTakeTopKContextsSet(cids []model.ContextID, eids []model.EntityID, scores []model.Score, fSet model.FilterSet, k int) (*model.OutputTable, error) {
	if len(cids) != len(eids) || len(cids) != len(scores) {
		return nil, kerrors.NewColumnLengthMismatchError("eids/scores", len(cids), len(eids))
	}
	if len(cids) == 0 || len(fSet) == 0 {
		return model.NewOutputTable(3, 0), nil
	}

	type entityAgg struct {
		count int
		seen  map[model.ContextID]struct{}
		set   *topKSet
	}
	agg := make(map[model.EntityID]*entityAgg)
	for i, eid := range eids {
		if !fSet.Contains(eid) {
			continue
		}
		a, ok := agg[eid]
		if !ok {
			a = &entityAgg{seen: make(map[model.ContextID]struct{}), set: newTopKSet(k)}
			agg[eid] = a
		}
		cid := cids[i]
		if _, seen := a.seen[cid]; seen {
			continue
		}
		a.seen[cid] = struct{}{}
		a.count++
		a.set.Offer(scoredContext{score: scores[i], cid: cid})
	}

	out := model.NewOutputTable(3, len(agg)*k)
	for eid, a := range agg {
		for _, c := range a.set.Descending() {
			if err := out.Append(model.Row{c.cid.AsValue(), model.Score(a.count).AsValue(), eid.AsValue()}); err != nil {
				return nil, err
			}
		}
	}
	log.Printf("kernel: filter-set aggregation done, %d rows", out.Len())
	return out, nil
}

// OneVarFilterAggScoresAndTakeTopKContextsMap is the FilterMap counterpart
// of OneVarFilterAggScoresAndTakeTopKContextsSet: the survivor's rows also
// carry the bound columns fMap associates with that entity, one output
// row per (kept context, bound filter row) pair.
func OneVarFilterAggScoresAndTakeTopKContextsMap(cids []model.ContextID, eids []model.EntityID, scores []model.Score, fMap model.FilterMap, k int) (*model.OutputTable, error) {
	if len(cids) != len(eids) || len(cids) != len(scores) {
		return nil, kerrors.NewColumnLengthMismatchError("eids/scores", len(cids), len(eids))
	}
	width := 3 + fMap.NumColumns()
	if len(cids) == 0 || len(fMap) == 0 {
		return model.NewOutputTable(width, 0), nil
	}

	type entityAgg struct {
		count int
		seen  map[model.ContextID]struct{}
		set   *topKSet
	}
	agg := make(map[model.EntityID]*entityAgg)
	for i, eid := range eids {
		rows, ok := fMap[eid]
		if !ok || len(rows) == 0 {
			continue
		}
		a, ok := agg[eid]
		if !ok {
			a = &entityAgg{seen: make(map[model.ContextID]struct{}), set: newTopKSet(k)}
			agg[eid] = a
		}
		cid := cids[i]
		if _, seen := a.seen[cid]; seen {
			continue
		}
		a.seen[cid] = struct{}{}
		a.count++
		a.set.Offer(scoredContext{score: scores[i], cid: cid})
	}

	out := model.NewOutputTable(width, 0)
	for eid, a := range agg {
		for _, c := range a.set.Descending() {
			for _, bound := range fMap[eid] {
				row := make(model.Row, 0, width)
				row = append(row, c.cid.AsValue(), model.Score(a.count).AsValue(), eid.AsValue())
				row = append(row, bound...)
				if err := out.Append(row); err != nil {
					return nil, err
				}
			}
		}
	}
	return out, nil
}

// MultVarsFilterAggScoresAndTakeTopKContextsSet is
// MultVarsAggScoresAndTakeTopKContexts with the first of the nofVars
// entity slots restricted to fSet membership: a context only contributes
// tuples when at least one of its entities is in fSet, and that slot is
// always drawn from the filtered subset while the remaining nofVars-1
// slots still range over every entity in the context.
func MultVarsFilterAggScoresAndTakeTopKContextsSet(cids []model.ContextID, eids []model.EntityID, scores []model.Score, fSet model.FilterSet, nofVars, k, maxFanout int) (*model.OutputTable, error) {
	if len(cids) != len(eids) || len(cids) != len(scores) {
		return nil, kerrors.NewColumnLengthMismatchError("eids/scores", len(cids), len(eids))
	}
	width := 2 + nofVars
	if len(cids) == 0 || len(fSet) == 0 {
		return model.NewOutputTable(width, 0), nil
	}

	type entityAgg struct {
		count int
		tuple []model.EntityID
		set   *topKSet
	}
	agg := make(map[string]*entityAgg)

	process := func(entitiesInContext, filteredInContext []model.EntityID, cid model.ContextID, cscore model.Score) error {
		if len(filteredInContext) == 0 {
			return nil
		}
		n := len(entitiesInContext)
		fanout := len(filteredInContext)
		for i := 1; i < nofVars; i++ {
			fanout *= n
			if fanout > maxFanout {
				return kerrors.NewFanoutExceededError(n, nofVars, maxFanout)
			}
		}
		keyBuf := make([]model.EntityID, nofVars)
		seenInContext := make(map[string]struct{}, fanout)
		for j := 0; j < fanout; j++ {
			rem := j
			keyBuf[0] = filteredInContext[rem%len(filteredInContext)]
			rem /= len(filteredInContext)
			for i := 1; i < nofVars; i++ {
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

	var entitiesInContext, filteredInContext []model.EntityID
	currentCid := cids[0]
	currentScore := scores[0]
	for i := 0; i < len(cids); i++ {
		if cids[i] == currentCid {
			entitiesInContext = append(entitiesInContext, eids[i])
			if fSet.Contains(eids[i]) {
				filteredInContext = append(filteredInContext, eids[i])
			}
			continue
		}
		if err := process(entitiesInContext, filteredInContext, currentCid, currentScore); err != nil {
			return nil, err
		}
		entitiesInContext, filteredInContext = entitiesInContext[:0], filteredInContext[:0]
		currentCid, currentScore = cids[i], scores[i]
		entitiesInContext = append(entitiesInContext, eids[i])
		if fSet.Contains(eids[i]) {
			filteredInContext = append(filteredInContext, eids[i])
		}
	}
	if err := process(entitiesInContext, filteredInContext, currentCid, currentScore); err != nil {
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
	return out, nil
}

// MultVarsFilterAggScoresAndTakeTopKContextsMap is the FilterMap
// counterpart of MultVarsFilterAggScoresAndTakeTopKContextsSet: the
// filtered slot's entity additionally contributes its bound filter-map
// rows, appended to every output row after the entity tuple.
func MultVarsFilterAggScoresAndTakeTopKContextsMap(cids []model.ContextID, eids []model.EntityID, scores []model.Score, fMap model.FilterMap, nofVars, k, maxFanout int) (*model.OutputTable, error) {
	setView := make(model.FilterSet, len(fMap))
	for eid := range fMap {
		setView[eid] = struct{}{}
	}
	agg, err := MultVarsFilterAggScoresAndTakeTopKContextsSet(cids, eids, scores, setView, nofVars, k, maxFanout)
	if err != nil {
		return nil, err
	}

	width := agg.Width + fMap.NumColumns()
	out := model.NewOutputTable(width, agg.Len())
	for _, row := range agg.Rows {
		keyEid := model.EntityID(row[2])
		for _, bound := range fMap[keyEid] {
			full := append(append(model.Row(nil), row...), bound...)
			if err := out.Append(full); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
