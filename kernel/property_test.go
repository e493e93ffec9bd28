package kernel

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NickG-1/qlever/model"
)

// randomSortedWEP builds a deterministic, already-sorted-by-context WEP of
// n postings over a small entity and word-id universe, so intersections
// and aggregations have realistic overlap.
func randomSortedWEP(rng *rand.Rand, n int, withEntities bool) model.WordEntityPostings {
	cids := make([]int, n)
	for i := range cids {
		cids[i] = rng.Intn(n/2 + 1)
	}
	sort.Ints(cids)

	wep := model.WordEntityPostings{
		CIDs:   make([]model.ContextID, n),
		Scores: make([]model.Score, n),
		WIDs:   [][]model.WordID{make([]model.WordID, n)},
	}
	if withEntities {
		wep.EIDs = make([]model.EntityID, n)
	}
	for i := 0; i < n; i++ {
		wep.CIDs[i] = model.ContextID(cids[i])
		wep.Scores[i] = model.Score(rng.Intn(10) + 1)
		wep.WIDs[0][i] = model.WordID(rng.Intn(5))
		if withEntities {
			wep.EIDs[i] = model.EntityID(rng.Intn(5))
		}
	}
	return wep
}

func TestPropertyFilterByRangeNeverGrowsAndStaysValid(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 30; trial++ {
		wep := randomSortedWEP(rng, rng.Intn(40)+1, false)
		r := model.IdRange{First: model.WordID(rng.Intn(3)), Last: model.WordID(rng.Intn(3) + 2)}

		out, err := FilterByRange(r, wep)
		require.NoError(t, err)
		require.NoError(t, out.Validate())
		assert.LessOrEqual(t, out.Len(), wep.Len())
		for _, w := range out.WIDs[0] {
			assert.True(t, r.Contains(w))
		}
	}
}

func TestPropertyFilterByRangeFullRangeIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	wep := randomSortedWEP(rng, 25, true)
	out, err := FilterByRange(model.IdRange{First: 0, Last: 4}, wep)
	require.NoError(t, err)
	assert.Equal(t, wep.Len(), out.Len())
	assert.Equal(t, wep.CIDs, out.CIDs)
}

func TestPropertyCrossIntersectKWayOutputContextsAreNonDecreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 20; trial++ {
		lists := make([]model.WordEntityPostings, 2)
		lists[0] = randomSortedWEP(rng, rng.Intn(20)+1, false)
		lists[1] = randomSortedWEP(rng, rng.Intn(20)+1, true)

		out, err := CrossIntersectKWay(lists)
		require.NoError(t, err)
		for i := 1; i < out.Len(); i++ {
			assert.LessOrEqual(t, out.CIDs[i-1], out.CIDs[i])
		}
	}
}

// entityContextPairKey uniquely identifies a distinct (entity, context)
// pair for the counting invariant below.
type entityContextPairKey struct {
	eid model.EntityID
	cid model.ContextID
}

func TestPropertyAggregateEntityCountsSumToDistinctEntityContextPairs(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	for trial := 0; trial < 15; trial++ {
		wep := randomSortedWEP(rng, rng.Intn(30)+1, true)
		k := rng.Intn(3) + 1

		out, err := AggScoresAndTakeTopKContexts(wep, k)
		require.NoError(t, err)

		countByEntity := make(map[model.ValueID]int)
		for _, row := range out.Rows {
			countByEntity[row[2]] = int(row[1])
		}

		distinctPairs := make(map[entityContextPairKey]struct{})
		for i := 0; i < wep.Len(); i++ {
			distinctPairs[entityContextPairKey{eid: wep.EIDs[i], cid: wep.CIDs[i]}] = struct{}{}
		}
		wantByEntity := make(map[model.EntityID]int)
		for pair := range distinctPairs {
			wantByEntity[pair.eid]++
		}

		var total int
		for e, want := range wantByEntity {
			assert.Equal(t, want, countByEntity[e.AsValue()], "entity %d count", e)
			total += want
		}
		assert.Equal(t, len(distinctPairs), total)
	}
}

func TestPropertyAggregateNeverExceedsKContextsPerEntity(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for trial := 0; trial < 15; trial++ {
		wep := randomSortedWEP(rng, rng.Intn(40)+1, true)
		k := rng.Intn(4) + 1

		out, err := AggScoresAndTakeTopKContexts(wep, k)
		require.NoError(t, err)

		// A single kept context can materialize several rows (one per
		// stored word tuple), so the invariant is on distinct contexts
		// per entity, not on row count.
		ctxsByEntity := make(map[model.ValueID]map[model.ValueID]struct{})
		for _, row := range out.Rows {
			eid := row[2]
			if ctxsByEntity[eid] == nil {
				ctxsByEntity[eid] = make(map[model.ValueID]struct{})
			}
			ctxsByEntity[eid][row[0]] = struct{}{}
		}
		for _, ctxs := range ctxsByEntity {
			assert.LessOrEqual(t, len(ctxs), k)
		}
	}
}
