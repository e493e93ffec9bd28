package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NickG-1/qlever/model"
)

func TestAppendCrossProductBuildsProductOfMatchedSets(t *testing.T) {
	wep := model.WordEntityPostings{
		CIDs:   []model.ContextID{7, 7, 7},
		EIDs:   []model.EntityID{1, 2, 3},
		Scores: []model.Score{10, 20, 30},
	}
	set1 := model.NewFilterSet(1, 2)
	set2 := model.NewFilterSet(2, 3)

	out := model.NewOutputTable(5, 0)
	err := AppendCrossProduct(wep, 0, 3, set1, set2, out)
	require.NoError(t, err)

	// matched1 = {1, 2}, matched2 = {2, 3}: 2*2 = 4 rows per posting, 3 postings = 12 rows.
	assert.Equal(t, 12, out.Len())
	for _, row := range out.Rows {
		assert.Equal(t, model.ContextID(7).AsValue(), row[2])
	}
}

func TestAppendCrossProductSkipsWhenEitherSideEmpty(t *testing.T) {
	wep := model.WordEntityPostings{
		CIDs:   []model.ContextID{7},
		EIDs:   []model.EntityID{1},
		Scores: []model.Score{10},
	}
	out := model.NewOutputTable(5, 0)
	err := AppendCrossProduct(wep, 0, 1, model.NewFilterSet(1), model.NewFilterSet(99), out)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestAppendCrossProductMapsAppendsBoundColumns(t *testing.T) {
	wep := model.WordEntityPostings{
		CIDs:   []model.ContextID{7, 7},
		EIDs:   []model.EntityID{1, 1},
		Scores: []model.Score{10, 10},
	}
	m1 := model.FilterMap{1: {{model.ValueID(100)}, {model.ValueID(101)}}}
	m2 := model.FilterMap{1: {{model.ValueID(200)}}}

	out := model.NewOutputTable(5, 0)
	err := AppendCrossProductMaps(wep, 0, 2, []model.FilterMap{m1, m2}, out)
	require.NoError(t, err)

	// 2 rows in m1 x 1 row in m2 = 2 combinations, repeated per posting (2 postings) = 4 rows.
	assert.Equal(t, 4, out.Len())
	for _, row := range out.Rows {
		assert.Equal(t, model.ValueID(200), row[4])
	}
}

func TestContextRangeFindsContiguousRun(t *testing.T) {
	wep := model.WordEntityPostings{CIDs: []model.ContextID{1, 1, 1, 2, 2}}
	assert.Equal(t, 3, contextRange(wep, 0))
	assert.Equal(t, 5, contextRange(wep, 3))
}
