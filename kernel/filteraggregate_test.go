package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NickG-1/qlever/model"
)

func TestOneVarFilterAggScoresAndTakeTopKContextsSetDropsNonMembers(t *testing.T) {
	cids := []model.ContextID{1, 2, 3}
	eids := []model.EntityID{10, 20, 30}
	scores := []model.Score{1, 2, 3}
	fSet := model.NewFilterSet(10, 30)

	out, err := OneVarFilterAggScoresAndTakeTopKContextsSet(cids, eids, scores, fSet, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
	for _, row := range out.Rows {
		assert.NotEqual(t, model.EntityID(20).AsValue(), row[2])
	}
}

func TestOneVarFilterAggScoresAndTakeTopKContextsSetEmptyFilterIsDegenerate(t *testing.T) {
	out, err := OneVarFilterAggScoresAndTakeTopKContextsSet(
		[]model.ContextID{1}, []model.EntityID{1}, []model.Score{1}, model.FilterSet{}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestOneVarFilterAggScoresAndTakeTopKContextsMapAppendsBoundRows(t *testing.T) {
	cids := []model.ContextID{1, 2}
	eids := []model.EntityID{10, 10}
	scores := []model.Score{1, 5}
	fMap := model.FilterMap{10: {{model.ValueID(999)}}}

	out, err := OneVarFilterAggScoresAndTakeTopKContextsMap(cids, eids, scores, fMap, 1)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, model.ValueID(999), out.Rows[0][3])
	assert.Equal(t, model.ContextID(2).AsValue(), out.Rows[0][0])
}

func TestMultVarsFilterAggScoresAndTakeTopKContextsSetRequiresAFilteredEntityPerContext(t *testing.T) {
	cids := []model.ContextID{1, 1, 2, 2}
	eids := []model.EntityID{10, 20, 30, 40}
	scores := []model.Score{1, 1, 2, 2}
	fSet := model.NewFilterSet(10)

	out, err := MultVarsFilterAggScoresAndTakeTopKContextsSet(cids, eids, scores, fSet, 2, 3, 1000)
	require.NoError(t, err)
	// Only context 1 has a filtered entity (10); context 2 contributes nothing.
	for _, row := range out.Rows {
		assert.Equal(t, model.ContextID(1).AsValue(), row[0])
	}
}

func TestMultVarsFilterAggScoresAndTakeTopKContextsMapAppendsBoundColumns(t *testing.T) {
	cids := []model.ContextID{1, 1}
	eids := []model.EntityID{10, 20}
	scores := []model.Score{1, 1}
	fMap := model.FilterMap{10: {{model.ValueID(777)}}}

	out, err := MultVarsFilterAggScoresAndTakeTopKContextsMap(cids, eids, scores, fMap, 2, 3, 1000)
	require.NoError(t, err)
	require.True(t, out.Len() > 0)
	last := out.Width - 1
	assert.Equal(t, model.ValueID(777), out.Rows[0][last])
}
