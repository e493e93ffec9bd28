package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NickG-1/qlever/model"
)

func TestFilterByRangeKeepsOnlyIdsInRange(t *testing.T) {
	pre := model.WordEntityPostings{
		CIDs:   []model.ContextID{1, 2, 3, 4, 5},
		Scores: []model.Score{10, 20, 30, 40, 50},
		WIDs:   [][]model.WordID{{5, 12, 7, 20, 8}},
	}
	r := model.IdRange{First: 5, Last: 10}

	out, err := FilterByRange(r, pre)
	require.NoError(t, err)

	assert.Equal(t, []model.ContextID{1, 3, 5}, out.CIDs)
	assert.Equal(t, []model.Score{10, 30, 50}, out.Scores)
	assert.Equal(t, []model.WordID{5, 7, 8}, out.WIDs[0])
}

func TestFilterByRangeEmptyInputIsDegenerate(t *testing.T) {
	pre := model.WordEntityPostings{WIDs: [][]model.WordID{{}}}
	out, err := FilterByRange(model.IdRange{First: 0, Last: 100}, pre)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestFilterByRangeRejectsMissingWordColumn(t *testing.T) {
	pre := model.WordEntityPostings{CIDs: []model.ContextID{1}, Scores: []model.Score{1}}
	_, err := FilterByRange(model.IdRange{First: 0, Last: 1}, pre)
	require.Error(t, err)
}

func TestFilterByRangePreservesEntityColumn(t *testing.T) {
	pre := model.WordEntityPostings{
		CIDs:   []model.ContextID{1, 2},
		EIDs:   []model.EntityID{100, 200},
		Scores: []model.Score{1, 2},
		WIDs:   [][]model.WordID{{5, 99}},
	}
	out, err := FilterByRange(model.IdRange{First: 0, Last: 10}, pre)
	require.NoError(t, err)
	assert.Equal(t, []model.EntityID{100}, out.EIDs)
}
