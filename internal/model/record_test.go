package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidLevel(t *testing.T) {
	for _, l := range ValidLevels {
		assert.True(t, IsValidLevel(l))
	}
	for _, l := range []string{"", "error", "WARNING", "TRACE", "Info"} {
		assert.False(t, IsValidLevel(l), l)
	}
}

func TestLevelRank_Ordering(t *testing.T) {
	assert.Less(t, LevelRank("DEBUG"), LevelRank("INFO"))
	assert.Less(t, LevelRank("INFO"), LevelRank("WARN"))
	assert.Less(t, LevelRank("WARN"), LevelRank("ERROR"))
}

func TestLevelRank_UnknownRanksAsDebug(t *testing.T) {
	assert.Equal(t, LevelDebug, LevelRank("TRACE"))
	assert.Equal(t, LevelDebug, LevelRank(""))
}

func TestRankLevel_RoundTrip(t *testing.T) {
	for _, l := range ValidLevels {
		assert.Equal(t, l, RankLevel(LevelRank(l)))
	}
}
