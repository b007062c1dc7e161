package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mudforge/mudcore/internal/rulebook"
)

func curveDef() *rulebook.SkillDefinition {
	return &rulebook.SkillDefinition{ID: "swords", BaseCost: 25, Multiplier: 2.2}
}

func TestCostForLevel(t *testing.T) {
	def := curveDef()

	assert.Equal(t, 25.0, CostForLevel(def, 0))
	assert.Equal(t, 55.0, CostForLevel(def, 1))  // ceil(25 * 2.2)
	assert.Equal(t, 121.0, CostForLevel(def, 2)) // ceil(25 * 4.84)
}

func TestCostForLevel_Monotonic(t *testing.T) {
	def := curveDef()
	prev := 0.0
	for level := 0; level < 15; level++ {
		cost := CostForLevel(def, level)
		assert.Greater(t, cost, prev, "level %d", level)
		prev = cost
	}
}

func TestTotalCostForLevel(t *testing.T) {
	def := curveDef()

	assert.Equal(t, 0.0, TotalCostForLevel(def, 0))
	assert.Equal(t, 25.0, TotalCostForLevel(def, 1))
	assert.Equal(t, 80.0, TotalCostForLevel(def, 2))
	assert.Equal(t, 201.0, TotalCostForLevel(def, 3))
}

func TestCurrentLevel(t *testing.T) {
	def := curveDef()

	tests := []struct {
		usage float64
		want  int
	}{
		{0, 0},
		{-5, 0},
		{24.9, 0},
		{25, 1},
		{79.9, 1},
		{80, 2},
		{200.9, 2},
		{201, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CurrentLevel(def, tt.usage), "usage %v", tt.usage)
	}
}

func TestCurrentLevel_RoundTripsTotalCost(t *testing.T) {
	def := curveDef()
	for level := 0; level < 10; level++ {
		total := TotalCostForLevel(def, level)
		assert.Equal(t, level, CurrentLevel(def, total), "exact threshold for level %d", level)
		if level > 0 {
			assert.Equal(t, level-1, CurrentLevel(def, total-0.1), "just below threshold for level %d", level)
		}
	}
}
