// Package progression converts usage events into skill advancement on a
// compounding cost curve, throttled by externally supplied policy.
package progression

import (
	"math"

	"github.com/mudforge/mudcore/internal/rulebook"
)

// CostForLevel returns the usage points needed to advance from level to
// level+1: ceil(baseCost * multiplier^level).
func CostForLevel(def *rulebook.SkillDefinition, level int) float64 {
	return math.Ceil(def.BaseCost * math.Pow(def.Multiplier, float64(level)))
}

// TotalCostForLevel returns the cumulative usage required to hold the
// given level, i.e. the sum of per-level costs for 0..level-1.
func TotalCostForLevel(def *rulebook.SkillDefinition, level int) float64 {
	total := 0.0
	for n := 0; n < level; n++ {
		total += CostForLevel(def, n)
	}
	return total
}

// CurrentLevel returns the greedy maximum level affordable with the
// accumulated usage.
func CurrentLevel(def *rulebook.SkillDefinition, usage float64) int {
	if usage <= 0 {
		return 0
	}

	level := 0
	remaining := usage
	for {
		cost := CostForLevel(def, level)
		if remaining < cost {
			return level
		}
		remaining -= cost
		level++
	}
}
