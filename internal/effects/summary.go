package effects

import (
	"math"

	"github.com/mudforge/mudcore/internal/domain/shared"
)

// Summary is the aggregated modifier bundle for one character's active
// effects. It is the sole channel through which effects reach ability
// score and combat calculations.
type Summary struct {
	AttributeDeltas map[shared.Attribute]int
	SkillDeltas     map[string]int
	AttackDelta     int
	SuccessDelta    int
	MaxPoolDeltas   map[shared.PoolKind]int

	// Percent modifiers accumulate additively: two +10% sources give +20%.
	DamageDealtPercent     float64
	HealingReceivedPercent float64

	PreventMovement     bool
	PreventActions      bool
	PreventSpellcasting bool
	Invisible           bool
}

// NewSummary returns an empty bundle.
func NewSummary() *Summary {
	return &Summary{
		AttributeDeltas: make(map[shared.Attribute]int),
		SkillDeltas:     make(map[string]int),
		MaxPoolDeltas:   make(map[shared.PoolKind]int),
	}
}

// DamageDealtScale converts the accumulated percent into a multiplier,
// floored at zero.
func (s *Summary) DamageDealtScale() float64 {
	scale := 1 + s.DamageDealtPercent
	if scale < 0 {
		return 0
	}
	return scale
}

// apply folds one impact into the bundle. scale carries stacks and, for
// scaling definitions, intensity. Every ImpactKind has a case here.
func (s *Summary) apply(impact Impact, scale float64) {
	switch impact.Kind {
	case ImpactAttribute:
		s.AttributeDeltas[impact.Attribute] += scaledInt(impact.Amount, scale)
	case ImpactSkill:
		s.SkillDeltas[impact.SkillID] += scaledInt(impact.Amount, scale)
	case ImpactAttackValue:
		s.AttackDelta += scaledInt(impact.Amount, scale)
	case ImpactSuccessValue:
		s.SuccessDelta += scaledInt(impact.Amount, scale)
	case ImpactMaxPool:
		s.MaxPoolDeltas[impact.Pool] += scaledInt(impact.Amount, scale)
	case ImpactDamageDealtPercent:
		s.DamageDealtPercent += impact.Amount * scale
	case ImpactHealingPercent:
		s.HealingReceivedPercent += impact.Amount * scale
	case ImpactPreventMovement:
		s.PreventMovement = true
	case ImpactPreventActions:
		s.PreventActions = true
	case ImpactPreventSpellcasting:
		s.PreventSpellcasting = true
	case ImpactInvisibility:
		s.Invisible = true
	case ImpactPeriodicFlat, ImpactPeriodicPercent:
		// periodic impacts act on tick, not in the static summary
	}
}

func scaledInt(amount, scale float64) int {
	return int(math.Floor(amount*scale + 0.5))
}
