// Package score computes effective ability scores: the combined value of
// an attribute, a skill level, equipment modifiers and effect deltas
// that every check rolls against.
package score

import (
	"github.com/mudforge/mudcore/internal/domain/equipment"
	"github.com/mudforge/mudcore/internal/domain/shared"
	"github.com/mudforge/mudcore/internal/effects"
)

// Input carries the already-resolved snapshot pieces for one score.
type Input struct {
	Attribute     shared.Attribute
	AttributeBase int
	SkillID       string
	SkillLevel    int
	Equipment     equipment.ModifierSet
	Effects       *effects.Summary // nil when no effects are active
}

// Effective computes
//
//	(attribute + attr mods) + (skill level + skill mods) - 5
//
// floored at zero. Equipment percent modifiers scale the base before
// flat modifiers are added (half-up rounding at each aggregation point);
// effect deltas are flat and attribute modifiers cascade to every skill
// sharing the attribute by construction.
func Effective(in Input) int {
	attr := in.Equipment.AttributeTotal(in.Attribute, in.AttributeBase)
	skill := in.Equipment.SkillTotal(in.SkillID, in.SkillLevel)

	if in.Effects != nil {
		attr += in.Effects.AttributeDeltas[in.Attribute]
		skill += in.Effects.SkillDeltas[in.SkillID]
	}

	result := attr + skill - 5
	if result < 0 {
		return 0
	}
	return result
}
