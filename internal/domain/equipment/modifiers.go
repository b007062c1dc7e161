package equipment

import (
	"math"

	"github.com/mudforge/mudcore/internal/domain/shared"
)

// ModifierKind distinguishes how an equipment modifier combines.
type ModifierKind string

const (
	// ModifierFlat adds directly to the modified value.
	ModifierFlat ModifierKind = "flat"
	// ModifierPercent scales the base value multiplicatively.
	ModifierPercent ModifierKind = "percent"
	// ModifierCooldown reduces a skill's reuse delay. Skill-scoped only.
	ModifierCooldown ModifierKind = "cooldown"
)

// AttributeModifier is attribute-scoped and therefore cascades to every
// skill sharing that attribute.
type AttributeModifier struct {
	Attribute shared.Attribute `json:"attribute"`
	Kind      ModifierKind     `json:"kind"`
	Value     float64          `json:"value"` // flat amount, or percent as 0.10 for +10%
}

// SkillModifier affects a single skill only.
type SkillModifier struct {
	SkillID string       `json:"skill_id"`
	Kind    ModifierKind `json:"kind"`
	Value   float64      `json:"value"`
}

// ModifierSet is the aggregated modifier list contributed by one or more
// equipped items. Sources sum; they are never merged destructively.
type ModifierSet struct {
	Attributes []AttributeModifier `json:"attributes,omitempty"`
	Skills     []SkillModifier     `json:"skills,omitempty"`
}

// Merge appends the other set's modifiers. The receiver is modified.
func (m *ModifierSet) Merge(other ModifierSet) {
	m.Attributes = append(m.Attributes, other.Attributes...)
	m.Skills = append(m.Skills, other.Skills...)
}

// AttributeTotal applies the set's modifiers for one attribute to a base
// value: all percent modifiers combine multiplicatively, the result is
// rounded half-up, then flat modifiers are added.
func (m *ModifierSet) AttributeTotal(attr shared.Attribute, base int) int {
	scale := 1.0
	flat := 0.0
	for _, mod := range m.Attributes {
		if mod.Attribute != attr {
			continue
		}
		switch mod.Kind {
		case ModifierPercent:
			scale *= 1 + mod.Value
		case ModifierFlat:
			flat += mod.Value
		case ModifierCooldown:
			// cooldown is skill-scoped; ignore on attributes
		}
	}
	return roundHalfUp(float64(base)*scale) + roundHalfUp(flat)
}

// SkillTotal applies the set's modifiers for one skill to a base level,
// with the same percent-then-flat aggregation as AttributeTotal.
func (m *ModifierSet) SkillTotal(skillID string, base int) int {
	scale := 1.0
	flat := 0.0
	for _, mod := range m.Skills {
		if mod.SkillID != skillID || mod.Kind == ModifierCooldown {
			continue
		}
		switch mod.Kind {
		case ModifierPercent:
			scale *= 1 + mod.Value
		case ModifierFlat:
			flat += mod.Value
		}
	}
	return roundHalfUp(float64(base)*scale) + roundHalfUp(flat)
}

// CooldownReduction sums cooldown reductions for one skill.
func (m *ModifierSet) CooldownReduction(skillID string) float64 {
	total := 0.0
	for _, mod := range m.Skills {
		if mod.SkillID == skillID && mod.Kind == ModifierCooldown {
			total += mod.Value
		}
	}
	return total
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
