package equipment

import (
	"github.com/mudforge/mudcore/internal/domain/shared"
)

// Weapon is an equippable attack implement. Attack resolution reads it as
// part of the actor snapshot; durability is mutated elsewhere.
type Weapon struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	SkillID         string            `json:"skill_id"`
	DamageType      shared.DamageType `json:"damage_type"`
	DamageClass     int               `json:"damage_class"`
	AttackModifier  int               `json:"attack_modifier"`
	SuccessModifier int               `json:"success_modifier"`
	TwoHanded       bool              `json:"two_handed"`
	Durability      int               `json:"durability"`
	MaxDurability   int               `json:"max_durability"`
	Modifiers       ModifierSet       `json:"modifiers,omitempty"`
}

// IsBroken reports whether the weapon can no longer attack.
func (w *Weapon) IsBroken() bool {
	return w.Durability <= 0
}
