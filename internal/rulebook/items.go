package rulebook

import (
	"github.com/mudforge/mudcore/internal/domain/equipment"
	"github.com/mudforge/mudcore/internal/domain/shared"
)

// WeaponTemplate is the static stat block a weapon instance is stamped
// from.
type WeaponTemplate struct {
	ID              string            `json:"id" koanf:"id"`
	Name            string            `json:"name" koanf:"name"`
	SkillID         string            `json:"skill_id" koanf:"skill_id"`
	DamageType      shared.DamageType `json:"damage_type" koanf:"damage_type"`
	DamageClass     int               `json:"damage_class" koanf:"damage_class"`
	AttackModifier  int               `json:"attack_modifier" koanf:"attack_modifier"`
	SuccessModifier int               `json:"success_modifier" koanf:"success_modifier"`
	TwoHanded       bool              `json:"two_handed" koanf:"two_handed"`
	Durability      int               `json:"durability" koanf:"durability"`
}

// NewWeapon stamps a weapon instance with full durability.
func (t *WeaponTemplate) NewWeapon(id string) *equipment.Weapon {
	return &equipment.Weapon{
		ID:              id,
		Name:            t.Name,
		SkillID:         t.SkillID,
		DamageType:      t.DamageType,
		DamageClass:     t.DamageClass,
		AttackModifier:  t.AttackModifier,
		SuccessModifier: t.SuccessModifier,
		TwoHanded:       t.TwoHanded,
		Durability:      t.Durability,
		MaxDurability:   t.Durability,
	}
}

// ArmorTemplate is the static stat block an armor instance is stamped
// from.
type ArmorTemplate struct {
	ID            string                    `json:"id" koanf:"id"`
	Name          string                    `json:"name" koanf:"name"`
	Coverage      []shared.BodyLocation     `json:"coverage" koanf:"coverage"`
	Absorption    map[shared.DamageType]int `json:"absorption" koanf:"absorption"`
	DamageClass   int                       `json:"damage_class" koanf:"damage_class"`
	DodgeModifier int                       `json:"dodge_modifier" koanf:"dodge_modifier"`
	Durability    int                       `json:"durability" koanf:"durability"`
}

// NewArmor stamps an armor instance with full durability.
func (t *ArmorTemplate) NewArmor(id string) *equipment.Armor {
	absorption := make(map[shared.DamageType]int, len(t.Absorption))
	for k, v := range t.Absorption {
		absorption[k] = v
	}
	return &equipment.Armor{
		ID:            id,
		Name:          t.Name,
		Coverage:      append([]shared.BodyLocation(nil), t.Coverage...),
		Absorption:    absorption,
		DamageClass:   t.DamageClass,
		DodgeModifier: t.DodgeModifier,
		Durability:    t.Durability,
		MaxDurability: t.Durability,
	}
}
