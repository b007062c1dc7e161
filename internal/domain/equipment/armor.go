package equipment

import (
	"github.com/mudforge/mudcore/internal/domain/shared"
)

// Armor is a worn piece covering one or more body locations.
type Armor struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	Coverage      []shared.BodyLocation     `json:"coverage"`
	Absorption    map[shared.DamageType]int `json:"absorption"`
	DamageClass   int                       `json:"damage_class"`
	DodgeModifier int                       `json:"dodge_modifier"`
	Durability    int                       `json:"durability"`
	MaxDurability int                       `json:"max_durability"`
	Modifiers     ModifierSet               `json:"modifiers,omitempty"`
}

// IsBroken reports whether the piece still functions. Broken armor
// contributes no absorption and no dodge modifier.
func (a *Armor) IsBroken() bool {
	return a.Durability <= 0
}

// Covers reports whether the piece protects the given location.
func (a *Armor) Covers(loc shared.BodyLocation) bool {
	for _, c := range a.Coverage {
		if c == loc {
			return true
		}
	}
	return false
}

// Absorb returns the damage this piece soaks for one hit. A class gap in
// the weapon's favor erodes the soak; the result is never negative and
// never exceeds the piece's raw absorption value.
func (a *Armor) Absorb(damageType shared.DamageType, weaponClass int) int {
	if a.IsBroken() {
		return 0
	}

	raw := a.Absorption[damageType]
	if raw <= 0 {
		return 0
	}

	penetration := weaponClass - a.DamageClass
	if penetration < 0 {
		penetration = 0
	}

	soak := raw - penetration
	if soak < 0 {
		return 0
	}
	return soak
}
