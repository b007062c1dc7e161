package rulebook

import (
	"github.com/mudforge/mudcore/internal/domain/shared"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
)

// SkillCategory groups skills for throttle policy and display.
type SkillCategory string

const (
	SkillCategoryCombat   SkillCategory = "combat"
	SkillCategoryCraft    SkillCategory = "craft"
	SkillCategoryMagic    SkillCategory = "magic"
	SkillCategoryMovement SkillCategory = "movement"
	SkillCategoryGeneral  SkillCategory = "general"
)

// SkillDefinition is the immutable template for one skill. BaseCost and
// Multiplier define the advancement cost curve: advancing from level N
// costs ceil(BaseCost * Multiplier^N) usage points.
type SkillDefinition struct {
	ID         string           `json:"id" koanf:"id"`
	Name       string           `json:"name" koanf:"name"`
	Attribute  shared.Attribute `json:"attribute" koanf:"attribute"`
	Category   SkillCategory    `json:"category" koanf:"category"`
	BaseCost   float64          `json:"base_cost" koanf:"base_cost"`
	Multiplier float64          `json:"multiplier" koanf:"multiplier"`
}

// Validate checks the template's curve parameters.
func (d *SkillDefinition) Validate() error {
	if d.ID == "" {
		return engineErrors.Validation("skill definition requires an id")
	}
	if d.BaseCost <= 0 {
		return engineErrors.Validationf("skill %s: base cost must be positive, got %v", d.ID, d.BaseCost)
	}
	if d.Multiplier <= 1 {
		return engineErrors.Validationf("skill %s: multiplier must exceed 1, got %v", d.ID, d.Multiplier)
	}
	return nil
}
