package effects

import (
	"time"

	"github.com/mudforge/mudcore/internal/domain/shared"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
)

// Category classifies an effect template.
type Category string

const (
	CategoryWound  Category = "wound"
	CategoryBuff   Category = "buff"
	CategoryDebuff Category = "debuff"
	CategoryDoT    Category = "dot"
	CategoryHoT    Category = "hot"
	CategoryStatus Category = "status"
)

// RemovalReason records why an instance left the active set.
type RemovalReason string

const (
	RemovedExpired   RemovalReason = "expired"
	RemovedDispelled RemovalReason = "dispelled"
	RemovedHealed    RemovalReason = "healed"
	RemovedManual    RemovalReason = "manual"
)

// ImpactKind is the closed set of things an impact can modify. Every
// kind has an explicit case in the summary and tick switches; adding a
// kind without handling it is a compile-visible omission, not a silent
// string mismatch.
type ImpactKind string

const (
	// ImpactAttribute adds a flat delta to one attribute.
	ImpactAttribute ImpactKind = "attribute"
	// ImpactSkill adds a flat delta to one skill's effective level.
	ImpactSkill ImpactKind = "skill"
	// ImpactAttackValue shifts attack values (timed penalties/bonuses).
	ImpactAttackValue ImpactKind = "attack_value"
	// ImpactSuccessValue shifts final success values.
	ImpactSuccessValue ImpactKind = "success_value"
	// ImpactMaxPool shifts a pool's maximum.
	ImpactMaxPool ImpactKind = "max_pool"
	// ImpactPeriodicFlat queues flat damage (positive) or healing
	// (negative) on a pool each tick.
	ImpactPeriodicFlat ImpactKind = "periodic_flat"
	// ImpactPeriodicPercent queues damage/healing as a fraction of the
	// pool's maximum each tick.
	ImpactPeriodicPercent ImpactKind = "periodic_percent"
	// ImpactDamageDealtPercent scales outgoing damage.
	ImpactDamageDealtPercent ImpactKind = "damage_dealt_percent"
	// ImpactHealingPercent scales incoming healing.
	ImpactHealingPercent ImpactKind = "healing_percent"
	// ImpactPreventMovement flags the character as unable to move.
	ImpactPreventMovement ImpactKind = "prevent_movement"
	// ImpactPreventActions flags the character as unable to act.
	ImpactPreventActions ImpactKind = "prevent_actions"
	// ImpactPreventSpellcasting flags the character as unable to cast.
	ImpactPreventSpellcasting ImpactKind = "prevent_spellcasting"
	// ImpactInvisibility flags the character as invisible.
	ImpactInvisibility ImpactKind = "invisibility"
)

// Impact is one modifier line on an effect definition. Which fields are
// meaningful depends on Kind. ApplyOrder fixes aggregation order so
// summaries are deterministic regardless of instance iteration order.
type Impact struct {
	Kind       ImpactKind       `json:"kind" koanf:"kind"`
	Attribute  shared.Attribute `json:"attribute,omitempty" koanf:"attribute"`
	SkillID    string           `json:"skill_id,omitempty" koanf:"skill_id"`
	Pool       shared.PoolKind  `json:"pool,omitempty" koanf:"pool"`
	Amount     float64          `json:"amount,omitempty" koanf:"amount"`
	ApplyOrder int              `json:"apply_order" koanf:"apply_order"`
}

// Definition is the immutable template for one effect.
type Definition struct {
	ID                  string        `json:"id" koanf:"id"`
	Name                string        `json:"name" koanf:"name"`
	Category            Category      `json:"category" koanf:"category"`
	Stackable           bool          `json:"stackable" koanf:"stackable"`
	MaxStacks           int           `json:"max_stacks" koanf:"max_stacks"`
	Duration            time.Duration `json:"duration" koanf:"duration"` // zero means permanent until removed
	TickInterval        time.Duration `json:"tick_interval" koanf:"tick_interval"`
	ScalesWithIntensity bool          `json:"scales_with_intensity" koanf:"scales_with_intensity"`
	Impacts             []Impact      `json:"impacts" koanf:"impacts"`
}

// Validate checks template consistency.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return engineErrors.Validation("effect definition requires an id")
	}
	if d.Stackable && d.MaxStacks < 1 {
		return engineErrors.Validationf("effect %s: stackable effects need max_stacks >= 1", d.ID)
	}
	if d.TickInterval < 0 {
		return engineErrors.Validationf("effect %s: tick interval cannot be negative", d.ID)
	}
	return nil
}

// Periodic reports whether the definition ticks on a schedule.
func (d *Definition) Periodic() bool {
	return d.TickInterval > 0
}
