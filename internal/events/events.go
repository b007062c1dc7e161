package events

import (
	"github.com/mudforge/mudcore/internal/domain/shared"
)

// CombatOutcomeEvent is the outcome record for one resolved action.
type CombatOutcomeEvent struct {
	Envelope

	SessionID      string            `json:"session_id,omitempty"`
	ActorID        string            `json:"actor_id"`
	TargetID       string            `json:"target_id"`
	Hit            bool              `json:"hit"`
	AttackValue    int               `json:"attack_value"`
	DefenseValue   int               `json:"defense_value"`
	SuccessValue   int               `json:"success_value"`
	Absorbed       int               `json:"absorbed"`
	DamageType     shared.DamageType `json:"damage_type,omitempty"`
	FatigueDamage  int               `json:"fatigue_damage"`
	VitalityDamage int               `json:"vitality_damage"`
	Description    string            `json:"description"`
}

// UsageRecordedEvent reports usage points credited to a skill.
type UsageRecordedEvent struct {
	Envelope

	SkillID     string  `json:"skill_id"`
	PointsAdded float64 `json:"points_added"`
	Throttled   bool    `json:"throttled"`
	Reason      string  `json:"reason,omitempty"`
}

// SkillAdvancedEvent reports a level-up.
type SkillAdvancedEvent struct {
	Envelope

	SkillID     string  `json:"skill_id"`
	PointsAdded float64 `json:"points_added"`
	OldLevel    int     `json:"old_level"`
	NewLevel    int     `json:"new_level"`
}

// EffectLifecycleEvent reports an effect instance transition.
type EffectLifecycleEvent struct {
	Envelope

	Action       string `json:"action"` // applied/stacked/refreshed/ticked/expired/removed
	InstanceID   string `json:"instance_id"`
	DefinitionID string `json:"definition_id"`
	SourceRef    string `json:"source_ref,omitempty"`
	Stacks       int    `json:"stacks"`
	Reason       string `json:"reason,omitempty"`
}

// PoolDeltaEvent reports a convergence step on one pool, consumed by the
// persistence layer to update stored values.
type PoolDeltaEvent struct {
	Envelope

	Pool    shared.PoolKind `json:"pool"`
	Applied int             `json:"applied"`
	Current int             `json:"current"`
	Pending int             `json:"pending"`
}
