package effects

import (
	"time"

	"github.com/mudforge/mudcore/internal/domain/shared"
)

// Instance is a live application of an effect template to a character.
// Owned by the character's effect manager; nothing else mutates it.
type Instance struct {
	ID           string              `json:"id"`
	DefinitionID string              `json:"definition_id"`
	SourceRef    string              `json:"source_ref"` // who or what applied it
	AppliedAt    time.Time           `json:"applied_at"`
	ExpiresAt    *time.Time          `json:"expires_at,omitempty"`
	LastTickAt   *time.Time          `json:"last_tick_at,omitempty"`
	Stacks       int                 `json:"stacks"`
	Intensity    float64             `json:"intensity"`
	BodyLocation shared.BodyLocation `json:"body_location,omitempty"`
}

// IsExpired checks whether the instance has run out as of now.
func (i *Instance) IsExpired(now time.Time) bool {
	if i.ExpiresAt == nil {
		return false
	}
	return !now.Before(*i.ExpiresAt)
}

// TickDue checks whether a periodic effect owes a tick as of now.
func (i *Instance) TickDue(interval time.Duration, now time.Time) bool {
	if interval <= 0 {
		return false
	}
	last := i.AppliedAt
	if i.LastTickAt != nil {
		last = *i.LastTickAt
	}
	return now.Sub(last) >= interval
}

// scale is the periodic magnitude multiplier for this instance.
func (i *Instance) scale(def *Definition) float64 {
	if !def.ScalesWithIntensity {
		return float64(i.Stacks)
	}
	return i.Intensity * float64(i.Stacks)
}
