package events

import (
	"sync"
	"time"
)

// EventType identifies the kind of an outbound event.
type EventType string

const (
	// EventCombatOutcome is emitted for every resolved combat action.
	EventCombatOutcome EventType = "combat.outcome"
	// EventUsageRecorded is emitted for every accepted usage event,
	// including throttled zero-value ones.
	EventUsageRecorded EventType = "progression.usage"
	// EventSkillAdvanced is emitted when a skill's level rises.
	EventSkillAdvanced EventType = "progression.advanced"
	// EventEffectLifecycle covers applied/stacked/refreshed/ticked/
	// expired/removed transitions.
	EventEffectLifecycle EventType = "effect.lifecycle"
	// EventPoolDelta is emitted when convergence moves pending value
	// into a live pool.
	EventPoolDelta EventType = "pool.delta"
)

// Event is anything the engine publishes. Every event carries the
// character it concerns and a per-character monotonic sequence number so
// downstream consumers can de-duplicate at-least-once replays.
type Event interface {
	Type() EventType
	Character() string
	Seq() uint64
}

// Envelope is the common header embedded in every event struct.
type Envelope struct {
	EventType   EventType `json:"type"`
	CharacterID string    `json:"character_id"`
	Sequence    uint64    `json:"sequence"`
	Timestamp   time.Time `json:"timestamp"`
}

// Type implements Event.
func (e *Envelope) Type() EventType { return e.EventType }

// Character implements Event.
func (e *Envelope) Character() string { return e.CharacterID }

// Seq implements Event.
func (e *Envelope) Seq() uint64 { return e.Sequence }

// Sequencer issues per-character monotonic sequence numbers.
type Sequencer struct {
	mu       sync.Mutex
	counters map[string]uint64
}

// NewSequencer creates an empty sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{counters: make(map[string]uint64)}
}

// Next returns the next sequence number for a character.
func (s *Sequencer) Next(characterID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[characterID]++
	return s.counters[characterID]
}

// Envelope stamps a fresh header for a character's event.
func (s *Sequencer) Envelope(eventType EventType, characterID string, at time.Time) Envelope {
	return Envelope{
		EventType:   eventType,
		CharacterID: characterID,
		Sequence:    s.Next(characterID),
		Timestamp:   at,
	}
}
