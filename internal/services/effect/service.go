package effect

import (
	"sync"
	"time"

	"github.com/mudforge/mudcore/internal/domain/shared"
	"github.com/mudforge/mudcore/internal/effects"
	"github.com/mudforge/mudcore/internal/events"
	"github.com/mudforge/mudcore/internal/uuid"
)

// Service manages timed effects for all entities (characters and NPCs)
// and emits lifecycle events for every transition.
type Service interface {
	// Apply applies an effect template to an entity per stacking policy
	Apply(entityID string, def *effects.Definition, sourceRef string, intensity float64, loc shared.BodyLocation) (*effects.ApplyResult, error)

	// Restore re-registers a persisted instance after a load
	Restore(entityID string, def *effects.Definition, instance *effects.Instance) error

	// Remove removes a specific instance with a reason
	Remove(entityID, instanceID string, reason effects.RemovalReason) error

	// RemoveByDefinition removes every instance of a definition, e.g. a
	// wound healed to zero
	RemoveByDefinition(entityID, definitionID string, reason effects.RemovalReason) int

	// Summarize aggregates active impacts into a single modifier bundle
	Summarize(entityID string) *effects.Summary

	// ActiveInstances returns the entity's live instances
	ActiveInstances(entityID string) []*effects.Instance

	// Tick runs due periodic impacts for an entity
	Tick(entityID string, now time.Time, poolMax map[shared.PoolKind]int) []effects.TickResult

	// ExpireDue deactivates instances whose expiry passed
	ExpireDue(entityID string, now time.Time) []effects.Removal
}

type service struct {
	mu        sync.RWMutex
	managers  map[string]*effects.Manager // entityID -> Manager
	bus       *events.Bus
	sequencer *events.Sequencer
	idGen     uuid.Generator
	clock     func() time.Time
}

// ServiceConfig holds configuration for the effect service
type ServiceConfig struct {
	Bus         *events.Bus
	Sequencer   *events.Sequencer
	IDGenerator uuid.Generator
	Clock       func() time.Time
}

// NewService creates a new effect service
func NewService(cfg *ServiceConfig) Service {
	svc := &service{
		managers:  make(map[string]*effects.Manager),
		bus:       cfg.Bus,
		sequencer: cfg.Sequencer,
		idGen:     cfg.IDGenerator,
		clock:     cfg.Clock,
	}
	if svc.sequencer == nil {
		svc.sequencer = events.NewSequencer()
	}
	if svc.idGen == nil {
		svc.idGen = uuid.NewGoogleUUIDGenerator()
	}
	if svc.clock == nil {
		svc.clock = time.Now
	}
	return svc
}

func (s *service) getOrCreateManager(entityID string) *effects.Manager {
	s.mu.Lock()
	defer s.mu.Unlock()

	if manager, exists := s.managers[entityID]; exists {
		return manager
	}

	manager := effects.NewManager(s.idGen)
	s.managers[entityID] = manager
	return manager
}

func (s *service) Apply(entityID string, def *effects.Definition, sourceRef string, intensity float64, loc shared.BodyLocation) (*effects.ApplyResult, error) {
	now := s.clock()
	result, err := s.getOrCreateManager(entityID).Apply(def, sourceRef, intensity, loc, now)
	if err != nil {
		return nil, err
	}

	s.emitLifecycle(entityID, string(result.Outcome), result.Instance, "", now)
	return result, nil
}

func (s *service) Restore(entityID string, def *effects.Definition, instance *effects.Instance) error {
	return s.getOrCreateManager(entityID).Restore(def, instance)
}

func (s *service) Remove(entityID, instanceID string, reason effects.RemovalReason) error {
	now := s.clock()
	removal, err := s.getOrCreateManager(entityID).Remove(instanceID, reason)
	if err != nil {
		return err
	}
	s.emitLifecycle(entityID, "removed", removal.Instance, string(removal.Reason), now)
	return nil
}

func (s *service) RemoveByDefinition(entityID, definitionID string, reason effects.RemovalReason) int {
	now := s.clock()
	removed := s.getOrCreateManager(entityID).RemoveByDefinition(definitionID, reason)
	for _, removal := range removed {
		s.emitLifecycle(entityID, "removed", removal.Instance, string(removal.Reason), now)
	}
	return len(removed)
}

func (s *service) Summarize(entityID string) *effects.Summary {
	return s.getOrCreateManager(entityID).Summarize(s.clock())
}

func (s *service) ActiveInstances(entityID string) []*effects.Instance {
	return s.getOrCreateManager(entityID).ActiveInstances(s.clock())
}

func (s *service) Tick(entityID string, now time.Time, poolMax map[shared.PoolKind]int) []effects.TickResult {
	results := s.getOrCreateManager(entityID).Tick(now, poolMax)
	for _, result := range results {
		s.emitLifecycle(entityID, "ticked", result.Instance, "", now)
	}
	return results
}

func (s *service) ExpireDue(entityID string, now time.Time) []effects.Removal {
	removed := s.getOrCreateManager(entityID).ExpireDue(now)
	for _, removal := range removed {
		s.emitLifecycle(entityID, "expired", removal.Instance, string(removal.Reason), now)
	}
	return removed
}

func (s *service) emitLifecycle(entityID, action string, instance *effects.Instance, reason string, at time.Time) {
	if s.bus == nil {
		return
	}

	event := &events.EffectLifecycleEvent{
		Envelope:     s.sequencer.Envelope(events.EventEffectLifecycle, entityID, at),
		Action:       action,
		InstanceID:   instance.ID,
		DefinitionID: instance.DefinitionID,
		SourceRef:    instance.SourceRef,
		Stacks:       instance.Stacks,
		Reason:       reason,
	}
	// Emission failures are logged by the bus; lifecycle state has
	// already committed.
	_ = s.bus.Emit(event)
}
