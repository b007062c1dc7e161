package effects

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/mudforge/mudcore/internal/domain/shared"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
	"github.com/mudforge/mudcore/internal/uuid"
)

// ApplyOutcome describes what a reapplication did.
type ApplyOutcome string

const (
	OutcomeCreated   ApplyOutcome = "created"
	OutcomeStacked   ApplyOutcome = "stacked"
	OutcomeRefreshed ApplyOutcome = "refreshed"
)

// ApplyResult reports the instance touched by Apply and how.
type ApplyResult struct {
	Instance *Instance
	Outcome  ApplyOutcome
}

// PoolChange is a pending-pool contribution from a periodic tick.
// Positive amounts are damage, negative healing.
type PoolChange struct {
	Pool   shared.PoolKind
	Amount int
}

// TickResult reports one instance's periodic output.
type TickResult struct {
	Instance *Instance
	Changes  []PoolChange
}

// Removal reports an instance leaving the active set.
type Removal struct {
	Instance *Instance
	Reason   RemovalReason
}

// Manager owns the active effect instances for a single character. It
// caches the definition for every live instance so stacking, ticking and
// summarizing need no external lookups.
type Manager struct {
	mu        sync.RWMutex
	instances map[string]*Instance
	defs      map[string]*Definition // keyed by definition ID
	idGen     uuid.Generator
}

// NewManager creates an empty effect manager.
func NewManager(idGen uuid.Generator) *Manager {
	if idGen == nil {
		idGen = uuid.NewGoogleUUIDGenerator()
	}
	return &Manager{
		instances: make(map[string]*Instance),
		defs:      make(map[string]*Definition),
		idGen:     idGen,
	}
}

// Apply applies an effect template following the stacking policy:
// non-stackable reapplication refreshes, stackable reapplication stacks
// up to MaxStacks then refreshes, anything else creates a new instance.
func (m *Manager) Apply(def *Definition, sourceRef string, intensity float64, loc shared.BodyLocation, now time.Time) (*ApplyResult, error) {
	if def == nil {
		return nil, engineErrors.InvalidArgument("effect definition cannot be nil")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.defs[def.ID] = def

	if existing := m.findActive(def.ID, now); existing != nil {
		refreshExpiry(existing, def, now)
		if intensity > existing.Intensity {
			existing.Intensity = intensity
		}

		if def.Stackable && existing.Stacks < def.MaxStacks {
			existing.Stacks++
			return &ApplyResult{Instance: existing, Outcome: OutcomeStacked}, nil
		}
		return &ApplyResult{Instance: existing, Outcome: OutcomeRefreshed}, nil
	}

	instance := &Instance{
		ID:           m.idGen.New(),
		DefinitionID: def.ID,
		SourceRef:    sourceRef,
		AppliedAt:    now,
		Stacks:       1,
		Intensity:    intensity,
		BodyLocation: loc,
	}
	refreshExpiry(instance, def, now)
	m.instances[instance.ID] = instance

	return &ApplyResult{Instance: instance, Outcome: OutcomeCreated}, nil
}

// Restore re-registers a persisted instance and its definition, e.g.
// after loading a character.
func (m *Manager) Restore(def *Definition, instance *Instance) error {
	if def == nil || instance == nil {
		return engineErrors.InvalidArgument("definition and instance are required")
	}
	if instance.DefinitionID != def.ID {
		return engineErrors.InvalidArgumentf("instance %s does not belong to definition %s", instance.ID, def.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defs[def.ID] = def
	m.instances[instance.ID] = instance
	return nil
}

// Tick runs due periodic impacts for every active instance, returning
// the pending-pool contributions. poolMax supplies pool maximums for
// percent-based impacts.
func (m *Manager) Tick(now time.Time, poolMax map[shared.PoolKind]int) []TickResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	var results []TickResult
	for _, instance := range m.sortedInstances() {
		def := m.defs[instance.DefinitionID]
		if def == nil || !def.Periodic() {
			continue
		}
		if instance.IsExpired(now) || !instance.TickDue(def.TickInterval, now) {
			continue
		}

		scale := instance.scale(def)
		var changes []PoolChange
		for _, impact := range def.Impacts {
			switch impact.Kind {
			case ImpactPeriodicFlat:
				amount := scaledInt(impact.Amount, scale)
				if amount != 0 {
					changes = append(changes, PoolChange{Pool: impact.Pool, Amount: amount})
				}
			case ImpactPeriodicPercent:
				base := float64(poolMax[impact.Pool])
				amount := int(math.Floor(base*impact.Amount*scale + 0.5))
				if amount != 0 {
					changes = append(changes, PoolChange{Pool: impact.Pool, Amount: amount})
				}
			case ImpactAttribute, ImpactSkill, ImpactAttackValue, ImpactSuccessValue,
				ImpactMaxPool, ImpactDamageDealtPercent, ImpactHealingPercent,
				ImpactPreventMovement, ImpactPreventActions, ImpactPreventSpellcasting,
				ImpactInvisibility:
				// static impacts are summarized, not ticked
			}
		}

		tickAt := now
		instance.LastTickAt = &tickAt
		results = append(results, TickResult{Instance: instance, Changes: changes})
	}
	return results
}

// ExpireDue removes every instance whose expiry has passed, reporting
// each removal with RemovedExpired.
func (m *Manager) ExpireDue(now time.Time) []Removal {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []Removal
	for id, instance := range m.instances {
		if instance.IsExpired(now) {
			delete(m.instances, id)
			removed = append(removed, Removal{Instance: instance, Reason: RemovedExpired})
		}
	}
	return removed
}

// Remove takes one instance out of the active set with the given reason.
func (m *Manager) Remove(instanceID string, reason RemovalReason) (*Removal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	instance, ok := m.instances[instanceID]
	if !ok {
		return nil, engineErrors.NotFoundf("effect instance %s not found", instanceID)
	}
	delete(m.instances, instanceID)
	return &Removal{Instance: instance, Reason: reason}, nil
}

// RemoveByDefinition removes every active instance of one definition,
// e.g. a wound healed to zero.
func (m *Manager) RemoveByDefinition(definitionID string, reason RemovalReason) []Removal {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []Removal
	for id, instance := range m.instances {
		if instance.DefinitionID == definitionID {
			delete(m.instances, id)
			removed = append(removed, Removal{Instance: instance, Reason: reason})
		}
	}
	return removed
}

// Summarize aggregates every impact of every active instance, in
// ApplyOrder, into a single modifier bundle.
func (m *Manager) Summarize(now time.Time) *Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type orderedImpact struct {
		impact Impact
		scale  float64
		seq    int // stable tie-break within equal ApplyOrder
	}

	var impacts []orderedImpact
	seq := 0
	for _, instance := range m.sortedInstances() {
		if instance.IsExpired(now) {
			continue
		}
		def := m.defs[instance.DefinitionID]
		if def == nil {
			continue
		}
		scale := instance.scale(def)
		for _, impact := range def.Impacts {
			impacts = append(impacts, orderedImpact{impact: impact, scale: scale, seq: seq})
			seq++
		}
	}

	sort.SliceStable(impacts, func(i, j int) bool {
		if impacts[i].impact.ApplyOrder != impacts[j].impact.ApplyOrder {
			return impacts[i].impact.ApplyOrder < impacts[j].impact.ApplyOrder
		}
		return impacts[i].seq < impacts[j].seq
	})

	summary := NewSummary()
	for _, oi := range impacts {
		summary.apply(oi.impact, oi.scale)
	}
	return summary
}

// ActiveInstances returns the live instances as of now.
func (m *Manager) ActiveInstances(now time.Time) []*Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var active []*Instance
	for _, instance := range m.sortedInstances() {
		if !instance.IsExpired(now) {
			active = append(active, instance)
		}
	}
	return active
}

// HasActive reports whether any live instance of the definition exists.
func (m *Manager) HasActive(definitionID string, now time.Time) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findActive(definitionID, now) != nil
}

// findActive must be called with the lock held.
func (m *Manager) findActive(definitionID string, now time.Time) *Instance {
	for _, instance := range m.instances {
		if instance.DefinitionID == definitionID && !instance.IsExpired(now) {
			return instance
		}
	}
	return nil
}

// sortedInstances returns instances ordered by application time then ID,
// for deterministic iteration. Must be called with the lock held.
func (m *Manager) sortedInstances() []*Instance {
	out := make([]*Instance, 0, len(m.instances))
	for _, instance := range m.instances {
		out = append(out, instance)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppliedAt.Equal(out[j].AppliedAt) {
			return out[i].AppliedAt.Before(out[j].AppliedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func refreshExpiry(instance *Instance, def *Definition, now time.Time) {
	if def.Duration <= 0 {
		instance.ExpiresAt = nil
		return
	}
	expires := now.Add(def.Duration)
	instance.ExpiresAt = &expires
}
