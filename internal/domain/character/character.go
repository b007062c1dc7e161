package character

import (
	"sync"
	"time"

	"github.com/mudforge/mudcore/internal/domain/equipment"
	"github.com/mudforge/mudcore/internal/domain/shared"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
)

// PoolDelta reports the result of one convergence step on one pool.
type PoolDelta struct {
	Kind    shared.PoolKind
	Applied int // signed change to the live pool
	Current int
	Pending int
}

// Character is the live combat state for a player character or NPC.
// All mutation goes through methods that hold the character's own lock;
// the version token detects concurrent writers racing on stale reads.
type Character struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	NPC     bool   `json:"npc"`

	Attributes map[shared.Attribute]int `json:"attributes"`
	Skills     map[string]*Skill        `json:"skills"`

	Fatigue  Pool `json:"fatigue"`
	Vitality Pool `json:"vitality"`

	MainHand *equipment.Weapon  `json:"main_hand,omitempty"`
	OffHand  *equipment.Weapon  `json:"off_hand,omitempty"`
	Armor    []*equipment.Armor `json:"armor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	mu      sync.Mutex
	version int64
}

// Version returns the current mutation token.
func (c *Character) Version() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Attribute returns the base score for one attribute.
func (c *Character) Attribute(attr shared.Attribute) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Attributes[attr]
}

// StrengthBonus derives the flat success-value bonus from Strength.
func (c *Character) StrengthBonus() int {
	return (c.Attribute(shared.AttributeStrength) - 10) / 2
}

// SkillSnapshot returns a copy of the named skill record. ok is false
// when the character has not learned it.
func (c *Character) SkillSnapshot(definitionID string) (Skill, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.Skills[definitionID]; s != nil {
		return *s, true
	}
	return Skill{DefinitionID: definitionID}, false
}

// SetSkillProgress writes a skill's usage total and cached level,
// creating the record on first use. The progression engine is the only
// caller; it serializes per character-skill on its own tracker.
func (c *Character) SetSkillProgress(definitionID string, usage float64, level int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Skills == nil {
		c.Skills = make(map[string]*Skill)
	}
	s, ok := c.Skills[definitionID]
	if !ok {
		s = &Skill{DefinitionID: definitionID}
		c.Skills[definitionID] = s
	}
	s.Usage = usage
	s.CachedLevel = level
	c.version++
	c.UpdatedAt = time.Now()
}

// SkillLevel returns the cached level for a skill, zero when unlearned.
func (c *Character) SkillLevel(definitionID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.Skills[definitionID]; s != nil {
		return s.CachedLevel
	}
	return 0
}

// WeaponSnapshot returns a copy of the weapon in the given hand. held is
// false for an empty hand; dual reports whether both hands hold weapons.
func (c *Character) WeaponSnapshot(offHand bool) (w equipment.Weapon, held, dual bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dual = c.MainHand != nil && c.OffHand != nil
	slot := c.MainHand
	if offHand {
		slot = c.OffHand
	}
	if slot == nil {
		return equipment.Weapon{}, false, dual
	}
	return *slot, true, dual
}

// EquipmentModifiers aggregates the modifier sets of every functioning
// equipped item. Broken pieces contribute nothing.
func (c *Character) EquipmentModifiers() equipment.ModifierSet {
	c.mu.Lock()
	defer c.mu.Unlock()

	var set equipment.ModifierSet
	if c.MainHand != nil && !c.MainHand.IsBroken() {
		set.Merge(c.MainHand.Modifiers)
	}
	if c.OffHand != nil && !c.OffHand.IsBroken() {
		set.Merge(c.OffHand.Modifiers)
	}
	for _, piece := range c.Armor {
		if !piece.IsBroken() {
			set.Merge(piece.Modifiers)
		}
	}
	return set
}

// DodgeModifier sums the dodge adjustment of every functioning armor
// piece.
func (c *Character) DodgeModifier() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, piece := range c.Armor {
		if !piece.IsBroken() {
			total += piece.DodgeModifier
		}
	}
	return total
}

// Absorption sums the soak of every functioning armor piece covering the
// struck location against the given blow.
func (c *Character) Absorption(location shared.BodyLocation, damageType shared.DamageType, weaponClass int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, piece := range c.Armor {
		if piece.Covers(location) {
			total += piece.Absorb(damageType, weaponClass)
		}
	}
	return total
}

// WearWeapon applies one point of wear to the weapon in the given hand.
// No-op for an empty hand or a weapon already at zero.
func (c *Character) WearWeapon(offHand bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slot := c.MainHand
	if offHand {
		slot = c.OffHand
	}
	if slot == nil || slot.Durability <= 0 {
		return
	}
	slot.Durability--
	c.version++
	c.UpdatedAt = time.Now()
}

// WearArmor applies one point of wear to every functioning armor piece
// covering the struck location.
func (c *Character) WearArmor(location shared.BodyLocation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	worn := false
	for _, piece := range c.Armor {
		if piece.Covers(location) && piece.Durability > 0 {
			piece.Durability--
			worn = true
		}
	}
	if worn {
		c.version++
		c.UpdatedAt = time.Now()
	}
}

// Pool returns a copy of the named pool.
func (c *Character) Pool(kind shared.PoolKind) Pool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if kind == shared.PoolVitality {
		return c.Vitality
	}
	return c.Fatigue
}

func (c *Character) pool(kind shared.PoolKind) *Pool {
	if kind == shared.PoolVitality {
		return &c.Vitality
	}
	return &c.Fatigue
}

// QueuePoolChange stages damage (positive) or healing (negative) on one
// pool, guarded by the version token the caller observed: a mismatch
// means another writer got there first and the caller must re-read.
func (c *Character) QueuePoolChange(kind shared.PoolKind, amount int, observedVersion int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.version != observedVersion {
		return engineErrors.Conflictf("character %s modified concurrently (version %d != %d)",
			c.ID, c.version, observedVersion)
	}

	p := c.pool(kind)
	if amount >= 0 {
		p.QueueDamage(amount)
	} else {
		p.QueueHealing(-amount)
	}
	c.version++
	c.UpdatedAt = time.Now()
	return nil
}

// QueuePoolChanges stages changes on several pools atomically under one
// version check, so an attack's fatigue and vitality damage land
// together or not at all.
func (c *Character) QueuePoolChanges(changes map[shared.PoolKind]int, observedVersion int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.version != observedVersion {
		return engineErrors.Conflictf("character %s modified concurrently (version %d != %d)",
			c.ID, c.version, observedVersion)
	}

	for kind, amount := range changes {
		p := c.pool(kind)
		if amount >= 0 {
			p.QueueDamage(amount)
		} else {
			p.QueueHealing(-amount)
		}
	}
	c.version++
	c.UpdatedAt = time.Now()
	return nil
}

// QueuePoolChangeUnchecked stages a pool change without a version guard.
// For single-writer contexts such as effect ticks already holding the
// entity's turn.
func (c *Character) QueuePoolChangeUnchecked(kind shared.PoolKind, amount int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pool(kind)
	if amount >= 0 {
		p.QueueDamage(amount)
	} else {
		p.QueueHealing(-amount)
	}
	c.version++
	c.UpdatedAt = time.Now()
}

// ConvergePools runs one convergence step on both pools and reports the
// deltas for pools that changed.
func (c *Character) ConvergePools() []PoolDelta {
	c.mu.Lock()
	defer c.mu.Unlock()

	var deltas []PoolDelta
	for _, kind := range []shared.PoolKind{shared.PoolFatigue, shared.PoolVitality} {
		p := c.pool(kind)
		if p.Pending == 0 {
			continue
		}
		applied := p.Converge()
		deltas = append(deltas, PoolDelta{
			Kind:    kind,
			Applied: applied,
			Current: p.Current,
			Pending: p.Pending,
		})
	}
	if len(deltas) > 0 {
		c.version++
		c.UpdatedAt = time.Now()
	}
	return deltas
}

// AdjustMaxPool applies a max-pool delta (from effects), clamping the
// live value into the new range.
func (c *Character) AdjustMaxPool(kind shared.PoolKind, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pool(kind)
	p.Max += delta
	if p.Max < 1 {
		p.Max = 1
	}
	if p.Current > p.Max {
		p.Current = p.Max
	}
	c.version++
}

// Clone creates a deep copy of the character without copying the mutex.
// Used to hand snapshots to resolution code.
func (c *Character) Clone() *Character {
	c.mu.Lock()
	defer c.mu.Unlock()

	clone := &Character{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Name:      c.Name,
		NPC:       c.NPC,
		Fatigue:   c.Fatigue,
		Vitality:  c.Vitality,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		version:   c.version,
	}

	clone.Attributes = make(map[shared.Attribute]int, len(c.Attributes))
	for k, v := range c.Attributes {
		clone.Attributes[k] = v
	}

	clone.Skills = make(map[string]*Skill, len(c.Skills))
	for k, v := range c.Skills {
		copied := *v
		clone.Skills[k] = &copied
	}

	if c.MainHand != nil {
		copied := *c.MainHand
		clone.MainHand = &copied
	}
	if c.OffHand != nil {
		copied := *c.OffHand
		clone.OffHand = &copied
	}
	for _, piece := range c.Armor {
		copied := *piece
		clone.Armor = append(clone.Armor, &copied)
	}

	return clone
}
