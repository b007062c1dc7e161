package shared

// Attribute identifies one of the seven base scores every character has.
type Attribute string

const (
	AttributeStrength   Attribute = "strength"
	AttributeAgility    Attribute = "agility"
	AttributeDexterity  Attribute = "dexterity"
	AttributeStamina    Attribute = "stamina"
	AttributeIntellect  Attribute = "intellect"
	AttributeWillpower  Attribute = "willpower"
	AttributePerception Attribute = "perception"
)

// Attributes lists every attribute in display order.
var Attributes = []Attribute{
	AttributeStrength,
	AttributeAgility,
	AttributeDexterity,
	AttributeStamina,
	AttributeIntellect,
	AttributeWillpower,
	AttributePerception,
}

// DamageType categorizes damage for armor absorption lookup.
type DamageType string

const (
	DamageTypeSlash  DamageType = "slash"
	DamageTypePierce DamageType = "pierce"
	DamageTypeBlunt  DamageType = "blunt"
	DamageTypeFire   DamageType = "fire"
	DamageTypeCold   DamageType = "cold"
	DamageTypeAcid   DamageType = "acid"
)

// BodyLocation identifies where a wound sits or what an armor piece covers.
type BodyLocation string

const (
	LocationHead  BodyLocation = "head"
	LocationTorso BodyLocation = "torso"
	LocationArms  BodyLocation = "arms"
	LocationHands BodyLocation = "hands"
	LocationLegs  BodyLocation = "legs"
	LocationFeet  BodyLocation = "feet"
)

// ActionType drives how raw damage splits across the fatigue and
// vitality pools.
type ActionType string

const (
	ActionTypeMelee  ActionType = "melee"
	ActionTypeRanged ActionType = "ranged"
	ActionTypeSubdue ActionType = "subdue"
	ActionTypeSpell  ActionType = "spell"
)

// PoolKind names one of the two health pools.
type PoolKind string

const (
	PoolFatigue  PoolKind = "fatigue"
	PoolVitality PoolKind = "vitality"
)
