package character

// Skill is one learned skill on a character. Usage is the source of
// truth; CachedLevel is derived from it by the progression cost curve and
// is only ever written by the progression engine.
type Skill struct {
	DefinitionID string  `json:"definition_id"`
	Usage        float64 `json:"usage"`
	CachedLevel  int     `json:"cached_level"`
}
