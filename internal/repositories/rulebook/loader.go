package rulebookrepo

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mudforge/mudcore/internal/effects"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
	"github.com/mudforge/mudcore/internal/rulebook"
)

// fileSchema mirrors the layout of a rulebook YAML file.
type fileSchema struct {
	Skills  []rulebook.SkillDefinition `koanf:"skills"`
	Effects []effects.Definition       `koanf:"effects"`
	Weapons []rulebook.WeaponTemplate  `koanf:"weapons"`
	Armor   []rulebook.ArmorTemplate   `koanf:"armor"`
}

// LoadFile reads a rulebook catalog from a YAML file.
func LoadFile(path string) (Repository, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, engineErrors.Wrapf(err, "failed to load rulebook from %s", path)
	}

	var schema fileSchema
	if err := k.Unmarshal("", &schema); err != nil {
		return nil, engineErrors.Wrapf(err, "failed to parse rulebook from %s", path)
	}

	repo, err := New(schema.Skills, schema.Effects, schema.Weapons, schema.Armor)
	if err != nil {
		return nil, engineErrors.Wrapf(err, "invalid rulebook in %s", path)
	}
	return repo, nil
}
