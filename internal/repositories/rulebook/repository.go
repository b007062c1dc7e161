// Package rulebookrepo holds the loaded rulebook catalog: skill
// definitions, effect definitions, and equipment templates. The catalog
// is immutable after loading, so lookups take no context and no lock.
package rulebookrepo

import (
	"sort"

	"github.com/mudforge/mudcore/internal/effects"
	engineErrors "github.com/mudforge/mudcore/internal/errors"
	"github.com/mudforge/mudcore/internal/rulebook"
)

// Repository resolves rulebook templates by ID.
type Repository interface {
	SkillDefinition(id string) (*rulebook.SkillDefinition, error)
	SkillDefinitions() []*rulebook.SkillDefinition
	EffectDefinition(id string) (*effects.Definition, error)
	WeaponTemplate(id string) (*rulebook.WeaponTemplate, error)
	ArmorTemplate(id string) (*rulebook.ArmorTemplate, error)
}

type catalog struct {
	skills  map[string]*rulebook.SkillDefinition
	effects map[string]*effects.Definition
	weapons map[string]*rulebook.WeaponTemplate
	armor   map[string]*rulebook.ArmorTemplate
}

// New builds a catalog from already-validated slices. Duplicate IDs and
// invalid templates are rejected.
func New(
	skills []rulebook.SkillDefinition,
	effectDefs []effects.Definition,
	weapons []rulebook.WeaponTemplate,
	armor []rulebook.ArmorTemplate,
) (Repository, error) {
	c := &catalog{
		skills:  make(map[string]*rulebook.SkillDefinition, len(skills)),
		effects: make(map[string]*effects.Definition, len(effectDefs)),
		weapons: make(map[string]*rulebook.WeaponTemplate, len(weapons)),
		armor:   make(map[string]*rulebook.ArmorTemplate, len(armor)),
	}

	for i := range skills {
		def := skills[i]
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.skills[def.ID]; ok {
			return nil, engineErrors.Validationf("duplicate skill definition %s", def.ID)
		}
		c.skills[def.ID] = &def
	}
	for i := range effectDefs {
		def := effectDefs[i]
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.effects[def.ID]; ok {
			return nil, engineErrors.Validationf("duplicate effect definition %s", def.ID)
		}
		c.effects[def.ID] = &def
	}
	for i := range weapons {
		tmpl := weapons[i]
		if tmpl.ID == "" {
			return nil, engineErrors.Validation("weapon template requires an id")
		}
		if _, ok := c.weapons[tmpl.ID]; ok {
			return nil, engineErrors.Validationf("duplicate weapon template %s", tmpl.ID)
		}
		c.weapons[tmpl.ID] = &tmpl
	}
	for i := range armor {
		tmpl := armor[i]
		if tmpl.ID == "" {
			return nil, engineErrors.Validation("armor template requires an id")
		}
		if _, ok := c.armor[tmpl.ID]; ok {
			return nil, engineErrors.Validationf("duplicate armor template %s", tmpl.ID)
		}
		c.armor[tmpl.ID] = &tmpl
	}

	return c, nil
}

func (c *catalog) SkillDefinition(id string) (*rulebook.SkillDefinition, error) {
	def, ok := c.skills[id]
	if !ok {
		return nil, engineErrors.NotFoundf("skill definition %s not found", id)
	}
	return def, nil
}

func (c *catalog) SkillDefinitions() []*rulebook.SkillDefinition {
	defs := make([]*rulebook.SkillDefinition, 0, len(c.skills))
	for _, def := range c.skills {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

func (c *catalog) EffectDefinition(id string) (*effects.Definition, error) {
	def, ok := c.effects[id]
	if !ok {
		return nil, engineErrors.NotFoundf("effect definition %s not found", id)
	}
	return def, nil
}

func (c *catalog) WeaponTemplate(id string) (*rulebook.WeaponTemplate, error) {
	tmpl, ok := c.weapons[id]
	if !ok {
		return nil, engineErrors.NotFoundf("weapon template %s not found", id)
	}
	return tmpl, nil
}

func (c *catalog) ArmorTemplate(id string) (*rulebook.ArmorTemplate, error) {
	tmpl, ok := c.armor[id]
	if !ok {
		return nil, engineErrors.NotFoundf("armor template %s not found", id)
	}
	return tmpl, nil
}
