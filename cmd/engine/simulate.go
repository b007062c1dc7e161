package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/mudforge/mudcore/internal/domain/character"
	"github.com/mudforge/mudcore/internal/domain/equipment"
	"github.com/mudforge/mudcore/internal/domain/shared"
	rulebookrepo "github.com/mudforge/mudcore/internal/repositories/rulebook"
	"github.com/mudforge/mudcore/internal/rulebook"
	"github.com/mudforge/mudcore/internal/services"
	"github.com/mudforge/mudcore/internal/services/combat"
)

var simulateRounds int

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scripted duel",
	Long:  `Runs two characters through a short fight against in-memory state and prints the action log. Useful for eyeballing tuning changes.`,
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simulateRounds, "rounds", 10, "maximum number of exchange rounds")
}

func simulationRulebook() (rulebookrepo.Repository, error) {
	return rulebookrepo.New(
		[]rulebook.SkillDefinition{
			{ID: "swords", Name: "Swords", Attribute: shared.AttributeStrength, Category: rulebook.SkillCategoryCombat, BaseCost: 25, Multiplier: 2.2},
			{ID: "dodge", Name: "Dodge", Attribute: shared.AttributeAgility, Category: rulebook.SkillCategoryCombat, BaseCost: 25, Multiplier: 2.2},
			{ID: "parry", Name: "Parry", Attribute: shared.AttributeAgility, Category: rulebook.SkillCategoryCombat, BaseCost: 25, Multiplier: 2.2},
			{ID: "brawling", Name: "Brawling", Attribute: shared.AttributeStrength, Category: rulebook.SkillCategoryCombat, BaseCost: 25, Multiplier: 2.2},
		},
		nil,
		[]rulebook.WeaponTemplate{
			{ID: "iron-sword", Name: "Iron Sword", SkillID: "swords", DamageType: shared.DamageTypeSlash, DamageClass: 3, Durability: 50},
		},
		[]rulebook.ArmorTemplate{
			{ID: "chain-shirt", Name: "Chain Shirt", Coverage: []shared.BodyLocation{shared.LocationTorso, shared.LocationArms},
				Absorption: map[shared.DamageType]int{shared.DamageTypeSlash: 3, shared.DamageTypePierce: 2, shared.DamageTypeBlunt: 1}, Durability: 80},
		},
	)
}

func simulationCharacter(repo rulebookrepo.Repository, id, name string, strength int) (*character.Character, error) {
	sword, err := repo.WeaponTemplate("iron-sword")
	if err != nil {
		return nil, err
	}
	shirt, err := repo.ArmorTemplate("chain-shirt")
	if err != nil {
		return nil, err
	}

	return &character.Character{
		ID:      id,
		OwnerID: "simulation",
		Name:    name,
		Attributes: map[shared.Attribute]int{
			shared.AttributeStrength:   strength,
			shared.AttributeAgility:    10,
			shared.AttributeDexterity:  10,
			shared.AttributeStamina:    10,
			shared.AttributeIntellect:  10,
			shared.AttributeWillpower:  10,
			shared.AttributePerception: 10,
		},
		Skills: map[string]*character.Skill{
			"swords": {DefinitionID: "swords", Usage: 80, CachedLevel: 2},
			"dodge":  {DefinitionID: "dodge", Usage: 25, CachedLevel: 1},
		},
		Fatigue:  character.Pool{Current: 40, Max: 40},
		Vitality: character.Pool{Current: 30, Max: 30},
		MainHand: sword.NewWeapon(id + "-sword"),
		Armor:    []*equipment.Armor{shirt.NewArmor(id + "-shirt")},
	}, nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	repo, err := simulationRulebook()
	if err != nil {
		return err
	}

	provider, err := services.NewProvider(&services.ProviderConfig{
		Rulebook:            repo,
		ConvergenceInterval: 100 * time.Millisecond,
	})
	if err != nil {
		return err
	}

	for _, seed := range []struct {
		id, name string
		strength int
	}{
		{"sim-aldric", "Aldric", 14},
		{"sim-berta", "Berta", 12},
	} {
		char, err := simulationCharacter(repo, seed.id, seed.name, seed.strength)
		if err != nil {
			return err
		}
		if err := provider.Registry.Add(char); err != nil {
			return err
		}
	}

	ctx := context.Background()
	session, err := provider.CombatService.StartSession("sim-aldric", "sim-berta")
	if err != nil {
		return err
	}
	log.Printf("Session %s started", session.ID)

	pairs := [][2]string{{"sim-aldric", "sim-berta"}, {"sim-berta", "sim-aldric"}}
	for round := 1; round <= simulateRounds; round++ {
		for _, pair := range pairs {
			result, err := provider.CombatService.Attack(ctx, &combat.AttackInput{
				SessionID:  session.ID,
				ActorID:    pair[0],
				TargetID:   pair[1],
				ActionType: shared.ActionTypeMelee,
			})
			if err != nil {
				return err
			}
			fmt.Printf("[round %2d] %s\n", round, result.Description)
		}

		// Let pending damage converge between exchanges.
		if err := provider.Driver.RunOnce(ctx); err != nil {
			return err
		}

		if fallen := checkFallen(provider, pairs); fallen != "" {
			fmt.Printf("%s can fight no more\n", fallen)
			break
		}
	}

	if err := provider.CombatService.EndSession(session.ID); err != nil {
		return err
	}

	fmt.Println("\nAction log:")
	for _, entry := range session.Log() {
		fmt.Printf("  %s  %s (damage %d)\n", entry.At.Format(time.TimeOnly), entry.Description, entry.Damage)
	}
	return nil
}

func checkFallen(provider *services.Provider, pairs [][2]string) string {
	for _, pair := range pairs {
		char, err := provider.Registry.Get(pair[0])
		if err != nil {
			continue
		}
		if char.Pool(shared.PoolVitality).Depleted() || char.Pool(shared.PoolFatigue).Depleted() {
			return char.Name
		}
	}
	return ""
}
