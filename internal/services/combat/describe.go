package combat

import "fmt"

var damageVerbs = []struct {
	maxDamage int
	verb      string
}{
	{0, "misses"},
	{2, "scratches"},
	{4, "grazes"},
	{7, "hits"},
	{11, "hits hard"},
	{16, "wounds"},
	{22, "mauls"},
	{30, "devastates"},
}

// damageVerb returns the third-person verb for a damage amount.
func damageVerb(damage int) string {
	for _, entry := range damageVerbs {
		if damage <= entry.maxDamage {
			return entry.verb
		}
	}
	return "eviscerates"
}

// describeAttack builds the human-readable outcome fragment.
func describeAttack(actorName, targetName, weaponName string, result *AttackResult) string {
	if !result.Hit {
		if result.Absorbed > 0 && result.AttackValue > result.DefenseValue {
			return fmt.Sprintf("%s's %s glances off %s's armor", actorName, weaponName, targetName)
		}
		return fmt.Sprintf("%s misses %s with %s", actorName, targetName, weaponName)
	}

	total := result.FatigueDamage + result.VitalityDamage
	return fmt.Sprintf("%s %s %s in the %s with %s",
		actorName, damageVerb(total), targetName, result.Location, weaponName)
}
