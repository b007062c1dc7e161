package dice

import (
	"fmt"
	"strings"
)

// RollResult holds the outcome of a single roll, including every face
// across continuation throws for display and auditing.
type RollResult struct {
	Total      int
	Rolls      []int // individual face values, base throw first
	Count      int   // dice per throw
	Explosions int   // continuation throws taken beyond the base throw
}

func (r *RollResult) String() string {
	compact := strings.ReplaceAll(fmt.Sprintf("%v", r.Rolls), " ", "")
	if r.Explosions > 0 {
		return fmt.Sprintf("**%d** : %s (exploded x%d)", r.Total, compact, r.Explosions)
	}
	return fmt.Sprintf("**%d** : %s", r.Total, compact)
}
