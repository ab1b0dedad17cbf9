package game

import (
	"math/rand"

	"github.com/sadopc/pairplay/internal/library"
)

// DrawResult carries a drawn item, or the empty-pool sentinel when no
// enabled tier holds any item. The sentinel is guidance, not an error.
type DrawResult struct {
	Item  library.Item
	Empty bool
}

// Draw picks one item uniformly from the union of the enabled tier buckets
// for the given role. Stateless across calls.
func Draw(col *library.Collection, kind library.Kind, role library.Role, tiers []string, rng *rand.Rand) DrawResult {
	lib := col.Library(kind)
	var pool []library.Item
	for _, tier := range tiers {
		pool = append(pool, lib.Get(role, tier)...)
	}
	if len(pool) == 0 {
		return DrawResult{
			Empty: true,
			Item: library.Item{
				Content: "No tiers selected or the selected tiers are empty. Add cards in the library editor.",
				Icon:    "⚠️",
			},
		}
	}
	return DrawResult{Item: pool[rng.Intn(len(pool))]}
}
