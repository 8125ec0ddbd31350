package intel

import (
	"strings"

	"league-intel/internal/domain"
)

// CollectPlayerIDs gathers every player id referenced by the season set:
// roster slots plus transaction adds/drops. The deduplicated result is what
// the identity resolver fetches instead of the full catalog.
func CollectPlayerIDs(seasons []domain.SeasonData) []string {
	var ids []string
	seen := make(map[string]struct{})
	push := func(raw string) {
		id := strings.TrimSpace(raw)
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, season := range seasons {
		for _, roster := range season.Rosters {
			for _, id := range roster.AllPlayerIDs() {
				push(id)
			}
		}
		for _, tx := range season.Transactions {
			for _, id := range sortedKeys(tx.Adds) {
				push(id)
			}
			for _, id := range sortedKeys(tx.Drops) {
				push(id)
			}
		}
	}
	return ids
}
