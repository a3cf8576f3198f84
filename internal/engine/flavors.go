package engine

import (
	"sort"
	"strings"
	"unicode"
)

// FlavorOptions returns the distinct flavors already submitted for a
// bakery, for pre-filling the flavor dropdown. The wishlist marker and
// bare-number artifacts left behind by old sheet rows are filtered out.
func FlavorOptions(rows []ActivityRow, bakeryName string) []string {
	seen := make(map[string]struct{})
	flavors := make([]string, 0, 8)

	for _, row := range rows {
		if row.BakeryName != bakeryName {
			continue
		}
		flavor := strings.TrimSpace(row.Flavor)
		if flavor == "" || isDigits(flavor) {
			continue
		}
		if strings.EqualFold(flavor, WishlistFlavor) {
			continue
		}
		if _, ok := seen[flavor]; ok {
			continue
		}
		seen[flavor] = struct{}{}
		flavors = append(flavors, flavor)
	}

	sort.Strings(flavors)
	return flavors
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
