// Package session models the per-request interaction context. The
// selected bakery can arrive from two surfaces at once (a map click
// and a checklist click); the most recent interaction wins. Nothing
// here is global: a Context is built per request and discarded.
package session

import (
	"strings"
	"time"
)

// Interaction is one bakery selection event from a UI surface.
type Interaction struct {
	BakeryName string
	At         time.Time
}

// Context carries the resolved interaction state for one request.
type Context struct {
	MapClick       Interaction
	ChecklistClick Interaction
	Merchant       bool
}

// SelectedBakery resolves the two selection surfaces. When both carry
// a bakery, the later timestamp wins; an exact tie goes to the map
// click since it is the more deliberate gesture.
func (c Context) SelectedBakery() (string, bool) {
	mapName := strings.TrimSpace(c.MapClick.BakeryName)
	listName := strings.TrimSpace(c.ChecklistClick.BakeryName)

	switch {
	case mapName == "" && listName == "":
		return "", false
	case listName == "":
		return mapName, true
	case mapName == "":
		return listName, true
	case c.ChecklistClick.At.After(c.MapClick.At):
		return listName, true
	default:
		return mapName, true
	}
}
