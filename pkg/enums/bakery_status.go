package enums

import "fmt"

// BakeryStatus is the derived visit state of a bakery, classified from
// the maximum rating seen across its activity rows.
type BakeryStatus string

const (
	BakeryStatusUnvisited  BakeryStatus = "unvisited"
	BakeryStatusWishlisted BakeryStatus = "wishlisted"
	BakeryStatusTried      BakeryStatus = "tried"
)

var validBakeryStatuses = []BakeryStatus{
	BakeryStatusUnvisited,
	BakeryStatusWishlisted,
	BakeryStatusTried,
}

// String implements fmt.Stringer.
func (s BakeryStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known BakeryStatus.
func (s BakeryStatus) IsValid() bool {
	for _, candidate := range validBakeryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseBakeryStatus converts raw input into a BakeryStatus.
func ParseBakeryStatus(value string) (BakeryStatus, error) {
	for _, candidate := range validBakeryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bakery status %q", value)
}
