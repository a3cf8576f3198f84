package enums

import "fmt"

// Category identifies who posted an activity row.
type Category string

const (
	CategoryUser     Category = "User"
	CategoryMerchant Category = "Merchant"
	CategoryBakery   Category = "Bakery"
)

var validCategories = []Category{
	CategoryUser,
	CategoryMerchant,
	CategoryBakery,
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Category.
func (c Category) IsValid() bool {
	for _, candidate := range validCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCategory converts raw input into a Category. Unknown historical
// values fall back to CategoryUser rather than failing the row.
func ParseCategory(value string) (Category, error) {
	for _, candidate := range validCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", value)
}

// CategoryOrUser parses leniently, defaulting to CategoryUser.
func CategoryOrUser(value string) Category {
	if c, err := ParseCategory(value); err == nil {
		return c
	}
	return CategoryUser
}
