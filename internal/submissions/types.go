package submissions

import (
	"github.com/matthurstrsa-droid/fastelavn/pkg/enums"
	"github.com/shopspring/decimal"
)

// RatingInput is one user rating submission. Address is only required
// when the bakery is not on the sheet yet.
type RatingInput struct {
	BakeryName string
	Flavor     string
	Rating     float64
	Price      decimal.Decimal
	User       string
	Comment    string
	PhotoURL   string
	Address    string
}

// ToggleResult reports which way a wishlist toggle resolved.
type ToggleResult struct {
	BakeryName string               `json:"bakery_name"`
	Action     enums.WishlistAction `json:"action"`
}

// RestockInput is a merchant stock update authenticated by the
// bakery's shared key.
type RestockInput struct {
	BakeryName string
	BakeryKey  string
	Stock      int
}

// ListingInput registers a new bakery on the sheet.
type ListingInput struct {
	BakeryName string
	Address    string
	PhotoURL   string
}

// ListingResult carries the generated merchant key back to the caller.
// The key is only ever returned here; afterwards it lives in the row
// store and is checked by constant-time compare.
type ListingResult struct {
	BakeryName string  `json:"bakery_name"`
	BakeryKey  string  `json:"bakery_key"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}
