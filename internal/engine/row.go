package engine

import (
	"time"

	"github.com/matthurstrsa-droid/fastelavn/pkg/enums"
	"github.com/shopspring/decimal"
)

// Rating thresholds. The rating cell doubles as a status signal: zero
// means no signal, anything in (0,1) is a wishlist marker, and 1.0 and
// above is a real star rating. New wishlist rows always write
// WishlistSentinel; the open interval on read absorbs historic rows
// written with drifting sentinel values.
const (
	WishlistSentinel = 0.1
	RatingTriedMin   = 1.0
)

// WishlistFlavor is the flavor-cell marker carried by wishlist rows.
const WishlistFlavor = "Wishlist"

// ActivityRow is the typed, normalized view of one sheet row. The row
// store adapter produces these; everything downstream consumes them.
type ActivityRow struct {
	Seq         int64
	BakeryName  string
	Flavor      string
	PhotoURL    string
	Address     string
	Lat         float64
	Lon         float64
	Date        time.Time
	LastUpdated time.Time
	Category    enums.Category
	User        string
	Rating      float64
	Price       decimal.Decimal
	Stock       int
	BakeryKey   string
	Comment     string
}

// HasGeo reports whether the row carries usable coordinates. Rows
// without them are excluded from map views but still feed aggregates.
func (r ActivityRow) HasGeo() bool {
	return r.Lat != 0 || r.Lon != 0
}

// IsWishlistMarker reports whether the rating cell is in the wishlist
// sentinel range.
func (r ActivityRow) IsWishlistMarker() bool {
	return r.Rating > 0 && r.Rating < RatingTriedMin
}

// IsRated reports whether the row carries a genuine star rating.
func (r ActivityRow) IsRated() bool {
	return r.Rating >= RatingTriedMin
}
