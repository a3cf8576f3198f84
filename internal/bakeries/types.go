package bakeries

import (
	"time"

	"github.com/matthurstrsa-droid/fastelavn/pkg/enums"
	"github.com/shopspring/decimal"
)

// BakeryDTO is one checklist entry: the bakery's derived status plus
// whatever profile data its rows carry.
type BakeryDTO struct {
	Name         string             `json:"name"`
	Status       enums.BakeryStatus `json:"status"`
	Address      string             `json:"address,omitempty"`
	Lat          float64            `json:"lat,omitempty"`
	Lon          float64            `json:"lon,omitempty"`
	PhotoURL     string             `json:"photo_url,omitempty"`
	MeanRating   *float64           `json:"mean_rating,omitempty"`
	RatingCount  int                `json:"rating_count"`
	MeanPrice    *decimal.Decimal   `json:"mean_price,omitempty"`
	LastActivity *time.Time         `json:"last_activity,omitempty"`
}

// MarkerDTO is one map pin. Only bakeries with usable coordinates get
// a marker; BestValue flags the single best-value pick so the map can
// style it apart.
type MarkerDTO struct {
	Name      string             `json:"name"`
	Lat       float64            `json:"lat"`
	Lon       float64            `json:"lon"`
	Status    enums.BakeryStatus `json:"status"`
	BestValue bool               `json:"best_value"`
}

// LeaderboardEntryDTO is one leaderboard row, rank starting at 1.
type LeaderboardEntryDTO struct {
	Rank        int     `json:"rank"`
	Name        string  `json:"name"`
	MeanRating  float64 `json:"mean_rating"`
	RatingCount int     `json:"rating_count"`
}

// ValueDTO names the current best-value bakery and its score.
type ValueDTO struct {
	Name       string          `json:"name"`
	Score      decimal.Decimal `json:"score"`
	MeanRating float64         `json:"mean_rating"`
	MeanPrice  decimal.Decimal `json:"mean_price"`
}

// DetailDTO is the per-bakery view: the checklist entry plus the
// distinct flavors already submitted for it.
type DetailDTO struct {
	BakeryDTO
	Flavors []string `json:"flavors"`
}
