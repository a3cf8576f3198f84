// Package engine derives every view the app renders from the raw
// activity rows: per-bakery visit status, rating aggregates, the best
// value pick and the leaderboard. All functions are pure; they take a
// fetched row set and return fresh results, so concurrent readers can
// never observe partially updated state.
package engine

import (
	"sort"

	"github.com/matthurstrsa-droid/fastelavn/pkg/enums"
	"github.com/shopspring/decimal"
)

// ComputeStatus classifies every bakery present in the row set by the
// maximum rating across its rows. Max encodes dominance: once any row
// rates a bakery >= 1.0 it stays Tried no matter what is appended
// later, because max is monotonically non-decreasing under append-only
// growth.
func ComputeStatus(rows []ActivityRow) map[string]enums.BakeryStatus {
	maxRating := make(map[string]float64)
	for _, row := range rows {
		if row.BakeryName == "" {
			continue
		}
		if current, ok := maxRating[row.BakeryName]; !ok || row.Rating > current {
			maxRating[row.BakeryName] = row.Rating
		}
	}

	statuses := make(map[string]enums.BakeryStatus, len(maxRating))
	for name, rating := range maxRating {
		statuses[name] = ClassifyRating(rating)
	}
	return statuses
}

// ClassifyRating maps a max rating onto a visit status.
func ClassifyRating(rating float64) enums.BakeryStatus {
	switch {
	case rating >= RatingTriedMin:
		return enums.BakeryStatusTried
	case rating > 0:
		return enums.BakeryStatusWishlisted
	default:
		return enums.BakeryStatusUnvisited
	}
}

// Aggregate summarizes the genuine ratings of one bakery. Bakeries
// without any row rated >= 1.0 have no Aggregate at all; callers must
// treat absence as "no rating data", not zero.
type Aggregate struct {
	MeanRating float64
	Count      int
	MeanPrice  decimal.Decimal
}

// ComputeAggregates folds rated rows (rating >= 1.0 only) into
// per-bakery mean rating, rating count and mean price. Wishlist
// markers and zero-signal rows never influence the result.
func ComputeAggregates(rows []ActivityRow) map[string]Aggregate {
	type acc struct {
		ratingSum float64
		priceSum  decimal.Decimal
		count     int
	}

	accs := make(map[string]*acc)
	for _, row := range rows {
		if !row.IsRated() || row.BakeryName == "" {
			continue
		}
		a, ok := accs[row.BakeryName]
		if !ok {
			a = &acc{}
			accs[row.BakeryName] = a
		}
		a.ratingSum += row.Rating
		a.priceSum = a.priceSum.Add(row.Price)
		a.count++
	}

	aggregates := make(map[string]Aggregate, len(accs))
	for name, a := range accs {
		count := decimal.NewFromInt(int64(a.count))
		aggregates[name] = Aggregate{
			MeanRating: a.ratingSum / float64(a.count),
			Count:      a.count,
			MeanPrice:  a.priceSum.DivRound(count, 2),
		}
	}
	return aggregates
}

// ValueScore is mean rating per krone, scaled by 100. It is only
// defined for aggregates with a positive mean price.
func ValueScore(agg Aggregate) (decimal.Decimal, bool) {
	if !agg.MeanPrice.IsPositive() {
		return decimal.Decimal{}, false
	}
	score := decimal.NewFromFloat(agg.MeanRating).
		Div(agg.MeanPrice).
		Mul(decimal.NewFromInt(100))
	return score, true
}

// ComputeValueRanking returns the bakery with the highest value score,
// or ok=false when no bakery has a reported price. Bakeries without a
// price never win by default: an unreported price is unknown value,
// not infinite value. Score ties resolve to the alphabetically first
// name so repeated calls agree.
func ComputeValueRanking(aggregates map[string]Aggregate) (string, bool) {
	best := ""
	var bestScore decimal.Decimal
	found := false

	for _, name := range sortedNames(aggregates) {
		score, ok := ValueScore(aggregates[name])
		if !ok {
			continue
		}
		if !found || score.GreaterThan(bestScore) {
			best = name
			bestScore = score
			found = true
		}
	}
	return best, found
}

// ComputeLeaderboard returns up to n bakery names ordered by mean
// rating descending. Ties break by bakery name ascending; the source
// app's ordering depended on hash iteration and flapped between
// renders, so the tiebreak is pinned here.
func ComputeLeaderboard(aggregates map[string]Aggregate, n int) []string {
	if n <= 0 {
		return nil
	}

	names := sortedNames(aggregates)
	sort.SliceStable(names, func(i, j int) bool {
		return aggregates[names[i]].MeanRating > aggregates[names[j]].MeanRating
	})

	if len(names) > n {
		names = names[:n]
	}
	return names
}

// ToggleDecision tells the caller how to realize a wishlist toggle:
// append a sentinel row, or delete the row identified by Seq.
type ToggleDecision struct {
	Action enums.WishlistAction
	Seq    int64
}

// ResolveWishlistToggle decides between Add and Remove for a bakery.
// Remove targets the first wishlist-marker row in insertion order and
// only that row; rated rows are never candidates. This is the single
// operation that breaks append-only purity, so the decision names the
// exact row by its stable identifier instead of leaving the store to
// scan by value.
func ResolveWishlistToggle(rows []ActivityRow, bakeryName string) ToggleDecision {
	for _, row := range rows {
		if row.BakeryName != bakeryName {
			continue
		}
		if row.IsWishlistMarker() {
			return ToggleDecision{Action: enums.WishlistActionRemove, Seq: row.Seq}
		}
	}
	return ToggleDecision{Action: enums.WishlistActionAdd}
}

// FilterGeo returns the rows usable for map rendering.
func FilterGeo(rows []ActivityRow) []ActivityRow {
	geo := make([]ActivityRow, 0, len(rows))
	for _, row := range rows {
		if row.HasGeo() {
			geo = append(geo, row)
		}
	}
	return geo
}

func sortedNames(aggregates map[string]Aggregate) []string {
	names := make([]string, 0, len(aggregates))
	for name := range aggregates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
