// Package bakeries is the read side: it composes the row store
// snapshot with the derivation engine into the views the app renders.
package bakeries

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/matthurstrsa-droid/fastelavn/internal/engine"
	"github.com/matthurstrsa-droid/fastelavn/pkg/enums"
	pkgerrors "github.com/matthurstrsa-droid/fastelavn/pkg/errors"
	"github.com/matthurstrsa-droid/fastelavn/pkg/metrics"
)

// RowSource is the read surface of the row store adapter.
type RowSource interface {
	FetchAll(ctx context.Context) ([]engine.ActivityRow, error)
}

// ServiceParams groups dependencies for the bakeries service.
type ServiceParams struct {
	Rows    RowSource
	Metrics *metrics.StoreMetrics
}

// Service exposes the derived read views.
type Service interface {
	Checklist(ctx context.Context) ([]BakeryDTO, error)
	MapView(ctx context.Context) ([]MarkerDTO, error)
	Leaderboard(ctx context.Context, n int) ([]LeaderboardEntryDTO, error)
	BestValue(ctx context.Context) (*ValueDTO, error)
	Detail(ctx context.Context, name string) (DetailDTO, error)
}

type service struct {
	rows    RowSource
	metrics *metrics.StoreMetrics
}

// NewService builds a bakeries service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Rows == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "row source is required")
	}
	return &service{rows: params.Rows, metrics: params.Metrics}, nil
}

// Checklist returns every bakery on the sheet with its derived status
// and aggregate, sorted by name for a stable listing.
func (s *service) Checklist(ctx context.Context) ([]BakeryDTO, error) {
	view, err := s.derive(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]BakeryDTO, 0, len(view.profiles))
	for _, name := range view.names() {
		entries = append(entries, view.entry(name))
	}
	return entries, nil
}

// MapView returns one marker per bakery with usable coordinates.
// Bakeries without coordinates are simply absent; their rows still fed
// the aggregates behind the other views.
func (s *service) MapView(ctx context.Context) ([]MarkerDTO, error) {
	view, err := s.derive(ctx)
	if err != nil {
		return nil, err
	}

	markers := make([]MarkerDTO, 0, len(view.profiles))
	for _, name := range view.names() {
		profile := view.profiles[name]
		if !profile.hasGeo {
			continue
		}
		markers = append(markers, MarkerDTO{
			Name:      name,
			Lat:       profile.lat,
			Lon:       profile.lon,
			Status:    view.statuses[name],
			BestValue: view.bestValueOK && name == view.bestValue,
		})
	}
	return markers, nil
}

// Leaderboard returns the top-n rated bakeries.
func (s *service) Leaderboard(ctx context.Context, n int) ([]LeaderboardEntryDTO, error) {
	if n <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "leaderboard size must be positive")
	}

	view, err := s.derive(ctx)
	if err != nil {
		return nil, err
	}

	names := engine.ComputeLeaderboard(view.aggregates, n)
	entries := make([]LeaderboardEntryDTO, 0, len(names))
	for i, name := range names {
		agg := view.aggregates[name]
		entries = append(entries, LeaderboardEntryDTO{
			Rank:        i + 1,
			Name:        name,
			MeanRating:  agg.MeanRating,
			RatingCount: agg.Count,
		})
	}
	return entries, nil
}

// BestValue returns the current best-value bakery, or nil when no
// bakery has both ratings and a reported price.
func (s *service) BestValue(ctx context.Context) (*ValueDTO, error) {
	view, err := s.derive(ctx)
	if err != nil {
		return nil, err
	}
	if !view.bestValueOK {
		return nil, nil
	}

	agg := view.aggregates[view.bestValue]
	score, _ := engine.ValueScore(agg)
	return &ValueDTO{
		Name:       view.bestValue,
		Score:      score,
		MeanRating: agg.MeanRating,
		MeanPrice:  agg.MeanPrice,
	}, nil
}

// Detail returns the full view of one bakery including its flavor
// options for the submission form.
func (s *service) Detail(ctx context.Context, name string) (DetailDTO, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return DetailDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "bakery name is required")
	}

	view, err := s.derive(ctx)
	if err != nil {
		return DetailDTO{}, err
	}
	if _, ok := view.profiles[trimmed]; !ok {
		return DetailDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "bakery not found")
	}

	return DetailDTO{
		BakeryDTO: view.entry(trimmed),
		Flavors:   engine.FlavorOptions(view.rows, trimmed),
	}, nil
}

// profile accumulates the non-derived facts about one bakery while
// scanning the row set: coordinates, latest photo and address, most
// recent activity.
type profile struct {
	address      string
	lat          float64
	lon          float64
	hasGeo       bool
	photoURL     string
	lastActivity time.Time
}

// derivedView is one consistent recomputation over a single snapshot.
// Every public read builds a fresh one, so no view can mix rows from
// two different fetches.
type derivedView struct {
	rows        []engine.ActivityRow
	statuses    map[string]enums.BakeryStatus
	aggregates  map[string]engine.Aggregate
	profiles    map[string]*profile
	bestValue   string
	bestValueOK bool
}

func (s *service) derive(ctx context.Context) (*derivedView, error) {
	rows, err := s.rows.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	view := &derivedView{
		rows:       rows,
		statuses:   engine.ComputeStatus(rows),
		aggregates: engine.ComputeAggregates(rows),
		profiles:   make(map[string]*profile),
	}
	view.bestValue, view.bestValueOK = engine.ComputeValueRanking(view.aggregates)

	for _, row := range rows {
		if row.BakeryName == "" {
			continue
		}
		p, ok := view.profiles[row.BakeryName]
		if !ok {
			p = &profile{}
			view.profiles[row.BakeryName] = p
		}
		if row.HasGeo() && !p.hasGeo {
			p.lat, p.lon, p.hasGeo = row.Lat, row.Lon, true
		}
		if row.Address != "" {
			p.address = row.Address
		}
		if row.PhotoURL != "" {
			p.photoURL = row.PhotoURL
		}
		if row.Date.After(p.lastActivity) {
			p.lastActivity = row.Date
		}
	}

	s.metrics.ObserveRecompute(time.Since(started))
	return view, nil
}

func (v *derivedView) names() []string {
	names := make([]string, 0, len(v.profiles))
	for name := range v.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (v *derivedView) entry(name string) BakeryDTO {
	p := v.profiles[name]
	dto := BakeryDTO{
		Name:    name,
		Status:  v.statuses[name],
		Address: p.address,
	}
	if p.hasGeo {
		dto.Lat, dto.Lon = p.lat, p.lon
	}
	dto.PhotoURL = p.photoURL
	if !p.lastActivity.IsZero() {
		last := p.lastActivity
		dto.LastActivity = &last
	}
	if agg, ok := v.aggregates[name]; ok {
		mean := agg.MeanRating
		price := agg.MeanPrice
		dto.MeanRating = &mean
		dto.RatingCount = agg.Count
		dto.MeanPrice = &price
	}
	return dto
}
