package bakeries

import (
	"context"
	"testing"
	"time"

	"github.com/matthurstrsa-droid/fastelavn/internal/engine"
	"github.com/matthurstrsa-droid/fastelavn/pkg/enums"
	pkgerrors "github.com/matthurstrsa-droid/fastelavn/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubRows struct {
	rows []engine.ActivityRow
	err  error
}

func (s *stubRows) FetchAll(context.Context) ([]engine.ActivityRow, error) {
	return s.rows, s.err
}

func newTestService(t *testing.T, rows []engine.ActivityRow) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Rows: &stubRows{rows: rows}})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func sampleRows() []engine.ActivityRow {
	date := func(day int) time.Time {
		return time.Date(2026, 2, day, 0, 0, 0, 0, time.UTC)
	}
	return []engine.ActivityRow{
		{Seq: 1, BakeryName: "Andersen", Rating: 0.1, Flavor: "Wishlist", Date: date(1)},
		{Seq: 2, BakeryName: "Andersen", Rating: 4.0, Price: decimal.NewFromInt(40), Flavor: "Vanilje", Lat: 55.67, Lon: 12.56, Address: "Vesterbrogade 2", PhotoURL: "https://img.example/a.jpg", Date: date(3)},
		{Seq: 3, BakeryName: "Andersen", Rating: 5.0, Price: decimal.NewFromInt(50), Flavor: "Chokolade", Date: date(5)},
		{Seq: 4, BakeryName: "Meyers", Rating: 0.1, Flavor: "Wishlist", Date: date(2)},
		{Seq: 5, BakeryName: "Lagkagehuset", Rating: 3.0, Price: decimal.NewFromInt(15), Flavor: "Solskin", Date: date(4)},
	}
}

func TestNewServiceRequiresRowSource(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error for missing row source")
	}
}

func TestChecklist(t *testing.T) {
	svc := newTestService(t, sampleRows())

	entries, err := svc.Checklist(context.Background())
	if err != nil {
		t.Fatalf("Checklist returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	// Sorted by name.
	if entries[0].Name != "Andersen" || entries[1].Name != "Lagkagehuset" || entries[2].Name != "Meyers" {
		t.Fatalf("unexpected order: %v, %v, %v", entries[0].Name, entries[1].Name, entries[2].Name)
	}

	andersen := entries[0]
	if andersen.Status != enums.BakeryStatusTried {
		t.Fatalf("expected Andersen tried, got %s", andersen.Status)
	}
	if andersen.MeanRating == nil || *andersen.MeanRating != 4.5 {
		t.Fatalf("expected mean rating 4.5, got %v", andersen.MeanRating)
	}
	if andersen.RatingCount != 2 {
		t.Fatalf("expected rating count 2, got %d", andersen.RatingCount)
	}
	if andersen.PhotoURL != "https://img.example/a.jpg" {
		t.Fatalf("unexpected photo url %q", andersen.PhotoURL)
	}
	if andersen.LastActivity == nil || andersen.LastActivity.Day() != 5 {
		t.Fatalf("expected last activity on day 5, got %v", andersen.LastActivity)
	}

	meyers := entries[2]
	if meyers.Status != enums.BakeryStatusWishlisted {
		t.Fatalf("expected Meyers wishlisted, got %s", meyers.Status)
	}
	if meyers.MeanRating != nil {
		t.Fatal("wishlist-only bakery must not carry a mean rating")
	}
}

func TestMapViewSkipsBakeriesWithoutGeo(t *testing.T) {
	svc := newTestService(t, sampleRows())

	markers, err := svc.MapView(context.Background())
	if err != nil {
		t.Fatalf("MapView returned error: %v", err)
	}
	if len(markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(markers))
	}
	if markers[0].Name != "Andersen" {
		t.Fatalf("expected Andersen marker, got %s", markers[0].Name)
	}
	if markers[0].Status != enums.BakeryStatusTried {
		t.Fatalf("expected tried marker, got %s", markers[0].Status)
	}
}

func TestMapViewFlagsBestValue(t *testing.T) {
	rows := []engine.ActivityRow{
		{Seq: 1, BakeryName: "Cheap", Rating: 4.0, Price: decimal.NewFromInt(10), Lat: 55.6, Lon: 12.5},
		{Seq: 2, BakeryName: "Fancy", Rating: 5.0, Price: decimal.NewFromInt(60), Lat: 55.7, Lon: 12.6},
	}
	svc := newTestService(t, rows)

	markers, err := svc.MapView(context.Background())
	if err != nil {
		t.Fatalf("MapView returned error: %v", err)
	}
	flagged := map[string]bool{}
	for _, m := range markers {
		flagged[m.Name] = m.BestValue
	}
	if !flagged["Cheap"] || flagged["Fancy"] {
		t.Fatalf("expected only Cheap flagged, got %v", flagged)
	}
}

func TestLeaderboard(t *testing.T) {
	svc := newTestService(t, sampleRows())

	entries, err := svc.Leaderboard(context.Background(), 3)
	if err != nil {
		t.Fatalf("Leaderboard returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "Andersen" || entries[0].Rank != 1 {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Name != "Lagkagehuset" || entries[1].Rank != 2 {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}

	if _, err := svc.Leaderboard(context.Background(), 0); pkgerrors.As(err) == nil {
		t.Fatal("expected validation error for n=0")
	}
}

func TestBestValue(t *testing.T) {
	svc := newTestService(t, sampleRows())

	best, err := svc.BestValue(context.Background())
	if err != nil {
		t.Fatalf("BestValue returned error: %v", err)
	}
	if best == nil {
		t.Fatal("expected a best value pick")
	}
	// Lagkagehuset: 3/15*100 = 20; Andersen: 4.5/45*100 = 10.
	if best.Name != "Lagkagehuset" {
		t.Fatalf("expected Lagkagehuset, got %s", best.Name)
	}
	if !best.Score.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected score 20, got %s", best.Score)
	}
}

func TestBestValueNoneWithoutPrices(t *testing.T) {
	rows := []engine.ActivityRow{
		{Seq: 1, BakeryName: "Free", Rating: 5.0},
	}
	svc := newTestService(t, rows)

	best, err := svc.BestValue(context.Background())
	if err != nil {
		t.Fatalf("BestValue returned error: %v", err)
	}
	if best != nil {
		t.Fatalf("expected nil best value, got %+v", best)
	}
}

func TestDetail(t *testing.T) {
	svc := newTestService(t, sampleRows())

	detail, err := svc.Detail(context.Background(), "Andersen")
	if err != nil {
		t.Fatalf("Detail returned error: %v", err)
	}
	if detail.Status != enums.BakeryStatusTried {
		t.Fatalf("expected tried, got %s", detail.Status)
	}
	want := []string{"Chokolade", "Vanilje"}
	if len(detail.Flavors) != 2 || detail.Flavors[0] != want[0] || detail.Flavors[1] != want[1] {
		t.Fatalf("expected flavors %v, got %v", want, detail.Flavors)
	}
}

func TestDetailUnknownBakery(t *testing.T) {
	svc := newTestService(t, sampleRows())

	_, err := svc.Detail(context.Background(), "Ukendt")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReadsPropagateStoreErrors(t *testing.T) {
	storeErr := pkgerrors.New(pkgerrors.CodeStoreUnavailable, "sheet down")
	svc, err := NewService(ServiceParams{Rows: &stubRows{err: storeErr}})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	if _, err := svc.Checklist(context.Background()); pkgerrors.As(err).Code() != pkgerrors.CodeStoreUnavailable {
		t.Fatalf("expected store unavailable, got %v", err)
	}
	if _, err := svc.MapView(context.Background()); err == nil {
		t.Fatal("expected error from MapView")
	}
}
