package submissions

import (
	"context"
	"io"
	"testing"

	"github.com/matthurstrsa-droid/fastelavn/internal/engine"
	"github.com/matthurstrsa-droid/fastelavn/pkg/enums"
	pkgerrors "github.com/matthurstrsa-droid/fastelavn/pkg/errors"
	"github.com/matthurstrsa-droid/fastelavn/pkg/geocode"
	"github.com/matthurstrsa-droid/fastelavn/pkg/logger"
	"github.com/shopspring/decimal"
)

type stubStore struct {
	rows     []engine.ActivityRow
	fetchErr error

	appended  []engine.ActivityRow
	appendErr error

	deleted   []int64
	deleteErr error
}

func (s *stubStore) FetchAll(context.Context) ([]engine.ActivityRow, error) {
	return s.rows, s.fetchErr
}

func (s *stubStore) Append(_ context.Context, row engine.ActivityRow) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, row)
	return nil
}

func (s *stubStore) Delete(_ context.Context, seq int64) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, seq)
	return nil
}

type stubGeocoder struct {
	location geocode.Location
	err      error
	calls    int
}

func (g *stubGeocoder) Lookup(context.Context, string) (geocode.Location, error) {
	g.calls++
	return g.location, g.err
}

type stubImages struct {
	url string
	err error
}

func (i *stubImages) Upload(context.Context, []byte) (string, error) {
	return i.url, i.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestService(t *testing.T, store *stubStore, geo *stubGeocoder) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Store:    store,
		Geocoder: geo,
		Images:   &stubImages{url: "https://img.example/x.jpg"},
		Logger:   testLogger(),
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func existingBakeryRows() []engine.ActivityRow {
	return []engine.ActivityRow{
		{Seq: 1, BakeryName: "Andersen", Rating: 4.0, Lat: 55.67, Lon: 12.56, Address: "Vesterbrogade 2", BakeryKey: "key-andersen"},
	}
}

func TestSubmitRatingExistingBakeryInheritsCoordinates(t *testing.T) {
	store := &stubStore{rows: existingBakeryRows()}
	geo := &stubGeocoder{}
	svc := newTestService(t, store, geo)

	err := svc.SubmitRating(context.Background(), RatingInput{
		BakeryName: "Andersen",
		Flavor:     "Vanilje",
		Rating:     4.5,
		Price:      decimal.NewFromInt(45),
		User:       "sofie",
	})
	if err != nil {
		t.Fatalf("SubmitRating returned error: %v", err)
	}
	if geo.calls != 0 {
		t.Fatalf("expected no geocode calls for known bakery, got %d", geo.calls)
	}
	if len(store.appended) != 1 {
		t.Fatalf("expected 1 append, got %d", len(store.appended))
	}

	row := store.appended[0]
	if row.Lat != 55.67 || row.Lon != 12.56 {
		t.Fatalf("expected inherited coordinates, got %v/%v", row.Lat, row.Lon)
	}
	if row.Address != "Vesterbrogade 2" {
		t.Fatalf("expected inherited address, got %q", row.Address)
	}
	if row.Category != enums.CategoryUser {
		t.Fatalf("expected user category, got %s", row.Category)
	}
}

func TestSubmitRatingNewBakeryRequiresGeocode(t *testing.T) {
	store := &stubStore{}
	geo := &stubGeocoder{location: geocode.Location{Lat: 55.7, Lon: 12.5}}
	svc := newTestService(t, store, geo)

	err := svc.SubmitRating(context.Background(), RatingInput{
		BakeryName: "Ny Bager",
		Rating:     3.0,
		Address:    "Nørrebrogade 1",
	})
	if err != nil {
		t.Fatalf("SubmitRating returned error: %v", err)
	}
	if geo.calls != 1 {
		t.Fatalf("expected 1 geocode call, got %d", geo.calls)
	}
	if store.appended[0].Lat != 55.7 {
		t.Fatalf("expected geocoded latitude, got %v", store.appended[0].Lat)
	}
}

func TestSubmitRatingGeocodeFailureWritesNothing(t *testing.T) {
	store := &stubStore{}
	geo := &stubGeocoder{err: pkgerrors.New(pkgerrors.CodeGeocode, "no results for address")}
	svc := newTestService(t, store, geo)

	err := svc.SubmitRating(context.Background(), RatingInput{
		BakeryName: "Ny Bager",
		Rating:     3.0,
		Address:    "Findes Ikke 99",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeGeocode {
		t.Fatalf("expected geocode error, got %v", err)
	}
	if len(store.appended) != 0 {
		t.Fatal("geocode failure must not write a row")
	}
}

func TestSubmitRatingNewBakeryWithoutAddress(t *testing.T) {
	svc := newTestService(t, &stubStore{}, &stubGeocoder{})

	err := svc.SubmitRating(context.Background(), RatingInput{BakeryName: "Ny Bager", Rating: 3.0})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitRatingValidation(t *testing.T) {
	svc := newTestService(t, &stubStore{rows: existingBakeryRows()}, &stubGeocoder{})

	cases := []struct {
		name  string
		input RatingInput
	}{
		{"missing name", RatingInput{Rating: 3.0}},
		{"rating below scale", RatingInput{BakeryName: "Andersen", Rating: 0.5}},
		{"rating above scale", RatingInput{BakeryName: "Andersen", Rating: 5.5}},
		{"negative price", RatingInput{BakeryName: "Andersen", Rating: 3.0, Price: decimal.NewFromInt(-1)}},
	}
	for _, tc := range cases {
		err := svc.SubmitRating(context.Background(), tc.input)
		if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestToggleWishlistAdd(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, store, &stubGeocoder{})

	result, err := svc.ToggleWishlist(context.Background(), "Ny Bager", "sofie")
	if err != nil {
		t.Fatalf("ToggleWishlist returned error: %v", err)
	}
	if result.Action != enums.WishlistActionAdd {
		t.Fatalf("expected add, got %s", result.Action)
	}
	if len(store.appended) != 1 {
		t.Fatalf("expected 1 append, got %d", len(store.appended))
	}
	row := store.appended[0]
	if row.Rating != engine.WishlistSentinel {
		t.Fatalf("expected sentinel rating, got %v", row.Rating)
	}
	if row.Flavor != engine.WishlistFlavor {
		t.Fatalf("expected wishlist flavor, got %q", row.Flavor)
	}
}

func TestToggleWishlistRemove(t *testing.T) {
	store := &stubStore{rows: []engine.ActivityRow{
		{Seq: 7, BakeryName: "Ny Bager", Rating: 0.1},
	}}
	svc := newTestService(t, store, &stubGeocoder{})

	result, err := svc.ToggleWishlist(context.Background(), "Ny Bager", "sofie")
	if err != nil {
		t.Fatalf("ToggleWishlist returned error: %v", err)
	}
	if result.Action != enums.WishlistActionRemove {
		t.Fatalf("expected remove, got %s", result.Action)
	}
	if len(store.deleted) != 1 || store.deleted[0] != 7 {
		t.Fatalf("expected delete of seq 7, got %v", store.deleted)
	}
	if len(store.appended) != 0 {
		t.Fatal("remove must not append")
	}
}

func TestToggleWishlistRefusesTriedBakery(t *testing.T) {
	store := &stubStore{rows: existingBakeryRows()}
	svc := newTestService(t, store, &stubGeocoder{})

	_, err := svc.ToggleWishlist(context.Background(), "Andersen", "sofie")
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(store.appended) != 0 && len(store.deleted) != 0 {
		t.Fatal("refused toggle must not mutate the store")
	}
}

func TestRestock(t *testing.T) {
	store := &stubStore{rows: existingBakeryRows()}
	svc := newTestService(t, store, &stubGeocoder{})

	err := svc.Restock(context.Background(), RestockInput{
		BakeryName: "Andersen",
		BakeryKey:  "key-andersen",
		Stock:      24,
	})
	if err != nil {
		t.Fatalf("Restock returned error: %v", err)
	}
	if len(store.appended) != 1 {
		t.Fatalf("expected 1 append, got %d", len(store.appended))
	}
	row := store.appended[0]
	if row.Category != enums.CategoryMerchant {
		t.Fatalf("expected merchant category, got %s", row.Category)
	}
	if row.Stock != 24 {
		t.Fatalf("expected stock 24, got %d", row.Stock)
	}
	if row.Rating != 0 {
		t.Fatalf("stock rows must not carry a rating, got %v", row.Rating)
	}
}

func TestRestockKeyMismatch(t *testing.T) {
	store := &stubStore{rows: existingBakeryRows()}
	svc := newTestService(t, store, &stubGeocoder{})

	err := svc.Restock(context.Background(), RestockInput{
		BakeryName: "Andersen",
		BakeryKey:  "wrong-key",
		Stock:      24,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(store.appended) != 0 {
		t.Fatal("rejected restock must not write a row")
	}
}

func TestRestockUnregisteredBakery(t *testing.T) {
	svc := newTestService(t, &stubStore{}, &stubGeocoder{})

	err := svc.Restock(context.Background(), RestockInput{
		BakeryName: "Ukendt",
		BakeryKey:  "anything",
		Stock:      1,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAddBakery(t *testing.T) {
	store := &stubStore{}
	geo := &stubGeocoder{location: geocode.Location{Lat: 55.68, Lon: 12.57}}
	svc := newTestService(t, store, geo)

	result, err := svc.AddBakery(context.Background(), ListingInput{
		BakeryName: "Ny Bager",
		Address:    "Nørrebrogade 1",
	})
	if err != nil {
		t.Fatalf("AddBakery returned error: %v", err)
	}
	if result.BakeryKey == "" {
		t.Fatal("expected a generated bakery key")
	}
	if result.Lat != 55.68 {
		t.Fatalf("expected geocoded latitude, got %v", result.Lat)
	}

	row := store.appended[0]
	if row.Category != enums.CategoryBakery {
		t.Fatalf("expected bakery category, got %s", row.Category)
	}
	if row.Rating != 0 {
		t.Fatalf("listing rows carry no rating, got %v", row.Rating)
	}
	if row.BakeryKey != result.BakeryKey {
		t.Fatal("stored key must match the returned key")
	}
}

func TestAddBakeryDuplicate(t *testing.T) {
	store := &stubStore{rows: existingBakeryRows()}
	svc := newTestService(t, store, &stubGeocoder{})

	_, err := svc.AddBakery(context.Background(), ListingInput{
		BakeryName: "Andersen",
		Address:    "Vesterbrogade 2",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUploadPhoto(t *testing.T) {
	svc := newTestService(t, &stubStore{}, &stubGeocoder{})

	url, err := svc.UploadPhoto(context.Background(), []byte{0xFF, 0xD8})
	if err != nil {
		t.Fatalf("UploadPhoto returned error: %v", err)
	}
	if url != "https://img.example/x.jpg" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestWritesPropagateStoreErrors(t *testing.T) {
	storeErr := pkgerrors.New(pkgerrors.CodeStoreUnavailable, "sheet down")
	store := &stubStore{fetchErr: storeErr}
	svc := newTestService(t, store, &stubGeocoder{})

	err := svc.SubmitRating(context.Background(), RatingInput{BakeryName: "A", Rating: 3.0})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStoreUnavailable {
		t.Fatalf("expected store unavailable, got %v", err)
	}
	if _, err := svc.ToggleWishlist(context.Background(), "A", "u"); err == nil {
		t.Fatal("expected error from ToggleWishlist")
	}
}
