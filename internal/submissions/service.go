// Package submissions is the write side: every mutation of the
// activity sheet goes through here, so the append-only discipline and
// the wishlist-removal exception are enforced in exactly one place.
package submissions

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matthurstrsa-droid/fastelavn/internal/engine"
	"github.com/matthurstrsa-droid/fastelavn/pkg/enums"
	pkgerrors "github.com/matthurstrsa-droid/fastelavn/pkg/errors"
	"github.com/matthurstrsa-droid/fastelavn/pkg/geocode"
	"github.com/matthurstrsa-droid/fastelavn/pkg/logger"
)

const (
	ratingMin = 1.0
	ratingMax = 5.0
)

// RowStore is the full adapter surface the write side needs.
type RowStore interface {
	FetchAll(ctx context.Context) ([]engine.ActivityRow, error)
	Append(ctx context.Context, row engine.ActivityRow) error
	Delete(ctx context.Context, seq int64) error
}

// Geocoder resolves an address to coordinates.
type Geocoder interface {
	Lookup(ctx context.Context, address string) (geocode.Location, error)
}

// ImageHost uploads an image blob and returns its public URL.
type ImageHost interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

// ServiceParams groups dependencies for the submissions service.
type ServiceParams struct {
	Store    RowStore
	Geocoder Geocoder
	Images   ImageHost
	Logger   *logger.Logger
}

// Service exposes the sheet mutations.
type Service interface {
	SubmitRating(ctx context.Context, input RatingInput) error
	ToggleWishlist(ctx context.Context, bakeryName, user string) (ToggleResult, error)
	Restock(ctx context.Context, input RestockInput) error
	AddBakery(ctx context.Context, input ListingInput) (ListingResult, error)
	UploadPhoto(ctx context.Context, data []byte) (string, error)
}

type service struct {
	store    RowStore
	geocoder Geocoder
	images   ImageHost
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds a submissions service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "row store is required")
	}
	if params.Geocoder == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "geocoder is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		store:    params.Store,
		geocoder: params.Geocoder,
		images:   params.Images,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

// SubmitRating validates and appends one rating row. A bakery not yet
// on the sheet must geocode before anything is written; a failed
// lookup rejects the whole submission so no row ever lands without
// coordinates.
func (s *service) SubmitRating(ctx context.Context, input RatingInput) error {
	name := strings.TrimSpace(input.BakeryName)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "bakery name is required")
	}
	if input.Rating < ratingMin || input.Rating > ratingMax {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	rows, err := s.store.FetchAll(ctx)
	if err != nil {
		return err
	}

	row := engine.ActivityRow{
		BakeryName:  name,
		Flavor:      strings.TrimSpace(input.Flavor),
		PhotoURL:    strings.TrimSpace(input.PhotoURL),
		Category:    enums.CategoryUser,
		User:        strings.TrimSpace(input.User),
		Rating:      input.Rating,
		Price:       input.Price,
		Comment:     strings.TrimSpace(input.Comment),
		Date:        s.now().UTC(),
		LastUpdated: s.now().UTC(),
	}

	if known, ok := knownLocation(rows, name); ok {
		row.Lat, row.Lon = known.Lat, known.Lon
		row.Address = knownAddress(rows, name)
	} else {
		location, addr, err := s.resolveNewBakery(ctx, name, input.Address)
		if err != nil {
			return err
		}
		row.Lat, row.Lon = location.Lat, location.Lon
		row.Address = addr
	}

	ctx = s.logg.WithBakery(ctx, name)
	if err := s.store.Append(ctx, row); err != nil {
		return err
	}
	s.logg.Info(ctx, "rating submitted")
	return nil
}

// ToggleWishlist flips a bakery's wishlist state. Tried bakeries are
// refused: the wishlist is for places not yet visited.
func (s *service) ToggleWishlist(ctx context.Context, bakeryName, user string) (ToggleResult, error) {
	name := strings.TrimSpace(bakeryName)
	if name == "" {
		return ToggleResult{}, pkgerrors.New(pkgerrors.CodeValidation, "bakery name is required")
	}

	rows, err := s.store.FetchAll(ctx)
	if err != nil {
		return ToggleResult{}, err
	}

	if engine.ComputeStatus(rows)[name] == enums.BakeryStatusTried {
		return ToggleResult{}, pkgerrors.New(pkgerrors.CodeConflict, "bakery is already tried")
	}

	ctx = s.logg.WithBakery(ctx, name)
	decision := engine.ResolveWishlistToggle(rows, name)
	switch decision.Action {
	case enums.WishlistActionRemove:
		if err := s.store.Delete(ctx, decision.Seq); err != nil {
			return ToggleResult{}, err
		}
	default:
		row := engine.ActivityRow{
			BakeryName:  name,
			Flavor:      engine.WishlistFlavor,
			Category:    enums.CategoryUser,
			User:        strings.TrimSpace(user),
			Rating:      engine.WishlistSentinel,
			Date:        s.now().UTC(),
			LastUpdated: s.now().UTC(),
		}
		if err := s.store.Append(ctx, row); err != nil {
			return ToggleResult{}, err
		}
	}

	s.logg.Info(ctx, "wishlist toggled")
	return ToggleResult{BakeryName: name, Action: decision.Action}, nil
}

// Restock appends a merchant stock row after checking the bakery's
// shared key. The compare is constant-time and a mismatch looks
// exactly like any other forbidden request.
func (s *service) Restock(ctx context.Context, input RestockInput) error {
	name := strings.TrimSpace(input.BakeryName)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "bakery name is required")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}

	rows, err := s.store.FetchAll(ctx)
	if err != nil {
		return err
	}

	expected := registeredKey(rows, name)
	provided := strings.TrimSpace(input.BakeryKey)
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) != 1 {
		return pkgerrors.New(pkgerrors.CodeForbidden, "bakery key mismatch")
	}

	known, _ := knownLocation(rows, name)
	row := engine.ActivityRow{
		BakeryName:  name,
		Category:    enums.CategoryMerchant,
		Stock:       input.Stock,
		Lat:         known.Lat,
		Lon:         known.Lon,
		Address:     knownAddress(rows, name),
		Date:        s.now().UTC(),
		LastUpdated: s.now().UTC(),
	}

	ctx = s.logg.WithBakery(ctx, name)
	if err := s.store.Append(ctx, row); err != nil {
		return err
	}
	s.logg.Info(ctx, "merchant restock recorded")
	return nil
}

// AddBakery registers a new listing. The address must geocode and the
// name must be unused; the generated merchant key is returned once.
func (s *service) AddBakery(ctx context.Context, input ListingInput) (ListingResult, error) {
	name := strings.TrimSpace(input.BakeryName)
	if name == "" {
		return ListingResult{}, pkgerrors.New(pkgerrors.CodeValidation, "bakery name is required")
	}

	rows, err := s.store.FetchAll(ctx)
	if err != nil {
		return ListingResult{}, err
	}
	for _, row := range rows {
		if row.BakeryName == name {
			return ListingResult{}, pkgerrors.New(pkgerrors.CodeConflict, "bakery already listed")
		}
	}

	location, addr, err := s.resolveNewBakery(ctx, name, input.Address)
	if err != nil {
		return ListingResult{}, err
	}

	key := uuid.NewString()
	row := engine.ActivityRow{
		BakeryName:  name,
		PhotoURL:    strings.TrimSpace(input.PhotoURL),
		Address:     addr,
		Lat:         location.Lat,
		Lon:         location.Lon,
		Category:    enums.CategoryBakery,
		BakeryKey:   key,
		Date:        s.now().UTC(),
		LastUpdated: s.now().UTC(),
	}

	ctx = s.logg.WithBakery(ctx, name)
	if err := s.store.Append(ctx, row); err != nil {
		return ListingResult{}, err
	}
	s.logg.Info(ctx, "bakery listed")

	return ListingResult{
		BakeryName: name,
		BakeryKey:  key,
		Lat:        location.Lat,
		Lon:        location.Lon,
	}, nil
}

// UploadPhoto pushes the image to the host and returns its public URL
// for attaching to a subsequent submission.
func (s *service) UploadPhoto(ctx context.Context, data []byte) (string, error) {
	if s.images == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "image host not configured")
	}
	return s.images.Upload(ctx, data)
}

func (s *service) resolveNewBakery(ctx context.Context, name, address string) (geocode.Location, string, error) {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return geocode.Location{}, "", pkgerrors.New(pkgerrors.CodeValidation, "address is required for a new bakery")
	}
	location, err := s.geocoder.Lookup(ctx, addr)
	if err != nil {
		s.logg.Warn(s.logg.WithBakery(ctx, name), "geocode lookup failed")
		return geocode.Location{}, "", err
	}
	return location, addr, nil
}

func knownLocation(rows []engine.ActivityRow, name string) (geocode.Location, bool) {
	for _, row := range rows {
		if row.BakeryName == name && row.HasGeo() {
			return geocode.Location{Lat: row.Lat, Lon: row.Lon}, true
		}
	}
	return geocode.Location{}, false
}

func knownAddress(rows []engine.ActivityRow, name string) string {
	address := ""
	for _, row := range rows {
		if row.BakeryName == name && row.Address != "" {
			address = row.Address
		}
	}
	return address
}

func registeredKey(rows []engine.ActivityRow, name string) string {
	key := ""
	for _, row := range rows {
		if row.BakeryName == name && row.BakeryKey != "" {
			key = row.BakeryKey
		}
	}
	return key
}
