package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matthurstrsa-droid/fastelavn/internal/bakeries"
	"github.com/matthurstrsa-droid/fastelavn/internal/submissions"
	"github.com/matthurstrsa-droid/fastelavn/pkg/config"
	"github.com/matthurstrsa-droid/fastelavn/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubBakeriesService struct{}

func (stubBakeriesService) Checklist(context.Context) ([]bakeries.BakeryDTO, error) {
	return nil, nil
}

func (stubBakeriesService) MapView(context.Context) ([]bakeries.MarkerDTO, error) {
	return nil, nil
}

func (stubBakeriesService) Leaderboard(context.Context, int) ([]bakeries.LeaderboardEntryDTO, error) {
	return nil, nil
}

func (stubBakeriesService) BestValue(context.Context) (*bakeries.ValueDTO, error) {
	return nil, nil
}

func (stubBakeriesService) Detail(context.Context, string) (bakeries.DetailDTO, error) {
	return bakeries.DetailDTO{}, nil
}

type stubSubmissionsService struct{}

func (stubSubmissionsService) SubmitRating(context.Context, submissions.RatingInput) error {
	return nil
}

func (stubSubmissionsService) ToggleWishlist(context.Context, string, string) (submissions.ToggleResult, error) {
	return submissions.ToggleResult{}, nil
}

func (stubSubmissionsService) Restock(context.Context, submissions.RestockInput) error {
	return nil
}

func (stubSubmissionsService) AddBakery(context.Context, submissions.ListingInput) (submissions.ListingResult, error) {
	return submissions.ListingResult{}, nil
}

func (stubSubmissionsService) UploadPhoto(context.Context, []byte) (string, error) {
	return "", nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewRouter(cfg, logg, stubPinger{}, nil, nil, stubBakeriesService{}, stubSubmissionsService{})
}

func TestRouterRegistersRoutes(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/health/live"},
		{http.MethodGet, "/api/v1/bakeries"},
		{http.MethodGet, "/api/v1/bakeries/map"},
		{http.MethodGet, "/api/v1/bakeries/Andersen"},
		{http.MethodGet, "/api/v1/leaderboard"},
		{http.MethodGet, "/api/v1/value"},
		{http.MethodPost, "/api/v1/wishlist/Andersen/toggle"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(tc.method, tc.path, nil)
		router.ServeHTTP(w, r)
		if w.Code == http.StatusNotFound || w.Code == http.StatusMethodNotAllowed {
			t.Fatalf("%s %s is not routed (status %d)", tc.method, tc.path, w.Code)
		}
	}
}

func TestRouterHealthReady(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	router.ServeHTTP(w, r)

	// Redis is not wired in this test, so readiness reports degraded.
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without redis, got %d", w.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	router.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
