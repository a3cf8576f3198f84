package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matthurstrsa-droid/fastelavn/api/controllers"
	"github.com/matthurstrsa-droid/fastelavn/api/middleware"
	"github.com/matthurstrsa-droid/fastelavn/internal/bakeries"
	"github.com/matthurstrsa-droid/fastelavn/internal/submissions"
	"github.com/matthurstrsa-droid/fastelavn/pkg/config"
	"github.com/matthurstrsa-droid/fastelavn/pkg/db"
	"github.com/matthurstrsa-droid/fastelavn/pkg/logger"
	pkgredis "github.com/matthurstrsa-droid/fastelavn/pkg/redis"
)

type writeGuardStore interface {
	pkgredis.IdempotencyStore
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	bakeriesService bakeries.Service,
	submissionsService submissions.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var guard writeGuardStore
	if redisClient != nil {
		guard = redisClient
	}

	var cachePinger pkgredis.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cachePinger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/bakeries", controllers.BakeriesChecklist(bakeriesService, logg))
		r.Get("/bakeries/map", controllers.BakeriesMap(bakeriesService, logg))
		r.Get("/bakeries/{name}", controllers.BakeryDetail(bakeriesService, logg))
		r.Get("/leaderboard", controllers.Leaderboard(bakeriesService, logg))
		r.Get("/value", controllers.BestValue(bakeriesService, logg))

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.WriteRateLimit(cfg.RateLimit, guard, logg),
				middleware.Idempotency(guard, cfg.Store.IdempotencyTTL, logg),
			)
			r.Post("/ratings", controllers.RatingsCreate(submissionsService, logg))
			r.Post("/wishlist/{name}/toggle", controllers.WishlistToggle(submissionsService, logg))
			r.Post("/merchant/restock", controllers.MerchantRestock(submissionsService, logg))
			r.Post("/bakeries", controllers.BakeriesCreate(submissionsService, logg))
			r.Post("/photos", controllers.PhotosUpload(submissionsService, logg))
		})
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	return r
}
