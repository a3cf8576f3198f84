package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/matthurstrsa-droid/fastelavn/api/responses"
	"github.com/matthurstrsa-droid/fastelavn/internal/bakeries"
	pkgerrors "github.com/matthurstrsa-droid/fastelavn/pkg/errors"
	"github.com/matthurstrsa-droid/fastelavn/pkg/logger"
)

// The podium shows three; a bigger board is opt-in via ?n=.
const defaultLeaderboardSize = 3

const maxLeaderboardSize = 50

// Leaderboard returns the top-n rated bakeries.
func Leaderboard(svc bakeries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bakeries service unavailable"))
			return
		}

		n := defaultLeaderboardSize
		if raw := strings.TrimSpace(r.URL.Query().Get("n")); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil || value <= 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "n must be a positive integer"))
				return
			}
			if value > maxLeaderboardSize {
				value = maxLeaderboardSize
			}
			n = value
		}

		entries, err := svc.Leaderboard(ctx, n)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// BestValue returns the current best-value bakery, if one exists.
func BestValue(svc bakeries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bakeries service unavailable"))
			return
		}

		best, err := svc.BestValue(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if best == nil {
			responses.WriteSuccess(w, map[string]any{"best_value": nil})
			return
		}
		responses.WriteSuccess(w, map[string]any{"best_value": best})
	}
}
