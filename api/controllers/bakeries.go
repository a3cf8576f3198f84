package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matthurstrsa-droid/fastelavn/api/responses"
	"github.com/matthurstrsa-droid/fastelavn/api/validators"
	"github.com/matthurstrsa-droid/fastelavn/internal/bakeries"
	"github.com/matthurstrsa-droid/fastelavn/internal/submissions"
	pkgerrors "github.com/matthurstrsa-droid/fastelavn/pkg/errors"
	"github.com/matthurstrsa-droid/fastelavn/pkg/logger"
)

type createBakeryPayload struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Address  string `json:"address" validate:"required,min=3,max=250"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url"`
}

// BakeriesChecklist returns every bakery with derived status and stats.
func BakeriesChecklist(svc bakeries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bakeries service unavailable"))
			return
		}

		entries, err := svc.Checklist(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// BakeriesMap returns map markers for bakeries with coordinates.
func BakeriesMap(svc bakeries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bakeries service unavailable"))
			return
		}

		markers, err := svc.MapView(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, markers)
	}
}

// BakeryDetail returns one bakery including its flavor options.
func BakeryDetail(svc bakeries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bakeries service unavailable"))
			return
		}

		name := strings.TrimSpace(chi.URLParam(r, "name"))
		if name == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "bakery name is required"))
			return
		}

		detail, err := svc.Detail(ctx, name)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// BakeriesCreate registers a new bakery listing.
func BakeriesCreate(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
			return
		}

		var payload createBakeryPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.AddBakery(ctx, submissions.ListingInput{
			BakeryName: payload.Name,
			Address:    payload.Address,
			PhotoURL:   payload.PhotoURL,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
