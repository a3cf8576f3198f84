package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matthurstrsa-droid/fastelavn/api/responses"
	"github.com/matthurstrsa-droid/fastelavn/internal/submissions"
	pkgerrors "github.com/matthurstrsa-droid/fastelavn/pkg/errors"
	"github.com/matthurstrsa-droid/fastelavn/pkg/logger"
)

type toggleWishlistPayload struct {
	User string `json:"user"`
}

// WishlistToggle flips a bakery's wishlist state and reports which way
// it resolved.
func WishlistToggle(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
			return
		}

		name := strings.TrimSpace(chi.URLParam(r, "name"))
		if name == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "bakery name is required"))
			return
		}

		// Body is optional; an empty toggle is anonymous.
		var payload toggleWishlistPayload
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&payload)
		}

		result, err := svc.ToggleWishlist(ctx, name, payload.User)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
