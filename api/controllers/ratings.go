package controllers

import (
	"net/http"

	"github.com/matthurstrsa-droid/fastelavn/api/responses"
	"github.com/matthurstrsa-droid/fastelavn/api/validators"
	"github.com/matthurstrsa-droid/fastelavn/internal/submissions"
	pkgerrors "github.com/matthurstrsa-droid/fastelavn/pkg/errors"
	"github.com/matthurstrsa-droid/fastelavn/pkg/logger"
	"github.com/shopspring/decimal"
)

type createRatingPayload struct {
	BakeryName string  `json:"bakery_name" validate:"required,min=1,max=120"`
	Flavor     string  `json:"flavor" validate:"omitempty,max=120"`
	Rating     float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Price      float64 `json:"price" validate:"omitempty,gte=0"`
	User       string  `json:"user" validate:"omitempty,max=120"`
	Comment    string  `json:"comment" validate:"omitempty,max=500"`
	PhotoURL   string  `json:"photo_url" validate:"omitempty,url"`
	Address    string  `json:"address" validate:"omitempty,max=250"`
}

// RatingsCreate appends one rating row. Double-clicks are deduped by
// the idempotency middleware in front of this route.
func RatingsCreate(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
			return
		}

		var payload createRatingPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err := svc.SubmitRating(ctx, submissions.RatingInput{
			BakeryName: payload.BakeryName,
			Flavor:     payload.Flavor,
			Rating:     payload.Rating,
			Price:      decimal.NewFromFloat(payload.Price),
			User:       payload.User,
			Comment:    payload.Comment,
			PhotoURL:   payload.PhotoURL,
			Address:    payload.Address,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]bool{"submitted": true})
	}
}
