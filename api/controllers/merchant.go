package controllers

import (
	"net/http"
	"strings"

	"github.com/matthurstrsa-droid/fastelavn/api/responses"
	"github.com/matthurstrsa-droid/fastelavn/api/validators"
	"github.com/matthurstrsa-droid/fastelavn/internal/submissions"
	pkgerrors "github.com/matthurstrsa-droid/fastelavn/pkg/errors"
	"github.com/matthurstrsa-droid/fastelavn/pkg/logger"
)

const bakeryKeyHeader = "X-Bakery-Key"

type restockPayload struct {
	BakeryName string `json:"bakery_name" validate:"required,min=1,max=120"`
	Stock      int    `json:"stock" validate:"gte=0"`
}

// MerchantRestock records a stock update authenticated by the
// bakery's shared key header.
func MerchantRestock(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submissions service unavailable"))
			return
		}

		key := strings.TrimSpace(r.Header.Get(bakeryKeyHeader))
		if key == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "bakery key required"))
			return
		}

		var payload restockPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err := svc.Restock(ctx, submissions.RestockInput{
			BakeryName: payload.BakeryName,
			BakeryKey:  key,
			Stock:      payload.Stock,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"restocked": true})
	}
}
