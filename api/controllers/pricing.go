package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lromero-dev/altiplano-backend/api/responses"
	"github.com/lromero-dev/altiplano-backend/api/validators"
	"github.com/lromero-dev/altiplano-backend/internal/pricing"
	pkgerrors "github.com/lromero-dev/altiplano-backend/pkg/errors"
	"github.com/lromero-dev/altiplano-backend/pkg/logger"
)

type repriceRequest struct {
	Items []repriceRequestItem `json:"items" validate:"required,min=1,dive"`
}

type repriceRequestItem struct {
	VariantID string `json:"variant_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// RepriceCart prices a raw cart against the live catalog and returns the
// signed snapshot the order endpoints consume.
func RepriceCart(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req repriceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := pricing.RepriceInput{Items: make([]pricing.RepriceItem, 0, len(req.Items))}
		for _, item := range req.Items {
			variantID, err := uuid.Parse(item.VariantID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variant id"))
				return
			}
			input.Items = append(input.Items, pricing.RepriceItem{
				VariantID: variantID,
				Quantity:  item.Quantity,
			})
		}

		snapshot, err := svc.Reprice(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}
