package controllers

import (
	"net/http"

	"github.com/lromero-dev/altiplano-backend/api/responses"
	"github.com/lromero-dev/altiplano-backend/api/validators"
	"github.com/lromero-dev/altiplano-backend/internal/payments"
	"github.com/lromero-dev/altiplano-backend/pkg/logger"
)

// QRCallback ingests the settlement notification posted by the QR payment
// gateway. The order reference travels in the payload's additionalData field.
func QRCallback(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload payments.QRCallbackPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.HandleQRCallback(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{
			"order_id": order.ID.String(),
			"status":   string(order.Status),
		})
	}
}
