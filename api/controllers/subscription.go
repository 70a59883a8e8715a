package controllers

import (
	"net/http"

	"github.com/tiendalopez/pos-backend/api/responses"
	"github.com/tiendalopez/pos-backend/internal/subscription"
	"github.com/tiendalopez/pos-backend/pkg/logger"
)

// SubscriptionGet serves the business account's billing state.
func SubscriptionGet(svc *subscription.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Get(r.Context()))
	}
}

// SubscriptionPayments serves the billing history.
func SubscriptionPayments(svc *subscription.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"payments": svc.Payments(r.Context())})
	}
}
