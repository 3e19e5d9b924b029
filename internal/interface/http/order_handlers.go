package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	domorder "example.com/gameshop/internal/domain/order"
	paymentuc "example.com/gameshop/internal/usecase/payment"
)

// handleGetOrder lets the thank-you page show what was paid for. Customer
// details stay out of the response.
func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := a.orderSvc.Get(r.Context(), chi.URLParam(r, "paymentID"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func mapOrder(o *domorder.Order) map[string]any {
	return map[string]any{
		"paymentId":  o.PaymentID,
		"status":     o.Status,
		"items":      o.Items,
		"totalCents": o.AmountCents,
		"total":      paymentuc.FormatAmount(o.AmountCents),
		"currency":   o.Currency,
		"createdAt":  o.CreatedAt.Format(time.RFC3339),
	}
}
