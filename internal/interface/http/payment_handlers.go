package http

import (
	"net/http"

	dompayment "example.com/gameshop/internal/domain/payment"
)

type lineItemRequest struct {
	Title      string `json:"title" validate:"max=500"`
	PriceCents int64  `json:"priceCents" validate:"max=100000000"`
	Quantity   int64  `json:"qty" validate:"max=999"`
	Image      string `json:"image"`
	Slug       string `json:"slug"`
	Category   string `json:"category"`
}

type createPaymentRequest struct {
	Items    []lineItemRequest `json:"items" validate:"max=200,dive"`
	Customer map[string]any    `json:"customer"`
}

// handleCreatePayment starts a payment for a client-held cart. Item prices are
// taken as declared, but the total is always recomputed server-side.
func (a *API) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	if err := a.paymentSvc.Ready(); err != nil {
		handleDomainError(w, r, err)
		return
	}

	var req createPaymentRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	items := make([]dompayment.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, dompayment.LineItem(it))
	}

	session, err := a.paymentSvc.CreateSession(r.Context(), items, dompayment.Customer(req.Customer))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"checkoutUrl": session.CheckoutURL})
}
