package http

import (
	"errors"
	"net/http"
	"strings"
)

var errMissingPaymentID = errors.New("missing or malformed payment id")

// handleWebhook answers provider callbacks. Only the id is trusted; the status
// is always looked up at the provider.
func (a *API) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if err := a.paymentSvc.Ready(); err != nil {
		handleDomainError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	id := strings.TrimSpace(r.PostForm.Get("id"))
	if err := a.validator.Var(id, "required,max=128,excludesall=/?#%"); err != nil {
		respondError(w, http.StatusBadRequest, errMissingPaymentID)
		return
	}

	if _, err := a.webhookSvc.HandleNotification(r.Context(), id); err != nil {
		handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
