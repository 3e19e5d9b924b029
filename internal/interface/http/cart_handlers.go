package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	domcart "example.com/gameshop/internal/domain/cart"
	dompayment "example.com/gameshop/internal/domain/payment"
	"example.com/gameshop/internal/logging"
)

type addCartItemRequest struct {
	Slug string `json:"slug" validate:"required,max=200"`
}

type updateCartItemRequest struct {
	Delta int64 `json:"delta" validate:"required,ne=0,min=-999,max=999"`
}

type checkoutRequest struct {
	Customer map[string]any `json:"customer"`
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	c := a.cartSvc.Get(r.Context(), getCartID(r.Context()))
	writeJSON(w, http.StatusOK, mapCart(c))
}

// handleAddCartItem takes title, price, image and category from the catalog,
// never from the client.
func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	p, err := a.catalogSvc.FindBySlug(r.Context(), req.Slug)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	c, err := a.cartSvc.Add(r.Context(), getCartID(r.Context()), domcart.Input{
		Slug:       p.Slug(),
		Title:      p.Title,
		PriceCents: p.PriceCents(),
		Image:      p.ImageRef(),
		Category:   p.CategoryLabel(),
	})
	a.respondCart(w, r, c, err)
}

func (a *API) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndexParam(r, "index")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req updateCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	c, err := a.cartSvc.SetQuantity(r.Context(), getCartID(r.Context()), index, req.Delta)
	a.respondCart(w, r, c, err)
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	index, err := parseIndexParam(r, "index")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	c, err := a.cartSvc.Remove(r.Context(), getCartID(r.Context()), index)
	a.respondCart(w, r, c, err)
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	c, err := a.cartSvc.Clear(r.Context(), getCartID(r.Context()))
	a.respondCart(w, r, c, err)
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if r.ContentLength != 0 {
		if err := a.decodeAndValidate(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
	}

	session, err := a.checkoutSvc.Checkout(r.Context(), getCartID(r.Context()), dompayment.Customer(req.Customer))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"checkoutUrl": session.CheckoutURL})
}

// respondCart renders the cart after a mutation. A failed save still answers
// with the updated cart: the shopper keeps going and the failure is logged.
func (a *API) respondCart(w http.ResponseWriter, r *http.Request, c domcart.Cart, err error) {
	if err != nil {
		if !errors.Is(err, domcart.ErrPersist) {
			handleDomainError(w, r, err)
			return
		}
		logging.FromContext(r.Context()).Warn("cart_persist_failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, mapCart(c))
}
