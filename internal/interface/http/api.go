package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	domcart "example.com/gameshop/internal/domain/cart"
	domorder "example.com/gameshop/internal/domain/order"
	dompayment "example.com/gameshop/internal/domain/payment"
	domproduct "example.com/gameshop/internal/domain/product"
	"example.com/gameshop/internal/logging"
	cartuc "example.com/gameshop/internal/usecase/cart"
	cataloguc "example.com/gameshop/internal/usecase/catalog"
	checkoutuc "example.com/gameshop/internal/usecase/checkout"
	orderuc "example.com/gameshop/internal/usecase/order"
	paymentuc "example.com/gameshop/internal/usecase/payment"
	webhookuc "example.com/gameshop/internal/usecase/webhook"
)

// CartTokens signs and verifies the cart session token.
type CartTokens interface {
	IssueCartToken(cartID string) (string, error)
	ParseCartToken(token string) (string, error)
	Expiration() time.Duration
}

type API struct {
	catalogSvc   *cataloguc.Service
	cartSvc      *cartuc.Service
	checkoutSvc  *checkoutuc.Service
	paymentSvc   *paymentuc.Service
	webhookSvc   *webhookuc.Service
	orderSvc     *orderuc.Service
	cartTokens   CartTokens
	logger       *zap.Logger
	validator    *validator.Validate
	secureCookie bool
}

type Dependencies struct {
	CatalogService  *cataloguc.Service
	CartService     *cartuc.Service
	CheckoutService *checkoutuc.Service
	PaymentService  *paymentuc.Service
	WebhookService  *webhookuc.Service
	OrderService    *orderuc.Service
	CartTokens      CartTokens
	Logger          *zap.Logger
	// SecureCookie marks the cart cookie Secure; set it when served over https.
	SecureCookie bool
}

func NewAPI(deps Dependencies) *API {
	validate := validator.New()
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		catalogSvc:   deps.CatalogService,
		cartSvc:      deps.CartService,
		checkoutSvc:  deps.CheckoutService,
		paymentSvc:   deps.PaymentService,
		webhookSvc:   deps.WebhookService,
		orderSvc:     deps.OrderService,
		cartTokens:   deps.CartTokens,
		logger:       logger,
		validator:    validate,
		secureCookie: deps.SecureCookie,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(a.observability)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/orders", a.handleOrdersHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Group(func(jr chi.Router) {
			jr.Use(chimw.AllowContentType("application/json", "text/plain"))

			jr.Get("/products", a.handleListProducts)
			jr.Get("/products/{slug}", a.handleGetProduct)
			jr.Get("/categories", a.handleListCategories)

			jr.Post("/create-payment", a.handleCreatePayment)
			jr.Get("/orders/{paymentID}", a.handleGetOrder)

			jr.Group(func(cr chi.Router) {
				cr.Use(a.cartSession)
				cr.Get("/cart", a.handleGetCart)
				cr.Delete("/cart", a.handleClearCart)
				cr.Post("/cart/items", a.handleAddCartItem)
				cr.Patch("/cart/items/{index}", a.handleUpdateCartItem)
				cr.Delete("/cart/items/{index}", a.handleRemoveCartItem)
				cr.Post("/cart/checkout", a.handleCheckout)
			})
		})

		r.Group(func(fr chi.Router) {
			fr.Use(chimw.AllowContentType("application/x-www-form-urlencoded"))
			fr.Post("/webhook", a.handleWebhook)
		})
	})

	return r
}

func (a *API) handleOrdersHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.orderSvc.Ping(ctx); err != nil {
		logging.FromContext(ctx).Warn("order_store_unhealthy", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

var errPaymentUnavailable = errors.New("payment could not be started, please try again")

func parseIndexParam(r *http.Request, key string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, key))
}

func mapProduct(p domproduct.Product) map[string]any {
	return map[string]any{
		"title":      p.Title,
		"slug":       p.Slug(),
		"price":      p.Price.StringFixed(2),
		"priceCents": p.PriceCents(),
		"image":      p.ImageRef(),
		"category":   p.CategoryLabel(),
	}
}

func mapCart(c domcart.Cart) map[string]any {
	items := c.Items
	if items == nil {
		items = []domcart.Item{}
	}
	total := c.TotalMinorUnits()
	return map[string]any{
		"items":      items,
		"totalCount": c.TotalCount(),
		"totalCents": total,
		"total":      paymentuc.FormatAmount(total),
	}
}

func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context())
	switch {
	case errors.Is(err, dompayment.ErrMissingAPIKey):
		logger.Error("payment_provider_not_configured", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err)
	case errors.Is(err, dompayment.ErrGateway):
		logger.Error("payment_gateway_error", zap.Error(err))
		respondError(w, http.StatusBadGateway, errPaymentUnavailable)
	case errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domcart.ErrItemNotFound),
		errors.Is(err, domorder.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domcart.ErrEmptyCart),
		errors.Is(err, dompayment.ErrInvalidTotal),
		errors.Is(err, dompayment.ErrInvalidPaymentID),
		errors.Is(err, domcart.ErrInvalidItem),
		errors.Is(err, domcart.ErrLimitExceeded):
		respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, domproduct.ErrCatalogFormat):
		logger.Error("catalog_unreadable", zap.Error(err))
		respondError(w, http.StatusBadGateway, errors.New("catalog unavailable"))
	default:
		logger.Error("request_failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}
