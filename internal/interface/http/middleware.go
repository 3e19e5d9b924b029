package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"example.com/gameshop/internal/logging"
)

const (
	cartCookieName  = "gse_cart"
	cartTokenHeader = "X-Cart-Token"
)

type ctxCartKey struct{}

// observability extracts W3C trace context, injects a request-scoped logger and
// records HTTP metrics under the matched route pattern.
func (a *API) observability(next http.Handler) http.Handler {
	prop := otel.GetTextMapPropagator()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		rid := chimw.GetReqID(ctx)
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", rid)

		fields := []zap.Field{zap.String("request_id", rid)}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				zap.String("trace_id", sc.TraceID().String()),
				zap.String("span_id", sc.SpanID().String()),
			)
		}
		reqLogger := a.logger.With(fields...)
		ctx = logging.ContextWithLogger(ctx, reqLogger)

		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(float64(elapsed.Milliseconds()))

		reqLogger.Info("http_request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", elapsed),
		)
	})
}

// cartSession resolves the anonymous cart id from the cart token. A missing or
// invalid token gets a fresh cart id, returned as cookie and header.
func (a *API) cartSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get(cartTokenHeader))
		if token == "" {
			if c, err := r.Cookie(cartCookieName); err == nil {
				token = c.Value
			}
		}

		var cartID string
		if token != "" {
			id, err := a.cartTokens.ParseCartToken(token)
			if err == nil {
				cartID = id
			} else {
				logging.FromContext(r.Context()).Debug("cart_token_rejected", zap.Error(err))
			}
		}

		if cartID == "" {
			cartID = uuid.NewString()
			issued, err := a.cartTokens.IssueCartToken(cartID)
			if err != nil {
				handleDomainError(w, r, err)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     cartCookieName,
				Value:    issued,
				Path:     "/",
				MaxAge:   int(a.cartTokens.Expiration().Seconds()),
				HttpOnly: true,
				Secure:   a.secureCookie,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(cartTokenHeader, issued)
		}

		ctx := context.WithValue(r.Context(), ctxCartKey{}, cartID)
		ctx = logging.ContextWithLogger(ctx, logging.FromContext(ctx).With(zap.String("cart_id", cartID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getCartID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxCartKey{}).(string); ok {
		return id
	}
	return ""
}
