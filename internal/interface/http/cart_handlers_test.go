package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	dompayment "example.com/gameshop/internal/domain/payment"
)

func addItem(t *testing.T, env *testEnv, slug, token string) (map[string]any, string) {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/cart/items", map[string]string{"slug": slug}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	if issued := rec.Header().Get(cartTokenHeader); issued != "" {
		token = issued
	}
	return decodeBody(t, rec), token
}

func TestCart_NewSessionIssuesToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/cart", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Header().Get(cartTokenHeader)
	require.NotEmpty(t, token)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, cartCookieName, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)

	body := decodeBody(t, rec)
	require.Equal(t, []any{}, body["items"])
	require.Equal(t, float64(0), body["totalCount"])
}

func TestCart_InvalidTokenStartsFreshCart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/cart", nil, "garbage")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(cartTokenHeader))
}

func TestCart_CookieIsAccepted(t *testing.T) {
	env := newTestEnv(t)
	_, token := addItem(t, env, "game-a", "")

	req := newJSONRequest(t, http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: cartCookieName, Value: token})
	rec := serve(env, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get(cartTokenHeader), "valid cookie must not mint a new cart")
	require.Equal(t, float64(1), decodeBody(t, rec)["totalCount"])
}

func TestCart_ScenarioA(t *testing.T) {
	env := newTestEnv(t)

	_, token := addItem(t, env, "game-a", "")
	addItem(t, env, "game-a", token)
	body, _ := addItem(t, env, "game-b", token)

	items := body["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	require.Equal(t, "Game A", first["title"])
	require.Equal(t, float64(2000), first["priceCents"])
	require.Equal(t, float64(2), first["qty"])
	require.Equal(t, "Switch", first["category"])
	require.Equal(t, float64(3), body["totalCount"])
	require.Equal(t, float64(5500), body["totalCents"])
	require.Equal(t, "55.00", body["total"])
}

func TestCart_AddUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/cart/items", map[string]string{"slug": "nope"}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/cart/items", map[string]string{}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCart_UpdateAndRemove(t *testing.T) {
	env := newTestEnv(t)
	_, token := addItem(t, env, "game-a", "")
	addItem(t, env, "game-b", token)

	rec := env.do(t, http.MethodPatch, "/api/cart/items/0", map[string]int64{"delta": 2}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(4), decodeBody(t, rec)["totalCount"])

	rec = env.do(t, http.MethodPatch, "/api/cart/items/1", map[string]int64{"delta": -1}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Len(t, body["items"], 1, "a line dropping to zero is removed")

	rec = env.do(t, http.MethodDelete, "/api/cart/items/0", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []any{}, decodeBody(t, rec)["items"])
}

func TestCart_UpdateValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := addItem(t, env, "game-a", "")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{name: "index out of range", method: http.MethodPatch, path: "/api/cart/items/5", body: map[string]int64{"delta": 1}, status: http.StatusNotFound},
		{name: "negative index", method: http.MethodDelete, path: "/api/cart/items/-1", status: http.StatusNotFound},
		{name: "non numeric index", method: http.MethodDelete, path: "/api/cart/items/abc", status: http.StatusBadRequest},
		{name: "zero delta", method: http.MethodPatch, path: "/api/cart/items/0", body: map[string]int64{"delta": 0}, status: http.StatusBadRequest},
		{name: "delta above limit", method: http.MethodPatch, path: "/api/cart/items/0", body: map[string]int64{"delta": 1000}, status: http.StatusBadRequest},
		{name: "delta below limit", method: http.MethodPatch, path: "/api/cart/items/0", body: map[string]int64{"delta": -1000}, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.body, token)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestCart_HugeDeltaDoesNotChangeCharge(t *testing.T) {
	env := newTestEnv(t)
	_, token := addItem(t, env, "game-a", "")

	rec := env.do(t, http.MethodPatch, "/api/cart/items/0", map[string]int64{"delta": 913113831648622804}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/cart", nil, token)
	body := decodeBody(t, rec)
	require.Equal(t, float64(1), body["totalCount"])
	require.Equal(t, float64(2000), body["totalCents"])

	rec = env.do(t, http.MethodPost, "/api/cart/checkout", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, env.provider.created, 1)
	require.Equal(t, "20.00", env.provider.created[0].Amount.Value)
}

func TestCart_QuantityLimit(t *testing.T) {
	env := newTestEnv(t)
	_, token := addItem(t, env, "game-a", "")

	rec := env.do(t, http.MethodPatch, "/api/cart/items/0", map[string]int64{"delta": 998}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, float64(999), decodeBody(t, rec)["totalCount"])

	rec = env.do(t, http.MethodPatch, "/api/cart/items/0", map[string]int64{"delta": 1}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/cart/items", map[string]string{"slug": "game-a"}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/cart", nil, token)
	require.Equal(t, float64(999), decodeBody(t, rec)["totalCount"])
}

func TestCart_Clear(t *testing.T) {
	env := newTestEnv(t)
	_, token := addItem(t, env, "game-a", "")

	rec := env.do(t, http.MethodDelete, "/api/cart", nil, token)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(0), decodeBody(t, rec)["totalCount"])
}

func TestCheckout_ClearsCartAndReturnsURL(t *testing.T) {
	env := newTestEnv(t)
	_, token := addItem(t, env, "game-a", "")
	addItem(t, env, "game-a", token)
	addItem(t, env, "game-b", token)

	rec := env.do(t, http.MethodPost, "/api/cart/checkout", map[string]any{"customer": map[string]any{"email": "a@b.c"}}, token)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "https://pay.example/checkout/tr_test123", decodeBody(t, rec)["checkoutUrl"])
	require.Len(t, env.provider.created, 1)
	require.Equal(t, "55.00", env.provider.created[0].Amount.Value)
	require.Equal(t, "a@b.c", env.provider.created[0].Metadata.Customer.Email())

	rec = env.do(t, http.MethodGet, "/api/cart", nil, token)
	require.Equal(t, float64(0), decodeBody(t, rec)["totalCount"])
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/cart/checkout", nil, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, env.provider.created)
}

func TestCheckout_ScenarioB_CartKept(t *testing.T) {
	env := newTestEnv(t)
	env.provider.createRes = &paymentProviderNoLink
	_, token := addItem(t, env, "game-a", "")

	rec := env.do(t, http.MethodPost, "/api/cart/checkout", map[string]any{}, token)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, errPaymentUnavailable.Error(), decodeBody(t, rec)["error"])

	rec = env.do(t, http.MethodGet, "/api/cart", nil, token)
	require.Equal(t, float64(1), decodeBody(t, rec)["totalCount"])
}

func TestCheckout_MissingAPIKey(t *testing.T) {
	env := newTestEnv(t, withAPIKey(""))
	_, token := addItem(t, env, "game-a", "")

	rec := env.do(t, http.MethodPost, "/api/cart/checkout", map[string]any{}, token)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, dompayment.ErrMissingAPIKey.Error(), decodeBody(t, rec)["error"])
}
