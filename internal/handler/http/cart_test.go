package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salamchy/furniture/internal/domain"
	"github.com/salamchy/furniture/internal/event"
	redisrepo "github.com/salamchy/furniture/internal/repository/redis"
	"github.com/salamchy/furniture/internal/service"
	"github.com/salamchy/furniture/pkg/httputil"
	pkgkafka "github.com/salamchy/furniture/pkg/kafka"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	// Unreachable broker: publish failures are logged and ignored, which is
	// exactly the production behavior under a kafka outage.
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:1"}), logger)
	return event.NewProducer(producer, logger)
}

// setupCartRouter runs the cart routes against a real repository backed by
// miniredis, including the CartID cookie middleware, so the whole
// cookie-to-slot path is exercised.
func setupCartRouter(t *testing.T) (*chi.Mux, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := redisrepo.NewCartRepository(client, 24*time.Hour, testLogger())
	svc := service.NewCartService(repo, testEventProducer(), testLogger())
	handler := NewCartHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(CartID(false))
		r.Use(ContentTypeJSON)

		r.Get("/", handler.Get)
		r.Delete("/", handler.Clear)

		r.Post("/items", handler.AddItem)
		r.Put("/items/{itemId}", handler.UpdateQuantity)
		r.Post("/items/{itemId}/increment", handler.IncrementQuantity)
		r.Post("/items/{itemId}/decrement", handler.DecrementQuantity)
		r.Delete("/items/{itemId}", handler.RemoveItem)
	})
	return r, mr
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// decodeCommandResult re-marshals the envelope's Data into a CommandResult.
func decodeCommandResult(t *testing.T, rec *httptest.ResponseRecorder) CommandResult {
	t.Helper()
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result CommandResult
	require.NoError(t, json.Unmarshal(raw, &result))
	return result
}

func addItemJSON(productID string, quantity, stock int) []byte {
	b, _ := json.Marshal(AddItemRequest{
		ProductID: productID,
		Name:      "Oak Table",
		Price:     decimal.RequireFromString("149.99"),
		Image:     "https://img.example.com/oak-table.jpg",
		Category:  "table",
		Stock:     stock,
		Quantity:  quantity,
	})
	return b
}

// cartCookie extracts the cart cookie set by the middleware.
func cartCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CartCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", CartCookieName)
	return nil
}

func TestGetCart_MintsCookieAndReturnsEmptyCart(t *testing.T) {
	router, _ := setupCartRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := cartCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.NotEmpty(t, cookie.Value)

	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var view CartView
	require.NoError(t, json.Unmarshal(raw, &view))
	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.ItemCount)
	assert.True(t, view.Subtotal.IsZero())
}

func TestAddItem_PersistsAcrossRequests(t *testing.T) {
	router, _ := setupCartRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(addItemJSON("prod-1", 2, 5)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeCommandResult(t, rec)
	assert.Equal(t, domain.OutcomeApplied, result.Outcome)
	require.Len(t, result.Cart.Items, 1)
	assert.Equal(t, 2, result.Cart.Items[0].Quantity)

	cookie := cartCookie(t, rec)

	// A second request with the same cookie sees the saved cart.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var view CartView
	require.NoError(t, json.Unmarshal(raw, &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "prod-1", view.Items[0].ProductID)
	assert.Equal(t, 2, view.ItemCount)
	assert.Equal(t, "299.98", view.Subtotal.String())
}

func TestAddItem_SameProductMergesLine(t *testing.T) {
	router, _ := setupCartRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(addItemJSON("prod-1", 2, 5)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := cartCookie(t, rec)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(addItemJSON("prod-1", 2, 5)))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeCommandResult(t, rec)
	assert.Equal(t, domain.OutcomeApplied, result.Outcome)
	require.Len(t, result.Cart.Items, 1)
	assert.Equal(t, 4, result.Cart.Items[0].Quantity)
}

func TestAddItem_InvalidJSON(t *testing.T) {
	router, _ := setupCartRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte(`{invalid json`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestAddItem_MissingProductID(t *testing.T) {
	router, _ := setupCartRouter(t)

	body, _ := json.Marshal(map[string]any{"name": "Oak Table", "quantity": 1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestAddItem_DefaultsQuantityToOne(t *testing.T) {
	router, _ := setupCartRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(addItemJSON("prod-1", 0, 5)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeCommandResult(t, rec)
	require.Len(t, result.Cart.Items, 1)
	assert.Equal(t, 1, result.Cart.Items[0].Quantity)
}

func TestUpdateQuantity_ClampsToStock(t *testing.T) {
	router, _ := setupCartRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(addItemJSON("prod-1", 1, 3)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := cartCookie(t, rec)
	itemID := decodeCommandResult(t, rec).Cart.Items[0].ID

	body, _ := json.Marshal(UpdateQuantityRequest{Quantity: 10})
	req = httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/"+itemID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeCommandResult(t, rec)
	assert.Equal(t, domain.OutcomeClamped, result.Outcome)
	assert.Equal(t, 3, result.Cart.Items[0].Quantity)
}

func TestIncrementQuantity_AtCeilingIsNoOp(t *testing.T) {
	router, _ := setupCartRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(addItemJSON("prod-1", 2, 2)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := cartCookie(t, rec)
	itemID := decodeCommandResult(t, rec).Cart.Items[0].ID

	req = httptest.NewRequest(http.MethodPost, "/api/v1/cart/items/"+itemID+"/increment", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeCommandResult(t, rec)
	assert.Equal(t, domain.OutcomeNoOpAtCeiling, result.Outcome)
	assert.Equal(t, 2, result.Cart.Items[0].Quantity)
}

func TestDecrementQuantity_AtOneRemovesLine(t *testing.T) {
	router, _ := setupCartRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(addItemJSON("prod-1", 1, 5)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := cartCookie(t, rec)
	itemID := decodeCommandResult(t, rec).Cart.Items[0].ID

	req = httptest.NewRequest(http.MethodPost, "/api/v1/cart/items/"+itemID+"/decrement", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeCommandResult(t, rec)
	assert.Equal(t, domain.OutcomeApplied, result.Outcome)
	assert.Empty(t, result.Cart.Items)
}

func TestRemoveItem_UnknownLineIsNoOp(t *testing.T) {
	router, _ := setupCartRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/no-such-line", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeCommandResult(t, rec)
	assert.Equal(t, domain.OutcomeNoOpNotFound, result.Outcome)
}

func TestClearCart_DeletesSlot(t *testing.T) {
	router, mr := setupCartRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(addItemJSON("prod-1", 2, 5)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := cartCookie(t, rec)
	require.True(t, mr.Exists("cart:"+cookie.Value))

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeCommandResult(t, rec)
	assert.Equal(t, domain.OutcomeApplied, result.Outcome)
	assert.Empty(t, result.Cart.Items)
	assert.False(t, mr.Exists("cart:"+cookie.Value))
}

func TestCartID_InvalidCookieValueIsReplaced(t *testing.T) {
	router, _ := setupCartRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: CartCookieName, Value: "not-a-uuid"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := cartCookie(t, rec)
	assert.NotEqual(t, "not-a-uuid", cookie.Value)
}
