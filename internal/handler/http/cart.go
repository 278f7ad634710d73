package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/salamchy/furniture/internal/domain"
	"github.com/salamchy/furniture/internal/service"
	apperrors "github.com/salamchy/furniture/pkg/errors"
	"github.com/salamchy/furniture/pkg/httputil"
	"github.com/salamchy/furniture/pkg/validator"
)

// CartHandler handles HTTP requests for the cart.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{service: svc, logger: logger}
}

// AddItemRequest is the JSON request body for adding an item. It carries
// the product snapshot the line item captures.
type AddItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Category  string          `json:"category"`
	Stock     int             `json:"stock"`
	Quantity  int             `json:"quantity"`
}

// UpdateQuantityRequest is the JSON request body for setting a quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartView is the cart representation returned to clients, with the
// derived aggregates precomputed.
type CartView struct {
	Items     []domain.CartLineItem `json:"items"`
	ItemCount int                   `json:"item_count"`
	Subtotal  decimal.Decimal       `json:"subtotal"`
}

// CommandResult pairs the updated cart with the command outcome. No-ops
// are reported here rather than as HTTP errors.
type CommandResult struct {
	Outcome domain.Outcome `json:"outcome"`
	Cart    CartView       `json:"cart"`
}

func cartView(cart *domain.Cart) CartView {
	items := cart.Items
	if items == nil {
		items = []domain.CartLineItem{}
	}
	return CartView{
		Items:     items,
		ItemCount: cart.ItemCount(),
		Subtotal:  cart.Subtotal(),
	}
}

// Get handles GET /api/v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("missing cart cookie"), h.logger)
		return
	}

	cart := h.service.Get(r.Context(), cartID)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cartView(cart)})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("missing cart cookie"), h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, outcome, err := h.service.AddItem(r.Context(), cartID, service.AddItemInput{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Image:     req.Image,
		Category:  req.Category,
		Stock:     req.Stock,
		Quantity:  req.Quantity,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CommandResult{Outcome: outcome, Cart: cartView(cart)}})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{itemId}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("missing cart cookie"), h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	cart, outcome := h.service.UpdateQuantity(r.Context(), cartID, chi.URLParam(r, "itemId"), req.Quantity)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CommandResult{Outcome: outcome, Cart: cartView(cart)}})
}

// IncrementQuantity handles POST /api/v1/cart/items/{itemId}/increment
func (h *CartHandler) IncrementQuantity(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("missing cart cookie"), h.logger)
		return
	}

	cart, outcome := h.service.IncrementQuantity(r.Context(), cartID, chi.URLParam(r, "itemId"))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CommandResult{Outcome: outcome, Cart: cartView(cart)}})
}

// DecrementQuantity handles POST /api/v1/cart/items/{itemId}/decrement
func (h *CartHandler) DecrementQuantity(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("missing cart cookie"), h.logger)
		return
	}

	cart, outcome := h.service.DecrementQuantity(r.Context(), cartID, chi.URLParam(r, "itemId"))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CommandResult{Outcome: outcome, Cart: cartView(cart)}})
}

// RemoveItem handles DELETE /api/v1/cart/items/{itemId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("missing cart cookie"), h.logger)
		return
	}

	cart, outcome := h.service.RemoveItem(r.Context(), cartID, chi.URLParam(r, "itemId"))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CommandResult{Outcome: outcome, Cart: cartView(cart)}})
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("missing cart cookie"), h.logger)
		return
	}

	cart, outcome := h.service.Clear(r.Context(), cartID)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CommandResult{Outcome: outcome, Cart: cartView(cart)}})
}
