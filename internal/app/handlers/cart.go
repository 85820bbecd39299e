package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/marketplace-shop/internal/domain/models"
	"github.com/linemk/marketplace-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/marketplace-shop/internal/service"
	"github.com/shopspring/decimal"
)

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse корзина вместе с итогом
type CartResponse struct {
	Lines []models.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
	Count int               `json:"count"`
}

func newCartResponse(c models.Cart) CartResponse {
	lines := c.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	return CartResponse{Lines: lines, Total: c.Total(), Count: c.Len()}
}

// viewerFrom достаёт пользователя, которого положил JWT middleware
func viewerFrom(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (models.Viewer, bool) {
	viewer, ok := jwtmiddleware.FromContext(r.Context())
	if !ok {
		logger.Error("viewer not found in context")
		writeError(w, logger, http.StatusUnauthorized, "unauthorized")
		return models.Viewer{}, false
	}
	return viewer, true
}

// GetCartHandler обрабатывает GET /api/cart
func GetCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCartHandler"
		logger := log.With(slog.String("op", op))

		viewer, ok := viewerFrom(w, r, logger)
		if !ok {
			return
		}

		c, err := cartService.Get(r.Context(), viewer)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, newCartResponse(c))
	}
}

// AddCartItemHandler обрабатывает POST /api/cart/items
func AddCartItemHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddCartItemHandler"
		logger := log.With(slog.String("op", op))

		viewer, ok := viewerFrom(w, r, logger)
		if !ok {
			return
		}

		var req AddCartItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}

		c, err := cartService.AddItem(r.Context(), viewer, req.ProductID)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, newCartResponse(c))
	}
}

// SetCartItemHandler обрабатывает PUT /api/cart/items/{productID}.
// Количество меньше 1 корзина игнорирует, поэтому такой запрос не ошибка.
func SetCartItemHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SetCartItemHandler"
		logger := log.With(slog.String("op", op))

		viewer, ok := viewerFrom(w, r, logger)
		if !ok {
			return
		}

		productID := chi.URLParam(r, "productID")
		if productID == "" {
			logger.Error("productID parameter is missing")
			writeError(w, logger, http.StatusBadRequest, "productID parameter is required")
			return
		}

		var req SetQuantityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}

		c, err := cartService.SetQuantity(r.Context(), viewer, productID, req.Quantity)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, newCartResponse(c))
	}
}

// RemoveCartItemHandler обрабатывает DELETE /api/cart/items/{productID}
func RemoveCartItemHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RemoveCartItemHandler"
		logger := log.With(slog.String("op", op))

		viewer, ok := viewerFrom(w, r, logger)
		if !ok {
			return
		}

		productID := chi.URLParam(r, "productID")
		if productID == "" {
			logger.Error("productID parameter is missing")
			writeError(w, logger, http.StatusBadRequest, "productID parameter is required")
			return
		}

		c, err := cartService.RemoveItem(r.Context(), viewer, productID)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, newCartResponse(c))
	}
}

// RefreshCartHandler обрабатывает POST /api/cart/refresh
func RefreshCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RefreshCartHandler"
		logger := log.With(slog.String("op", op))

		viewer, ok := viewerFrom(w, r, logger)
		if !ok {
			return
		}

		c, err := cartService.Refresh(r.Context(), viewer)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, newCartResponse(c))
	}
}

// ClearCartHandler обрабатывает DELETE /api/cart
func ClearCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ClearCartHandler"
		logger := log.With(slog.String("op", op))

		viewer, ok := viewerFrom(w, r, logger)
		if !ok {
			return
		}

		c, err := cartService.Clear(r.Context(), viewer)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, newCartResponse(c))
	}
}
