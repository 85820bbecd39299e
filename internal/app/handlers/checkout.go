package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linemk/marketplace-shop/internal/domain/models"
	"github.com/linemk/marketplace-shop/internal/service"
)

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=bank_transfer cash"`
}

// CheckoutHandler обрабатывает POST /api/checkout: вся корзина превращается в заказы
func CheckoutHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		viewer, ok := viewerFrom(w, r, logger)
		if !ok {
			return
		}

		var req CheckoutRequest
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

		receipt, err := checkoutService.Checkout(r.Context(), viewer, models.PaymentMethod(req.PaymentMethod))
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, receipt)
	}
}
