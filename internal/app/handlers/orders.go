package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/marketplace-shop/internal/orderstate"
	"github.com/linemk/marketplace-shop/internal/service"
)

type OrdersResponse struct {
	Orders []service.OrderCard `json:"orders"`
}

// ListOrdersHandler обрабатывает GET /api/orders
func ListOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		viewer, ok := viewerFrom(w, r, logger)
		if !ok {
			return
		}

		cards, err := orderService.ListForViewer(r.Context(), viewer)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		if cards == nil {
			cards = []service.OrderCard{}
		}
		writeJSON(w, logger, http.StatusOK, OrdersResponse{Orders: cards})
	}
}

// TransitionOrderHandler обрабатывает POST /api/orders/{orderID}/{action}
func TransitionOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.TransitionOrderHandler"
		logger := log.With(slog.String("op", op))

		viewer, ok := viewerFrom(w, r, logger)
		if !ok {
			return
		}

		orderID := chi.URLParam(r, "orderID")
		if orderID == "" {
			logger.Error("orderID parameter is missing")
			writeError(w, logger, http.StatusBadRequest, "orderID parameter is required")
			return
		}

		action, err := orderstate.ParseAction(chi.URLParam(r, "action"))
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		order, err := orderService.Transition(r.Context(), viewer, orderID, action)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, order)
	}
}
