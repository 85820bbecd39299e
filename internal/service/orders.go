package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/marketplace-shop/internal/domain/errs"
	"github.com/linemk/marketplace-shop/internal/domain/models"
	"github.com/linemk/marketplace-shop/internal/inflight"
	"github.com/linemk/marketplace-shop/internal/orderstate"
	"github.com/linemk/marketplace-shop/internal/rolegate"
	"github.com/linemk/marketplace-shop/internal/storage"
)

// OrderService чтение заказов пользователя и перевод их по статусам.
type OrderService interface {
	ListForViewer(ctx context.Context, viewer models.Viewer) ([]OrderCard, error)
	Transition(ctx context.Context, viewer models.Viewer, orderID string, action orderstate.Action) (*models.Order, error)
}

type orderService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
	guard     *inflight.Guard
}

func NewOrderService(log *slog.Logger, orderRepo storage.OrderStorage, guard *inflight.Guard) OrderService {
	return &orderService{
		log:       log,
		orderRepo: orderRepo,
		guard:     guard,
	}
}

// OrderCard заказ в том виде, в каком его видит конкретный пользователь
type OrderCard struct {
	models.OrderView
	Actions     []orderstate.Action `json:"actions"`
	Counterpart *rolegate.Panel     `json:"counterpart,omitempty"`
}

// ListForViewer возвращает заказы, где пользователь покупатель или продавец,
// вместе с доступными ему действиями и карточкой контрагента.
func (s *orderService) ListForViewer(ctx context.Context, viewer models.Viewer) ([]OrderCard, error) {
	const op = "service.OrderService.ListForViewer"
	s.log.Info("getting orders", slog.String("op", op), slog.String("viewerID", viewer.ID))

	views, err := s.orderRepo.GetOrdersForViewer(ctx, viewer.ID)
	if err != nil {
		s.log.Error("failed to get orders", slog.String("op", op), slog.Any("error", err))
		return nil, persistenceError(op, "failed to get orders", err)
	}

	views = rolegate.Filter(views, viewer.ID)
	cards := make([]OrderCard, 0, len(views))
	for _, v := range views {
		card := OrderCard{
			OrderView: v,
			Actions:   rolegate.ActionsFor(v.Order, viewer),
		}
		if panel, ok := rolegate.CounterpartFor(v, viewer.Role); ok {
			card.Counterpart = &panel
		}
		if card.Actions == nil {
			card.Actions = []orderstate.Action{}
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// Transition применяет действие к заказу. Статус меняется одним UPDATE;
// при ошибке хранилища локально ничего не считается изменённым.
func (s *orderService) Transition(ctx context.Context, viewer models.Viewer, orderID string, action orderstate.Action) (*models.Order, error) {
	const op = "service.OrderService.Transition"
	logger := s.log.With(
		slog.String("op", op),
		slog.String("viewerID", viewer.ID),
		slog.String("orderID", orderID),
		slog.String("action", string(action)),
	)

	target := orderstate.Target(action)
	if target == "" {
		return nil, fmt.Errorf("%s: %w", op, errs.Invalid("unknown action %q", action))
	}

	release, ok := s.guard.TryAcquire("order:" + orderID)
	if !ok {
		logger.Warn("transition already in progress")
		return nil, fmt.Errorf("%s: %w", op, errs.ErrInFlight)
	}
	defer release()

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, fmt.Errorf("%s: %w: %w", op, errs.ErrNotFound, err)
		}
		logger.Error("failed to get order", slog.Any("error", err))
		return nil, persistenceError(op, "failed to get order", err)
	}

	// чужие заказы выглядят как несуществующие, но переход для них всё равно недопустим
	if !rolegate.VisibleTo(viewer.ID)(*order) {
		logger.Warn("order is not visible to viewer")
		return nil, fmt.Errorf("%s: %w: %w: %w", op, errs.ErrNotFound, errs.ErrIllegalTransition, storage.ErrOrderNotFound)
	}

	if err := orderstate.Check(*order, viewer, target); err != nil {
		logger.Warn("illegal transition", slog.String("status", string(order.Status)), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, order.ID, order.Status, target); err != nil {
		if errors.Is(err, storage.ErrStatusConflict) {
			logger.Warn("order status changed concurrently")
			return nil, fmt.Errorf("%s: %w: %w", op, errs.ErrIllegalTransition, err)
		}
		logger.Error("failed to update order status", slog.Any("error", err))
		return nil, persistenceError(op, "failed to update order status", err)
	}

	order.Status = target
	logger.Info("order status updated", slog.String("status", string(target)))
	return order, nil
}
