package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/linemk/marketplace-shop/internal/cart"
	"github.com/linemk/marketplace-shop/internal/checkout"
	"github.com/linemk/marketplace-shop/internal/domain/errs"
	"github.com/linemk/marketplace-shop/internal/domain/models"
	"github.com/linemk/marketplace-shop/internal/inflight"
	"github.com/linemk/marketplace-shop/internal/storage"
)

type CheckoutService interface {
	Checkout(ctx context.Context, viewer models.Viewer, method models.PaymentMethod) (*models.Receipt, error)
}

type checkoutService struct {
	log         *slog.Logger
	carts       CartStore
	productRepo storage.ProductStorage
	orderRepo   storage.OrderStorage
	guard       *inflight.Guard
}

func NewCheckoutService(log *slog.Logger, carts CartStore, productRepo storage.ProductStorage, orderRepo storage.OrderStorage, guard *inflight.Guard) CheckoutService {
	return &checkoutService{
		log:         log,
		carts:       carts,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		guard:       guard,
	}
}

// Checkout оформляет всю корзину: по заказу на позицию, одним пакетом.
// Корзина очищается только если записались все заказы; при ошибке она остаётся как была.
func (s *checkoutService) Checkout(ctx context.Context, viewer models.Viewer, method models.PaymentMethod) (*models.Receipt, error) {
	const op = "service.CheckoutService.Checkout"
	logger := s.log.With(slog.String("op", op), slog.String("buyerID", viewer.ID), slog.String("paymentMethod", string(method)))

	if err := requireBuyer(viewer); err != nil {
		logger.Warn("access denied", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := s.carts.Key(viewer.ID)
	release, ok := s.guard.TryAcquire(key)
	if !ok {
		logger.Warn("checkout already in progress")
		return nil, fmt.Errorf("%s: %w", op, errs.ErrInFlight)
	}
	defer release()

	current := s.carts.Load(ctx, key)
	if current.IsEmpty() {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrEmptyCart)
	}
	if _, err := models.ParsePaymentMethod(string(method)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, errs.Invalid("unknown payment method %q", method))
	}

	logger.Info("starting checkout", slog.Int("lines", current.Len()))

	// Сверяем корзину с актуальными остатками: потолки в корзине могли устареть
	stock, err := s.productRepo.GetStockByIDs(ctx, checkout.ProductIDs(current))
	if err != nil {
		logger.Error("failed to get stock", slog.Any("error", err))
		return nil, persistenceError(op, "failed to get stock", err)
	}
	// корзину не трогаем: покупатель обновляет её явно через CartService.Refresh
	if short := cart.Shortages(current, stock); len(short) > 0 {
		logger.Warn("cart is stale", slog.Any("products", short))
		return nil, fmt.Errorf("%s: %w: %v", op, errs.ErrStaleCart, short)
	}

	batchID := uuid.New()
	ids, err := s.orderRepo.InsertOrders(ctx, checkout.BuildRequests(current, batchID, viewer.ID, method))
	if err != nil {
		logger.Error("failed to create orders", slog.Any("error", err))
		return nil, persistenceError(op, "failed to create orders", err)
	}

	receipt := &models.Receipt{
		BatchID:       batchID,
		OrderIDs:      ids,
		GrandTotal:    checkout.GrandTotal(current),
		PaymentMethod: method,
		Lines:         current.Len(),
	}

	// Заказы уже записаны, поэтому ошибка очистки корзины только логируется
	if err := s.carts.Save(ctx, key, cart.Clear()); err != nil {
		logger.Error("orders created but cart was not cleared", slog.Any("error", err))
	}

	logger.Info("checkout completed successfully",
		slog.String("batchID", receipt.BatchID.String()),
		slog.String("grandTotal", receipt.GrandTotal.StringFixed(2)),
	)
	return receipt, nil
}
