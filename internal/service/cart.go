package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/marketplace-shop/internal/cart"
	"github.com/linemk/marketplace-shop/internal/checkout"
	"github.com/linemk/marketplace-shop/internal/domain/errs"
	"github.com/linemk/marketplace-shop/internal/domain/models"
	"github.com/linemk/marketplace-shop/internal/storage"
	"golang.org/x/sync/singleflight"
)

// CartService операции с корзиной покупателя. Каждая мутация сохраняет корзину до возврата.
type CartService interface {
	Get(ctx context.Context, viewer models.Viewer) (models.Cart, error)
	AddItem(ctx context.Context, viewer models.Viewer, productID string) (models.Cart, error)
	SetQuantity(ctx context.Context, viewer models.Viewer, productID string, quantity int) (models.Cart, error)
	RemoveItem(ctx context.Context, viewer models.Viewer, productID string) (models.Cart, error)
	Clear(ctx context.Context, viewer models.Viewer) (models.Cart, error)
	Refresh(ctx context.Context, viewer models.Viewer) (models.Cart, error)
}

type cartService struct {
	log         *slog.Logger
	carts       CartStore
	productRepo storage.ProductStorage
	sfg         singleflight.Group // объединяет параллельные запросы одного товара
}

func NewCartService(log *slog.Logger, carts CartStore, productRepo storage.ProductStorage) CartService {
	return &cartService{
		log:         log,
		carts:       carts,
		productRepo: productRepo,
	}
}

func (s *cartService) Get(ctx context.Context, viewer models.Viewer) (models.Cart, error) {
	if err := requireBuyer(viewer); err != nil {
		return models.Cart{}, fmt.Errorf("service.CartService.Get: %w", err)
	}
	return s.carts.Load(ctx, s.carts.Key(viewer.ID)), nil
}

// AddItem добавляет товар из каталога в корзину
func (s *cartService) AddItem(ctx context.Context, viewer models.Viewer, productID string) (models.Cart, error) {
	const op = "service.CartService.AddItem"
	logger := s.log.With(slog.String("op", op), slog.String("buyerID", viewer.ID), slog.String("productID", productID))

	if err := requireBuyer(viewer); err != nil {
		logger.Warn("access denied", slog.Any("error", err))
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	product, err := s.product(ctx, productID)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return models.Cart{}, fmt.Errorf("%s: %w: %w", op, errs.ErrNotFound, err)
		}
		logger.Error("failed to get product", slog.Any("error", err))
		return models.Cart{}, persistenceError(op, "failed to get product", err)
	}
	if product.Quantity < 1 {
		return models.Cart{}, fmt.Errorf("%s: %w", op, errs.Invalid("product %s is out of stock", productID))
	}

	return s.mutate(ctx, op, viewer, func(c models.Cart) models.Cart {
		return cart.AddItem(c, *product)
	})
}

func (s *cartService) SetQuantity(ctx context.Context, viewer models.Viewer, productID string, quantity int) (models.Cart, error) {
	const op = "service.CartService.SetQuantity"
	if err := requireBuyer(viewer); err != nil {
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.mutate(ctx, op, viewer, func(c models.Cart) models.Cart {
		return cart.SetQuantity(c, productID, quantity)
	})
}

func (s *cartService) RemoveItem(ctx context.Context, viewer models.Viewer, productID string) (models.Cart, error) {
	const op = "service.CartService.RemoveItem"
	if err := requireBuyer(viewer); err != nil {
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.mutate(ctx, op, viewer, func(c models.Cart) models.Cart {
		return cart.RemoveItem(c, productID)
	})
}

func (s *cartService) Clear(ctx context.Context, viewer models.Viewer) (models.Cart, error) {
	const op = "service.CartService.Clear"
	if err := requireBuyer(viewer); err != nil {
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.mutate(ctx, op, viewer, func(models.Cart) models.Cart {
		return cart.Clear()
	})
}

// Refresh сверяет корзину с остатками на складе: потолки позиций обновляются,
// закончившиеся товары убираются. Оформление устаревшей корзины само её не меняет.
func (s *cartService) Refresh(ctx context.Context, viewer models.Viewer) (models.Cart, error) {
	const op = "service.CartService.Refresh"
	logger := s.log.With(slog.String("op", op), slog.String("buyerID", viewer.ID))

	if err := requireBuyer(viewer); err != nil {
		logger.Warn("access denied", slog.Any("error", err))
		return models.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	key := s.carts.Key(viewer.ID)
	current := s.carts.Load(ctx, key)
	if current.IsEmpty() {
		return current, nil
	}

	stock, err := s.productRepo.GetStockByIDs(ctx, checkout.ProductIDs(current))
	if err != nil {
		logger.Error("failed to get stock", slog.Any("error", err))
		return models.Cart{}, persistenceError(op, "failed to get stock", err)
	}

	next := cart.Refresh(current, stock)
	if err := s.carts.Save(ctx, key, next); err != nil {
		logger.Error("failed to save cart", slog.Any("error", err))
		return models.Cart{}, persistenceError(op, "failed to save cart", err)
	}
	logger.Info("cart refreshed", slog.Int("before", current.Len()), slog.Int("after", next.Len()))
	return next, nil
}

// mutate загружает корзину, применяет изменение и синхронно сохраняет результат
func (s *cartService) mutate(ctx context.Context, op string, viewer models.Viewer, fn func(models.Cart) models.Cart) (models.Cart, error) {
	key := s.carts.Key(viewer.ID)
	next := fn(s.carts.Load(ctx, key))
	if err := s.carts.Save(ctx, key, next); err != nil {
		s.log.Error("failed to save cart", slog.String("op", op), slog.String("key", key), slog.Any("error", err))
		return models.Cart{}, persistenceError(op, "failed to save cart", err)
	}
	return next, nil
}

// product читает товар один раз на группу параллельных запросов. Общий запрос
// не зависит от отмены контекста первого вызывающего, каждый ждёт его со своим ctx.
func (s *cartService) product(ctx context.Context, productID string) (*models.Product, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.sfg.DoChan(productID, func() (interface{}, error) {
		return s.productRepo.GetProductByID(shared, productID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Product), nil
	}
}
