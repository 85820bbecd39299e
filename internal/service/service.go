package service

import (
	"context"
	"fmt"

	"github.com/linemk/marketplace-shop/internal/domain/errs"
	"github.com/linemk/marketplace-shop/internal/domain/models"
)

// CartStore хранилище корзин, с которым работают сервисы
type CartStore interface {
	Key(ownerID string) string
	Load(ctx context.Context, key string) models.Cart
	Save(ctx context.Context, key string, c models.Cart) error
}

// requireBuyer корзина и оформление заказов доступны только покупателю
func requireBuyer(v models.Viewer) error {
	switch v.Role {
	case models.RoleBuyer:
		if v.ID == "" {
			return fmt.Errorf("%w: anonymous buyer", errs.ErrUnauthorized)
		}
		return nil
	case models.RoleSeller, models.RoleAdmin:
		return fmt.Errorf("%w: role %s cannot use cart", errs.ErrUnauthorized, v.Role)
	}
	return fmt.Errorf("%w: unknown role %q", errs.ErrUnauthorized, v.Role)
}

func persistenceError(op string, what string, err error) error {
	return fmt.Errorf("%s: %s: %w: %w", op, what, errs.ErrPersistence, err)
}
