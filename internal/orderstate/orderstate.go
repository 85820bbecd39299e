// Package orderstate описывает допустимые переходы статуса заказа:
// pending -> confirmed -> completed. Откатов и пропусков нет, переводит заказ только его продавец.
package orderstate

import (
	"fmt"

	"github.com/linemk/marketplace-shop/internal/domain/errs"
	"github.com/linemk/marketplace-shop/internal/domain/models"
)

// Action действие над заказом, доступное пользователю
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionComplete Action = "complete"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionConfirm, ActionComplete:
		return a, nil
	default:
		return "", errs.Invalid("unknown action %q", s)
	}
}

// Target статус, в который переводит действие
func Target(a Action) models.OrderStatus {
	switch a {
	case ActionConfirm:
		return models.OrderStatusConfirmed
	case ActionComplete:
		return models.OrderStatusCompleted
	}
	return ""
}

// Next следующий статус; у терминального статуса следующего нет
func Next(s models.OrderStatus) (models.OrderStatus, bool) {
	switch s {
	case models.OrderStatusPending:
		return models.OrderStatusConfirmed, true
	case models.OrderStatusConfirmed:
		return models.OrderStatusCompleted, true
	case models.OrderStatusCompleted:
		return "", false
	}
	return "", false
}

func actionFor(target models.OrderStatus) (Action, bool) {
	switch target {
	case models.OrderStatusConfirmed:
		return ActionConfirm, true
	case models.OrderStatusCompleted:
		return ActionComplete, true
	case models.OrderStatusPending:
		return "", false
	}
	return "", false
}

// canDrive может ли пользователь двигать статус заказа
func canDrive(o models.Order, v models.Viewer) bool {
	switch v.Role {
	case models.RoleSeller:
		return v.ID != "" && v.ID == o.SellerID
	case models.RoleBuyer, models.RoleAdmin:
		return false
	}
	return false
}

// Check проверяет переход заказа в статус target от лица пользователя v
func Check(o models.Order, v models.Viewer, target models.OrderStatus) error {
	next, ok := Next(o.Status)
	if !ok || next != target {
		return fmt.Errorf("%w: %s -> %s", errs.ErrIllegalTransition, o.Status, target)
	}
	if !canDrive(o, v) {
		return fmt.Errorf("%w: %s is not the seller of order %s", errs.ErrIllegalTransition, v.Role, o.ID)
	}
	return nil
}

// Allowed действия, доступные пользователю над заказом (ноль или одно)
func Allowed(o models.Order, v models.Viewer) []Action {
	if !canDrive(o, v) {
		return nil
	}
	next, ok := Next(o.Status)
	if !ok {
		return nil
	}
	a, ok := actionFor(next)
	if !ok {
		return nil
	}
	return []Action{a}
}
