// Package rolegate решает, что пользователь видит в заказе и что может с ним сделать.
package rolegate

import (
	"github.com/linemk/marketplace-shop/internal/domain/models"
	"github.com/linemk/marketplace-shop/internal/orderstate"
)

// VisibleTo предикат видимости: заказ виден покупателю и продавцу из заказа
func VisibleTo(viewerID string) func(models.Order) bool {
	return func(o models.Order) bool {
		if viewerID == "" {
			return false
		}
		return o.BuyerID == viewerID || o.SellerID == viewerID
	}
}

// Filter оставляет только видимые пользователю заказы, сохраняя порядок
func Filter(views []models.OrderView, viewerID string) []models.OrderView {
	visible := VisibleTo(viewerID)
	out := make([]models.OrderView, 0, len(views))
	for _, v := range views {
		if visible(v.Order) {
			out = append(out, v)
		}
	}
	return out
}

// ActionsFor допустимые действия пользователя над заказом
func ActionsFor(o models.Order, viewer models.Viewer) []orderstate.Action {
	return orderstate.Allowed(o, viewer)
}

// PanelKind чьи контакты показываются пользователю
type PanelKind string

const (
	PanelSeller PanelKind = "seller"
	PanelBuyer  PanelKind = "buyer"
)

// Panel карточка контрагента в заказе
type Panel struct {
	Kind  PanelKind `json:"kind"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// CounterpartFor выбирает карточку контрагента по роли: покупатель видит продавца
// (бренд, а если его нет, имя), продавец видит покупателя. Админу карточка не положена.
func CounterpartFor(v models.OrderView, role models.Role) (Panel, bool) {
	switch role {
	case models.RoleBuyer:
		if v.Seller == nil {
			return Panel{Kind: PanelSeller}, true
		}
		name := v.Seller.BrandName
		if name == "" {
			name = v.Seller.Name
		}
		return Panel{Kind: PanelSeller, Name: name, Email: v.Seller.Email}, true
	case models.RoleSeller:
		if v.Buyer == nil {
			return Panel{Kind: PanelBuyer}, true
		}
		return Panel{Kind: PanelBuyer, Name: v.Buyer.Name, Email: v.Buyer.Email}, true
	case models.RoleAdmin:
		return Panel{}, false
	}
	return Panel{}, false
}
