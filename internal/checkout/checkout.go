// Package checkout превращает корзину в набор запросов на создание заказов:
// по одному заказу на позицию, так как позиции могут принадлежать разным продавцам.
package checkout

import (
	"github.com/google/uuid"
	"github.com/linemk/marketplace-shop/internal/domain/models"
	"github.com/shopspring/decimal"
)

// BuildRequests строит запросы на создание заказов в статусе pending.
// TotalPrice каждой строки = цена позиции * количество. Все строки получают один batchID.
func BuildRequests(c models.Cart, batchID uuid.UUID, buyerID string, method models.PaymentMethod) []models.OrderCreateRequest {
	reqs := make([]models.OrderCreateRequest, 0, c.Len())
	for _, l := range c.Lines {
		reqs = append(reqs, models.OrderCreateRequest{
			BatchID:       batchID,
			BuyerID:       buyerID,
			SellerID:      l.SellerID,
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			TotalPrice:    l.Subtotal(),
			PaymentMethod: method,
			Status:        models.OrderStatusPending,
		})
	}
	return reqs
}

// GrandTotal итоговая сумма корзины для отображения в чеке
func GrandTotal(c models.Cart) decimal.Decimal {
	return c.Total()
}

// ProductIDs идентификаторы товаров корзины (для сверки остатков)
func ProductIDs(c models.Cart) []string {
	ids := make([]string, 0, c.Len())
	for _, l := range c.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}
