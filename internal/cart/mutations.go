// Package cart содержит операции над корзиной покупателя и её хранилище.
// Все операции чистые: принимают текущую корзину и возвращают новую, не изменяя исходную.
package cart

import "github.com/linemk/marketplace-shop/internal/domain/models"

// AddItem добавляет товар в корзину. Если позиция уже есть, количество увеличивается на 1,
// но не выше MaxQuantity (на потолке операция ничего не делает). Новая позиция получает
// количество 1 и потолок, равный остатку товара в момент добавления; товар без остатка не добавляется.
func AddItem(c models.Cart, p models.Product) models.Cart {
	next := c.Clone()
	for i := range next.Lines {
		if next.Lines[i].ProductID != p.ID {
			continue
		}
		if next.Lines[i].Quantity < next.Lines[i].MaxQuantity {
			next.Lines[i].Quantity++
		}
		return next
	}
	if p.Quantity < 1 {
		return next
	}

	next.Lines = append(next.Lines, models.CartLine{
		ProductID:   p.ID,
		Name:        p.Name,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		SellerID:    p.SellerID,
		Quantity:    1,
		MaxQuantity: p.Quantity,
	})
	return next
}

// SetQuantity задаёт количество позиции. Значения меньше 1 игнорируются,
// остальные ограничиваются сверху MaxQuantity.
func SetQuantity(c models.Cart, productID string, quantity int) models.Cart {
	next := c.Clone()
	if quantity < 1 {
		return next
	}
	for i := range next.Lines {
		if next.Lines[i].ProductID == productID {
			next.Lines[i].Quantity = min(quantity, next.Lines[i].MaxQuantity)
		}
	}
	return next
}

// RemoveItem удаляет позицию, если она есть
func RemoveItem(c models.Cart, productID string) models.Cart {
	next := models.Cart{}
	for _, l := range c.Lines {
		if l.ProductID != productID {
			next.Lines = append(next.Lines, l)
		}
	}
	return next
}

// Clear возвращает пустую корзину
func Clear() models.Cart {
	return models.Cart{}
}

// Refresh переписывает потолки позиций по актуальным остаткам (stock: productID -> остаток).
// Позиции, товара которых больше нет или он закончился, удаляются; количество
// ограничивается новым потолком.
func Refresh(c models.Cart, stock map[string]int) models.Cart {
	next := models.Cart{}
	for _, l := range c.Lines {
		available, ok := stock[l.ProductID]
		if !ok || available < 1 {
			continue
		}
		l.MaxQuantity = available
		l.Quantity = min(l.Quantity, available)
		next.Lines = append(next.Lines, l)
	}
	return next
}

// Shortages возвращает товары, которых на складе меньше, чем лежит в корзине
func Shortages(c models.Cart, stock map[string]int) []string {
	var ids []string
	for _, l := range c.Lines {
		if available, ok := stock[l.ProductID]; !ok || l.Quantity > available {
			ids = append(ids, l.ProductID)
		}
	}
	return ids
}
