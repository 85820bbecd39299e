package models

import "github.com/shopspring/decimal"

// CartLine позиция корзины. Ключ: ProductID.
// Инвариант: 1 <= Quantity <= MaxQuantity.
type CartLine struct {
	ProductID   string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	SellerID    string          `json:"seller_id"`
	Quantity    int             `json:"quantity"`
	MaxQuantity int             `json:"max_quantity"` // остаток товара на момент добавления
}

// Subtotal стоимость позиции: цена * количество
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart корзина покупателя. Порядок позиций значения не имеет.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c Cart) Len() int {
	return len(c.Lines)
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Line возвращает позицию по идентификатору товара
func (c Cart) Line(productID string) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}

// Total сумма по всем позициям корзины
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Clone возвращает копию корзины, не разделяющую слайс с исходной
func (c Cart) Clone() Cart {
	if c.Lines == nil {
		return Cart{}
	}
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}
