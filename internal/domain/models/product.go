package models

import "github.com/shopspring/decimal"

// Product товар из каталога. Quantity это остаток на складе.
type Product struct {
	ID       string          `json:"id"`
	SellerID string          `json:"seller_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
	Quantity int             `json:"quantity"`
}
