package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus статус заказа: pending -> confirmed -> completed
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted
}

// PaymentMethod способ оплаты заказа
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCash         PaymentMethod = "cash"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentBankTransfer, PaymentCash:
		return m, nil
	default:
		return "", fmt.Errorf("unknown payment method %q", s)
	}
}

// Order заказ по одной позиции корзины. TotalPrice фиксируется при создании и не пересчитывается.
type Order struct {
	ID            string          `json:"id"`
	BuyerID       string          `json:"buyer_id"`
	SellerID      string          `json:"seller_id"`
	ProductID     string          `json:"product_id"`
	Quantity      int             `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderCreateRequest строка для пакетной вставки заказов при оформлении корзины
type OrderCreateRequest struct {
	BatchID       uuid.UUID       `json:"batch_id"`
	BuyerID       string          `json:"buyer_id"`
	SellerID      string          `json:"seller_id"`
	ProductID     string          `json:"product_id"`
	Quantity      int             `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Status        OrderStatus     `json:"status"`
}

// ProductSummary данные товара, подтягиваемые через JOIN
type ProductSummary struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// Party контактные данные покупателя или продавца; заполняется через JOIN с таблицей users
type Party struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	BrandName string `json:"brand_name,omitempty"`
}

// OrderView денормализованная строка заказа
type OrderView struct {
	Order
	Product *ProductSummary `json:"product,omitempty"`
	Buyer   *Party          `json:"buyer,omitempty"`
	Seller  *Party          `json:"seller,omitempty"`
}

// Receipt результат успешного оформления корзины
type Receipt struct {
	BatchID       uuid.UUID       `json:"batch_id"`
	OrderIDs      []string        `json:"order_ids"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Lines         int             `json:"lines"`
}
