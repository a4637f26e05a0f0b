package order

import (
	domainOrder "paya-bnpl-backend/internal/domain/order"
)

type ItemInput struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	MerchantID  string `json:"merchant_id"`
}

type CreateOrderInput struct {
	CustomerID string                       `json:"customer_id"`
	Customer   domainOrder.CustomerSnapshot `json:"customer"`
	Shipping   domainOrder.ShippingAddress  `json:"shipping_address"`
	Items      []ItemInput                  `json:"items"`
}

type TransitionInput struct {
	OrderID string
	Target  string
	ActorID string
	Note    string
}

// OverrideInput is the audited exception path. Reason is mandatory.
type OverrideInput struct {
	OrderID string
	Target  string
	ActorID string
	Reason  string
}

type PaymentInput struct {
	OrderID string
	Number  int
	ActorID string
}
