package models

import "time"

// PaymentDetails carries the card fields collected at checkout. Validation
// is presence-only; the payment provider owns format and authorization
// checks.
type PaymentDetails struct {
	CardNumber     string `json:"cardNumber" validate:"required"`
	ExpiryDate     string `json:"expiryDate" validate:"required"`
	CVV            string `json:"cvv" validate:"required"`
	CardholderName string `json:"cardholderName" validate:"required"`
}

// CustomerInfo identifies the buyer on an order.
type CustomerInfo struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// OrderRequest is the body posted to the order API.
type OrderRequest struct {
	OrderCode    string         `json:"orderCode"`
	Items        []SnapshotItem `json:"items"`
	Summary      OrderSummary   `json:"summary"`
	CustomerInfo CustomerInfo   `json:"customerInfo"`
	Timestamp    time.Time      `json:"timestamp"`
}

// OrderReceipt is returned to the caller once an order has been accepted.
type OrderReceipt struct {
	OrderCode   string `json:"orderCode"`
	PaymentRef  string `json:"paymentRef,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}
