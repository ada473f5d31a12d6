package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/AhmedZafar5533/marbo-go/app/models"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// PaymentIntent is the opaque authorization handle returned by the provider.
type PaymentIntent struct {
	Token       string
	RedirectURL string
}

// PaymentProvider creates a payment intent for a checkout snapshot. The
// provider owns everything about the payment itself; this core only needs
// the intent to succeed before an order is placed.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, orderCode string, snapshot models.CheckoutSnapshot, customer models.CustomerInfo) (*PaymentIntent, error)
}

type midtransProvider struct {
	client snap.Client
}

// NewMidtransProvider builds the Snap-backed payment provider.
func NewMidtransProvider(serverKey string, production bool) PaymentProvider {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(serverKey, env)
	return &midtransProvider{client: client}
}

func (p *midtransProvider) CreateIntent(ctx context.Context, orderCode string, snapshot models.CheckoutSnapshot, customer models.CustomerInfo) (*PaymentIntent, error) {
	itemDetails := make([]midtrans.ItemDetails, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		name := item.Name
		if len(name) > 50 {
			name = name[:50]
		}
		itemDetails = append(itemDetails, midtrans.ItemDetails{
			ID:    item.ProductID,
			Name:  name,
			Price: item.UnitPrice.Round(0).IntPart(),
			Qty:   int32(item.Quantity),
		})
	}

	// Item rows carry rounded unit prices, so the tax line also absorbs any
	// rounding drift against the summary total.
	gross := snapshot.Summary.Total.Round(0).IntPart()
	rowTotal := int64(0)
	for _, d := range itemDetails {
		rowTotal += d.Price * int64(d.Qty)
	}
	if diff := gross - rowTotal; diff != 0 {
		itemDetails = append(itemDetails, midtrans.ItemDetails{
			ID:    "TAX",
			Name:  "Tax",
			Price: diff,
			Qty:   1,
		})
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderCode,
			GrossAmt: gross,
		},
		Items: &itemDetails,
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customer.Name,
			Email: customer.Email,
			Phone: customer.Phone,
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	resp, err := p.client.CreateTransaction(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	if resp == nil || resp.Token == "" || resp.RedirectURL == "" {
		return nil, errors.New("payment provider returned an invalid intent")
	}

	return &PaymentIntent{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}
