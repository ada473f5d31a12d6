package services

import (
	"context"
	"errors"
	"testing"

	"github.com/AhmedZafar5533/marbo-go/app/models"
	"github.com/AhmedZafar5533/marbo-go/app/utils/calc"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOrderAPI struct {
	calls []models.OrderRequest
	err   error
}

func (f *fakeOrderAPI) Create(ctx context.Context, order models.OrderRequest) error {
	f.calls = append(f.calls, order)
	return f.err
}

type fakePaymentProvider struct {
	calls int
	err   error
}

func (f *fakePaymentProvider) CreateIntent(ctx context.Context, orderCode string, snapshot models.CheckoutSnapshot, customer models.CustomerInfo) (*PaymentIntent, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &PaymentIntent{Token: "tok-123", RedirectURL: "https://pay.example/" + orderCode}, nil
}

func validPayment() models.PaymentDetails {
	return models.PaymentDetails{
		CardNumber:     "4111111111111111",
		ExpiryDate:     "12/27",
		CVV:            "123",
		CardholderName: "Jordan Buyer",
	}
}

func validCustomer() models.CustomerInfo {
	return models.CustomerInfo{Name: "Jordan Buyer", Email: "jordan@example.com"}
}

func newCheckoutFixture(t *testing.T) (*CheckoutService, *engineFixture, *fakeOrderAPI, *fakePaymentProvider) {
	t.Helper()
	f := newEngineFixture(t)
	orders := &fakeOrderAPI{}
	payments := &fakePaymentProvider{}
	svc := NewCheckoutService(f.engine, orders, payments, zap.NewNop())
	return svc, f, orders, payments
}

func TestPlaceOrderEmptyCartIsPreconditionFailure(t *testing.T) {
	svc, _, orders, payments := newCheckoutFixture(t)

	_, err := svc.PlaceOrder(context.Background(), models.CheckoutSnapshot{}, validPayment(), validCustomer())

	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.Empty(t, orders.calls)
	assert.Zero(t, payments.calls)
}

func TestPlaceOrderValidatesPaymentPresence(t *testing.T) {
	svc, f, orders, _ := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.engine.Add(ctx, itemA(), 1)
	require.NoError(t, err)
	snapshot := calc.NewCheckoutSnapshot(f.engine.Cart())

	payment := validPayment()
	payment.CVV = ""

	_, err = svc.PlaceOrder(ctx, snapshot, payment, validCustomer())

	var validationErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
	assert.Empty(t, orders.calls)
}

func TestPlaceOrderSuccessClearsCart(t *testing.T) {
	svc, f, orders, _ := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.engine.Add(ctx, itemA(), 3)
	require.NoError(t, err)
	snapshot := calc.NewCheckoutSnapshot(f.engine.Cart())

	receipt, err := svc.PlaceOrder(ctx, snapshot, validPayment(), validCustomer())
	require.NoError(t, err)

	assert.Equal(t, "tok-123", receipt.PaymentRef)
	assert.NotEmpty(t, receipt.OrderCode)
	assert.Empty(t, f.engine.Cart().Items, "cart cleared after confirmed order")

	require.Len(t, orders.calls, 1, "exactly one order-creation call")
	order := orders.calls[0]
	assert.Equal(t, receipt.OrderCode, order.OrderCode)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Summary.Subtotal.Equal(decimal.RequireFromString("30.00")))
	assert.True(t, order.Summary.Total.Equal(decimal.RequireFromString("32.55")))
	assert.False(t, order.Timestamp.IsZero())
}

func TestPlaceOrderFailureLeavesCartUntouched(t *testing.T) {
	svc, f, orders, _ := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.engine.Add(ctx, itemA(), 2)
	require.NoError(t, err)
	snapshot := calc.NewCheckoutSnapshot(f.engine.Cart())

	orders.err = errors.New("order api unavailable")

	_, err = svc.PlaceOrder(ctx, snapshot, validPayment(), validCustomer())
	require.Error(t, err)
	assert.Len(t, f.engine.Cart().Items, 1, "cart survives a failed placement")
}

func TestPlaceOrderPaymentFailureSkipsOrderAPI(t *testing.T) {
	svc, f, orders, payments := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.engine.Add(ctx, itemA(), 1)
	require.NoError(t, err)
	snapshot := calc.NewCheckoutSnapshot(f.engine.Cart())

	payments.err = errors.New("declined")

	_, err = svc.PlaceOrder(ctx, snapshot, validPayment(), validCustomer())
	require.Error(t, err)
	assert.Empty(t, orders.calls, "no order without an authorized payment")
	assert.Len(t, f.engine.Cart().Items, 1)
}

func TestPlaceOrderOperatesOnSnapshotNotLiveCart(t *testing.T) {
	svc, f, orders, _ := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.engine.Add(ctx, itemA(), 2)
	require.NoError(t, err)
	snapshot := calc.NewCheckoutSnapshot(f.engine.Cart())

	// The cart mutates after checkout began; the order uses the snapshot.
	_, err = f.engine.Add(ctx, models.LineItemInput{ProductID: "prod-b", Quantity: 1}, 1)
	require.NoError(t, err)

	_, err = svc.PlaceOrder(ctx, snapshot, validPayment(), validCustomer())
	require.NoError(t, err)

	require.Len(t, orders.calls, 1)
	assert.Len(t, orders.calls[0].Items, 1, "order reflects the frozen snapshot")
	assert.Equal(t, 2, orders.calls[0].Summary.ItemCount)
}
