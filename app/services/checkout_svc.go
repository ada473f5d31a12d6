package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AhmedZafar5533/marbo-go/app/gateway"
	"github.com/AhmedZafar5533/marbo-go/app/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCartEmpty is returned when checkout is attempted on an empty snapshot.
var ErrCartEmpty = errors.New("cart is empty")

// CheckoutService converts a finalized checkout snapshot plus payment
// details into exactly one order-creation call. The cart is cleared only
// after the order API confirms the order; any failure leaves the cart
// untouched so the user can retry.
type CheckoutService struct {
	engine   *Reconciler
	orders   gateway.OrderAPI
	payments PaymentProvider
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCheckoutService(engine *Reconciler, orders gateway.OrderAPI, payments PaymentProvider, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		engine:   engine,
		orders:   orders,
		payments: payments,
		validate: validator.New(),
		logger:   logger,
	}
}

// PlaceOrder runs the full placement flow: precondition checks, payment
// intent, order submission, cart clear. It does not deduplicate repeated
// calls; the caller disables its control while a request is in flight.
func (s *CheckoutService) PlaceOrder(ctx context.Context, snapshot models.CheckoutSnapshot, payment models.PaymentDetails, customer models.CustomerInfo) (*models.OrderReceipt, error) {
	if snapshot.Empty() {
		return nil, ErrCartEmpty
	}
	if err := s.validate.Struct(&payment); err != nil {
		return nil, fmt.Errorf("invalid payment details: %w", err)
	}
	if err := s.validate.Struct(&customer); err != nil {
		return nil, fmt.Errorf("invalid customer info: %w", err)
	}

	orderCode := fmt.Sprintf("INV-%s-%s", time.Now().Format("20060102"), uuid.New().String()[:8])

	intent, err := s.payments.CreateIntent(ctx, orderCode, snapshot, customer)
	if err != nil {
		return nil, fmt.Errorf("payment authorization failed: %w", err)
	}

	order := models.OrderRequest{
		OrderCode:    orderCode,
		Items:        snapshot.Items,
		Summary:      snapshot.Summary,
		CustomerInfo: customer,
		Timestamp:    time.Now(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// The order exists server-side from here on, so a failed clear must not
	// fail the placement.
	if _, err := s.engine.Clear(ctx); err != nil {
		s.logger.Warn("order placed but cart clear failed",
			zap.String("orderCode", orderCode),
			zap.Error(err),
		)
	}

	s.logger.Info("order placed",
		zap.String("orderCode", orderCode),
		zap.Int("items", len(order.Items)),
	)

	return &models.OrderReceipt{
		OrderCode:   orderCode,
		PaymentRef:  intent.Token,
		RedirectURL: intent.RedirectURL,
	}, nil
}
