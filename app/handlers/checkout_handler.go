package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AhmedZafar5533/marbo-go/app/helpers"
	"github.com/AhmedZafar5533/marbo-go/app/models"
	"github.com/AhmedZafar5533/marbo-go/app/services"
	"github.com/AhmedZafar5533/marbo-go/app/utils/calc"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	engine   *services.Reconciler
	checkout *services.CheckoutService
	render   *render.Render
	logger   *zap.Logger
}

func NewCheckoutHandler(engine *services.Reconciler, checkout *services.CheckoutService, render *render.Render, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{engine: engine, checkout: checkout, render: render, logger: logger}
}

type placeOrderRequest struct {
	Payment  models.PaymentDetails `json:"payment"`
	Customer models.CustomerInfo   `json:"customerInfo"`
}

// GetSummary returns a frozen snapshot for the checkout page to render. The
// snapshot is advisory display state: if the cart mutates before submission,
// PlaceOrder prices from its own snapshot, not this one.
func (h *CheckoutHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	snapshot := calc.NewCheckoutSnapshot(h.engine.Cart())
	if snapshot.Empty() {
		h.render.JSON(w, http.StatusBadRequest, errorBody("cart is empty"))
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]any{"success": true, "checkout": snapshot})
}

// PlaceOrder is the snapshot boundary: the cart is frozen here, at
// submission time, and that snapshot is what gets priced and placed. A
// summary fetched earlier never constrains the order.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	snapshot := calc.NewCheckoutSnapshot(h.engine.Cart())
	receipt, err := h.checkout.PlaceOrder(r.Context(), snapshot, req.Payment, req.Customer)
	if err != nil {
		h.respondPlacementError(w, err)
		return
	}

	h.render.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"order":   receipt,
	})
}

func (h *CheckoutHandler) respondPlacementError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, services.ErrCartEmpty):
		h.render.JSON(w, http.StatusBadRequest, errorBody("cart is empty"))
	case errors.As(err, &validationErrs):
		h.render.JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"success": false,
			"message": "validation failed",
			"errors":  helpers.FormatValidationErrors(validationErrs),
		})
	default:
		h.logger.Warn("order placement failed", zap.Error(err))
		h.render.JSON(w, http.StatusBadGateway, errorBody("order could not be placed, your cart is unchanged"))
	}
}
