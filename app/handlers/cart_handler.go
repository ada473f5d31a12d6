package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AhmedZafar5533/marbo-go/app/gateway"
	"github.com/AhmedZafar5533/marbo-go/app/models"
	"github.com/AhmedZafar5533/marbo-go/app/services"
	"github.com/AhmedZafar5533/marbo-go/app/utils/calc"
	"github.com/AhmedZafar5533/marbo-go/app/utils/format"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type CartHandler struct {
	engine *services.Reconciler
	render *render.Render
	logger *zap.Logger
}

func NewCartHandler(engine *services.Reconciler, render *render.Render, logger *zap.Logger) *CartHandler {
	return &CartHandler{engine: engine, render: render, logger: logger}
}

type addItemRequest struct {
	Product  models.LineItemInput `json:"product"`
	Quantity int                  `json:"quantity"`
}

type productRef struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, h.engine.Cart())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	cart, err := h.engine.Add(r.Context(), req.Product, req.Quantity)
	if err != nil {
		h.respondMutationError(w, "add item", err)
		return
	}
	h.respondCart(w, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	var req productRef
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		h.render.JSON(w, http.StatusBadRequest, errorBody("productId is required"))
		return
	}

	cart, err := h.engine.Remove(r.Context(), req.ProductID)
	if err != nil {
		h.respondMutationError(w, "remove item", err)
		return
	}
	h.respondCart(w, cart)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req productRef
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		h.render.JSON(w, http.StatusBadRequest, errorBody("productId is required"))
		return
	}

	cart, err := h.engine.UpdateQuantity(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		h.respondMutationError(w, "update quantity", err)
		return
	}
	h.respondCart(w, cart)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.engine.Clear(r.Context())
	if err != nil {
		h.respondMutationError(w, "clear cart", err)
		return
	}
	h.respondCart(w, cart)
}

func (h *CartHandler) respondCart(w http.ResponseWriter, cart models.Cart) {
	summary := calc.Summarize(cart)
	h.render.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"cart":    cart,
		"summary": summary,
		"display": map[string]string{
			"subtotal":   format.FormatUSD(summary.Subtotal),
			"tax":        format.FormatUSD(summary.Tax),
			"totalPrice": format.FormatUSD(summary.Total),
		},
	})
}

func (h *CartHandler) respondMutationError(w http.ResponseWriter, op string, err error) {
	var semantic *gateway.SemanticError
	switch {
	case errors.Is(err, services.ErrItemNotFound):
		h.render.JSON(w, http.StatusNotFound, errorBody("cart item not found"))
	case errors.Is(err, services.ErrMergeInFlight):
		h.render.JSON(w, http.StatusConflict, errorBody("cart sync in progress, try again shortly"))
	case errors.As(err, &semantic):
		// Server-side rejection; its message is shown verbatim.
		h.render.JSON(w, http.StatusConflict, errorBody(semantic.Message))
	default:
		h.logger.Warn("cart mutation failed", zap.String("op", op), zap.Error(err))
		h.render.JSON(w, http.StatusBadGateway, errorBody("cart service unavailable, your cart was not changed"))
	}
}

func errorBody(message string) map[string]any {
	return map[string]any{"success": false, "message": message}
}
