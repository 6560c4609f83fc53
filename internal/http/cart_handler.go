package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/DTure/test-lab-4/internal/service"
	"github.com/go-chi/chi/v5"
)

// CartHandler exposes the cart and checkout operations of the
// fulfillment service over HTTP.
type CartHandler struct {
	fulfillment *service.FulfillmentService
	timeout     time.Duration
}

func NewCartHandler(fulfillment *service.FulfillmentService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		fulfillment: fulfillment,
		timeout:     timeout,
	}
}

type AddItemRequestDTO struct {
	ProductName string `json:"product_name"`
	Amount      int    `json:"amount"`
}

type CheckoutRequestDTO struct {
	ShippingType string `json:"shipping_type"`
	DueDate      string `json:"due_date,omitempty"` // RFC 3339, optional
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	view, err := h.fulfillment.GetCart(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductName == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_name", "product_name must not be empty")
		return
	}

	if err := h.fulfillment.AddItem(ctx, userID, req.ProductName, req.Amount); err != nil {
		handleServiceError(w, err)
		return
	}

	view, err := h.fulfillment.GetCart(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, view)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productName := chi.URLParam(r, "name")
	if productName == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_name", "product name must not be empty")
		return
	}

	if err := h.fulfillment.RemoveItem(ctx, userID, productName); err != nil {
		handleServiceError(w, err)
		return
	}

	view, err := h.fulfillment.GetCart(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// Checkout converts the user's cart into an order with a shipment.
// An omitted due_date lets the order pick its default.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ShippingType == "" {
		respondError(w, http.StatusBadRequest, "invalid_shipping_type", "shipping_type must not be empty")
		return
	}

	var dueDate time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_due_date", "due_date must be RFC 3339")
			return
		}
		dueDate = parsed
	}

	result, err := h.fulfillment.Checkout(ctx, userID, req.ShippingType, dueDate)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}
