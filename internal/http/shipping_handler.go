package http

import (
	"net/http"
	"time"

	"github.com/DTure/test-lab-4/internal/shipping"
	"github.com/go-chi/chi/v5"
)

// ShippingHandler exposes shipment reads and the batch processing
// trigger over HTTP.
type ShippingHandler struct {
	shipping *shipping.Service
	timeout  time.Duration
}

func NewShippingHandler(svc *shipping.Service, timeout time.Duration) *ShippingHandler {
	return &ShippingHandler{
		shipping: svc,
		timeout:  timeout,
	}
}

type ShipmentResponseDTO struct {
	ShippingID   string          `json:"shipping_id"`
	ShippingType string          `json:"shipping_type"`
	ProductIDs   []string        `json:"product_ids"`
	OrderID      string          `json:"order_id"`
	Status       shipping.Status `json:"status"`
	CreatedDate  time.Time       `json:"created_date"`
	DueDate      time.Time       `json:"due_date"`
}

type StatusResponseDTO struct {
	ShippingID string          `json:"shipping_id"`
	Status     shipping.Status `json:"status"`
}

func (h *ShippingHandler) ListShippingTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{
		"shipping_types": h.shipping.ListAvailableShippingType(),
	})
}

func (h *ShippingHandler) GetShipping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	shippingID := chi.URLParam(r, "id")
	shipment, err := h.shipping.GetShipping(ctx, shippingID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ShipmentResponseDTO{
		ShippingID:   shipment.ShippingID,
		ShippingType: shipment.ShippingType,
		ProductIDs:   shipment.ProductIDs,
		OrderID:      shipment.OrderID,
		Status:       shipment.Status,
		CreatedDate:  shipment.CreatedDate,
		DueDate:      shipment.DueDate,
	})
}

func (h *ShippingHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	shippingID := chi.URLParam(r, "id")
	status, err := h.shipping.CheckStatus(ctx, shippingID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, StatusResponseDTO{
		ShippingID: shippingID,
		Status:     status,
	})
}

func (h *ShippingHandler) CompleteShipping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	shippingID := chi.URLParam(r, "id")
	status, err := h.shipping.CompleteShipping(ctx, shippingID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, StatusResponseDTO{
		ShippingID: shippingID,
		Status:     status,
	})
}

// ProcessBatch drains the shipping queue once. Exists next to the
// background poller so operators can force a pass.
func (h *ShippingHandler) ProcessBatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	results, err := h.shipping.ProcessShippingBatch(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"processed": len(results),
		"results":   results,
	})
}
