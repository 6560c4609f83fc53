package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/DTure/test-lab-4/internal/cartstore"
	"github.com/DTure/test-lab-4/internal/catalog"
	"github.com/DTure/test-lab-4/internal/domain"
	"github.com/DTure/test-lab-4/internal/service"
	"github.com/DTure/test-lab-4/internal/shipping"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps domain and service errors to HTTP status
// codes. The error message is passed through so clients see the exact
// domain wording.
func handleServiceError(w http.ResponseWriter, err error) {
	var stockErr *domain.StockError

	switch {
	case errors.As(err, &stockErr):
		respondError(w, http.StatusConflict, "insufficient_stock", stockErr.Error())
	case errors.Is(err, domain.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, shipping.ErrShippingTypeNotAvailable):
		respondError(w, http.StatusBadRequest, "shipping_type_not_available", shipping.ErrShippingTypeNotAvailable.Error())
	case errors.Is(err, shipping.ErrDueDateInPast):
		respondError(w, http.StatusBadRequest, "invalid_due_date", shipping.ErrDueDateInPast.Error())
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", service.ErrEmptyCart.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", catalog.ErrProductNotFound.Error())
	case errors.Is(err, shipping.ErrShippingNotFound):
		respondError(w, http.StatusNotFound, "shipping_not_found", shipping.ErrShippingNotFound.Error())
	case errors.Is(err, cartstore.ErrCartNotFound):
		respondError(w, http.StatusNotFound, "cart_not_found", cartstore.ErrCartNotFound.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
