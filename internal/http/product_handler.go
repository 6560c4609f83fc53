package http

import (
	"context"
	"net/http"
	"time"

	"github.com/DTure/test-lab-4/internal/domain"
)

// ProductLister is the slice of the catalog the handler needs.
type ProductLister interface {
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
}

type ProductHandler struct {
	catalog ProductLister
	timeout time.Duration
}

func NewProductHandler(catalog ProductLister, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type ProductResponse struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	AvailableAmount int     `json:"available_amount"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	res, err := h.catalog.GetAllProducts(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	products := make([]ProductResponse, len(res))
	for i, p := range res {
		products[i] = ProductResponse{
			Name:            p.Name(),
			Price:           p.Price(),
			AvailableAmount: p.AvailableAmount(),
		}
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products})
}
