package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DTure/test-lab-4/internal/cartstore"
	"github.com/DTure/test-lab-4/internal/domain"
	"github.com/DTure/test-lab-4/internal/publisher"
	"github.com/DTure/test-lab-4/internal/repository"
	"github.com/DTure/test-lab-4/internal/service"
	"github.com/DTure/test-lab-4/internal/shipping"
	"github.com/go-chi/chi/v5"
)

func newTestRouter(products ...*domain.Product) chi.Router {
	shippingSvc := shipping.NewService(repository.NewMemoryRepository(), publisher.NewMemoryPublisher(0))
	fulfillment := service.NewFulfillmentService(newCatalogStub(products...), cartstore.NewMemoryStore(), shippingSvc)
	return NewRouter(
		NewCartHandler(fulfillment, 5*time.Second),
		NewProductHandler(&productListerStub{products: products}, 5*time.Second),
		NewShippingHandler(shippingSvc, 5*time.Second),
		5*time.Second,
	)
}

func doRequest(router chi.Router, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	request := httptest.NewRequest(method, path, reader)
	if userID != "" {
		request.Header.Set("X-User-ID", userID)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter()

	recorder := doRequest(router, "GET", "/health", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
}

// Full lifecycle through the router: browse, fill the cart, check out,
// let the due date expire and watch batch processing fail the shipment.
func TestRouter_OrderLifecycle(t *testing.T) {
	router := newTestRouter(domain.NewProduct("Книга", 299, 10))

	recorder := doRequest(router, "GET", "/api/v1/products", "user1", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("list products: expected %d, got %d", http.StatusOK, recorder.Code)
	}

	recorder = doRequest(router, "GET", "/api/v1/shipping-types", "user1", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("list shipping types: expected %d, got %d", http.StatusOK, recorder.Code)
	}

	recorder = doRequest(router, "POST", "/api/v1/cart/items", "user1", AddItemRequestDTO{ProductName: "Книга", Amount: 9})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("add item: expected %d, got %d: %s", http.StatusCreated, recorder.Code, recorder.Body.String())
	}

	recorder = doRequest(router, "POST", "/api/v1/orders", "user1", CheckoutRequestDTO{
		ShippingType: "Нова Пошта",
		DueDate:      time.Now().Add(150 * time.Millisecond).Format(time.RFC3339Nano),
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("checkout: expected %d, got %d: %s", http.StatusCreated, recorder.Code, recorder.Body.String())
	}

	var result service.CheckoutResult
	if err := json.NewDecoder(recorder.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode checkout response: %v", err)
	}

	// The cart is gone and the shipment is created.
	recorder = doRequest(router, "GET", "/api/v1/cart", "user1", nil)
	var view service.CartView
	if err := json.NewDecoder(recorder.Body).Decode(&view); err != nil {
		t.Fatalf("Failed to decode cart response: %v", err)
	}
	if len(view.Items) != 0 {
		t.Errorf("Expected empty cart after checkout, got %d items", len(view.Items))
	}

	recorder = doRequest(router, "GET", "/api/v1/shippings/"+result.ShippingID+"/status", "user1", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("check status: expected %d, got %d", http.StatusOK, recorder.Code)
	}
	var status StatusResponseDTO
	json.NewDecoder(recorder.Body).Decode(&status)
	if status.Status != shipping.StatusCreated {
		t.Fatalf("Expected status created, got %s", status.Status)
	}

	// Past the due date, batch processing fails the shipment.
	time.Sleep(200 * time.Millisecond)

	recorder = doRequest(router, "POST", "/api/v1/shippings/process-batch", "user1", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("process batch: expected %d, got %d", http.StatusOK, recorder.Code)
	}

	recorder = doRequest(router, "GET", "/api/v1/shippings/"+result.ShippingID+"/status", "user1", nil)
	json.NewDecoder(recorder.Body).Decode(&status)
	if status.Status != shipping.StatusFailed {
		t.Errorf("Expected status failed after due date passed, got %s", status.Status)
	}
}
