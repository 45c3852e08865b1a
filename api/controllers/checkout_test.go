package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/everbean/roastery-backend/api/middleware"
	"github.com/everbean/roastery-backend/internal/checkout"
)

type stubCheckoutService struct {
	orderID uint
	err     error
	gotUser uint
	got     checkout.Input
}

func (s *stubCheckoutService) Execute(_ context.Context, userID uint, input checkout.Input) (uint, error) {
	s.gotUser = userID
	s.got = input
	if s.err != nil {
		return 0, s.err
	}
	return s.orderID, nil
}

func checkoutRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithUserID(req.Context(), 7))
}

const validCheckoutBody = `{
	"address": {
		"address": "1 Analytical Way",
		"city": "London",
		"phonenumber": "+4420123456",
		"zipcode": "EC1",
		"country": "UK"
	},
	"payment": {"method": "card"},
	"cartItems": [{"variantId": 3, "quantity": 2, "price": 10.0}],
	"totalPrice": 20.0
}`

func TestCheckoutSuccessShape(t *testing.T) {
	svc := &stubCheckoutService{orderID: 41}
	ctrl := NewCheckoutController(svc, nil)

	rec := httptest.NewRecorder()
	ctrl.Checkout(rec, checkoutRequest(validCheckoutBody))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["message"] != "Order placed successfully." {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if body["order_id"] != float64(41) {
		t.Fatalf("unexpected order id %v", body["order_id"])
	}
	if svc.gotUser != 7 {
		t.Fatalf("expected user 7, got %d", svc.gotUser)
	}
	if len(svc.got.CartItems) != 1 || svc.got.CartItems[0].VariantID != 3 {
		t.Fatalf("input not forwarded: %+v", svc.got)
	}
	if svc.got.TotalPrice.StringFixed(2) != "20.00" {
		t.Fatalf("total not forwarded: %s", svc.got.TotalPrice)
	}
	if svc.got.Address == nil || svc.got.Address.ZipCode != "EC1" {
		t.Fatalf("address not forwarded: %+v", svc.got.Address)
	}
}

func TestCheckoutMalformedBodyReturns400(t *testing.T) {
	bodies := map[string]string{
		"wrong type":       `{"cartItems": "not-a-list"}`,
		"missing payment":  `{"address": {"address": "a", "city": "b", "phonenumber": "c", "zipcode": "d", "country": "e"}, "cartItems": [{"variantId": 1, "quantity": 1, "price": 1}], "totalPrice": 1}`,
		"missing total":    `{"address": {"address": "a", "city": "b", "phonenumber": "c", "zipcode": "d", "country": "e"}, "payment": {}, "cartItems": []}`,
		"unknown field":    `{"surprise": true}`,
		"malformed number": `{"address": {"address": "a", "city": "b", "phonenumber": "c", "zipcode": "d", "country": "e"}, "payment": {}, "cartItems": [{"variantId": 1, "quantity": "two", "price": 1}], "totalPrice": 2}`,
	}
	for name, payload := range bodies {
		t.Run(name, func(t *testing.T) {
			svc := &stubCheckoutService{}
			ctrl := NewCheckoutController(svc, nil)

			rec := httptest.NewRecorder()
			ctrl.Checkout(rec, checkoutRequest(payload))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			var body map[string]any
			_ = json.Unmarshal(rec.Body.Bytes(), &body)
			if body["message"] != "Missing required fields." {
				t.Fatalf("unexpected message %v", body["message"])
			}
			if svc.gotUser != 0 {
				t.Fatal("service must not run on a rejected body")
			}
		})
	}
}

func TestCheckoutValidationErrorReturns400(t *testing.T) {
	svc := &stubCheckoutService{err: &checkout.ValidationError{Reason: "order contains no items"}}
	ctrl := NewCheckoutController(svc, nil)

	rec := httptest.NewRecorder()
	ctrl.Checkout(rec, checkoutRequest(validCheckoutBody))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["message"] != "Missing required fields." {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestCheckoutFailureReturns500WithReason(t *testing.T) {
	svc := &stubCheckoutService{err: &checkout.InsufficientStockError{VariantID: 3}}
	ctrl := NewCheckoutController(svc, nil)

	rec := httptest.NewRecorder()
	ctrl.Checkout(rec, checkoutRequest(validCheckoutBody))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["message"] != "An error occurred during checkout." {
		t.Fatalf("unexpected message %v", body["message"])
	}
	if body["error"] != "Insufficient stock for variant ID 3" {
		t.Fatalf("unexpected error detail %v", body["error"])
	}
}
