package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/everbean/roastery-backend/api/middleware"
	"github.com/everbean/roastery-backend/api/validators"
	"github.com/everbean/roastery-backend/internal/checkout"
	"github.com/everbean/roastery-backend/pkg/logger"
)

// CheckoutController exposes the single storefront checkout endpoint. Its
// response shapes predate the envelope used elsewhere and are kept stable
// for the storefront client.
type CheckoutController struct {
	service checkout.Service
	logg    *logger.Logger
}

func NewCheckoutController(service checkout.Service, logg *logger.Logger) *CheckoutController {
	return &CheckoutController{service: service, logg: logg}
}

func (c *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	var input checkout.Input
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		writeCheckoutJSON(w, http.StatusBadRequest, map[string]any{
			"message": "Missing required fields.",
		})
		return
	}

	orderID, err := c.service.Execute(r.Context(), middleware.UserIDFromContext(r.Context()), input)
	if err != nil {
		var validation *checkout.ValidationError
		if errors.As(err, &validation) {
			writeCheckoutJSON(w, http.StatusBadRequest, map[string]any{
				"message": "Missing required fields.",
			})
			return
		}
		writeCheckoutJSON(w, http.StatusInternalServerError, map[string]any{
			"message": "An error occurred during checkout.",
			"error":   err.Error(),
		})
		return
	}

	writeCheckoutJSON(w, http.StatusCreated, map[string]any{
		"message":  "Order placed successfully.",
		"order_id": orderID,
	})
}

func writeCheckoutJSON(w http.ResponseWriter, status int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
