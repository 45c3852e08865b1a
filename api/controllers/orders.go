package controllers

import (
	"fmt"
	"net/http"

	"github.com/everbean/roastery-backend/api/middleware"
	"github.com/everbean/roastery-backend/api/responses"
	"github.com/everbean/roastery-backend/api/validators"
	"github.com/everbean/roastery-backend/internal/orders"
	"github.com/everbean/roastery-backend/pkg/logger"
)

// OrdersController serves order history, cancellation and invoice downloads.
type OrdersController struct {
	service orders.Service
	logg    *logger.Logger
}

func NewOrdersController(service orders.Service, logg *logger.Logger) *OrdersController {
	return &OrdersController{service: service, logg: logg}
}

func (c *OrdersController) ListMine(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.ListMine(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, list)
}

func (c *OrdersController) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := uintParam(r, "orderID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	ctx := r.Context()
	if err := c.service.Cancel(ctx, middleware.UserIDFromContext(ctx), orderID, middleware.IsAdminFromContext(ctx)); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{"order_id": orderID, "status": "canceled"})
}

// Invoice streams the stored PDF for an order the caller owns.
func (c *OrdersController) Invoice(w http.ResponseWriter, r *http.Request) {
	orderID, err := uintParam(r, "orderID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	ctx := r.Context()
	pdf, err := c.service.InvoicePDF(ctx, middleware.UserIDFromContext(ctx), orderID, middleware.IsAdminFromContext(ctx))
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d.pdf", orderID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (c *OrdersController) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.ListAll(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, list)
}

func (c *OrdersController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uintParam(r, "orderID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	var input struct {
		Status string `json:"status" validate:"required"`
	}
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.UpdateStatus(r.Context(), orderID, input.Status); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{"order_id": orderID, "status": input.Status})
}
