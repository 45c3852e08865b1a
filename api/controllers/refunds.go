package controllers

import (
	"net/http"

	"github.com/everbean/roastery-backend/api/middleware"
	"github.com/everbean/roastery-backend/api/responses"
	"github.com/everbean/roastery-backend/api/validators"
	"github.com/everbean/roastery-backend/internal/refunds"
	"github.com/everbean/roastery-backend/pkg/logger"
)

// RefundsController covers the customer request flow and the admin decisions.
type RefundsController struct {
	service refunds.Service
	logg    *logger.Logger
}

func NewRefundsController(service refunds.Service, logg *logger.Logger) *RefundsController {
	return &RefundsController{service: service, logg: logg}
}

func (c *RefundsController) Create(w http.ResponseWriter, r *http.Request) {
	var input refunds.CreateInput
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	dto, err := c.service.Create(r.Context(), middleware.UserIDFromContext(r.Context()), input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, dto)
}

func (c *RefundsController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.List(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, list)
}

func (c *RefundsController) Approve(w http.ResponseWriter, r *http.Request) {
	refundID, err := uintParam(r, "refundID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.Approve(r.Context(), refundID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{"refund_id": refundID, "status": "approved"})
}

func (c *RefundsController) Reject(w http.ResponseWriter, r *http.Request) {
	refundID, err := uintParam(r, "refundID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	var input refunds.RejectInput
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.Reject(r.Context(), refundID, input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{"refund_id": refundID, "status": "rejected"})
}
