package controllers

import (
	"net/http"

	"github.com/everbean/roastery-backend/api/middleware"
	"github.com/everbean/roastery-backend/api/responses"
	"github.com/everbean/roastery-backend/api/validators"
	"github.com/everbean/roastery-backend/internal/reviews"
	"github.com/everbean/roastery-backend/pkg/logger"
)

// ReviewsController serves product reviews and the moderation queue.
type ReviewsController struct {
	service reviews.Service
	logg    *logger.Logger
}

func NewReviewsController(service reviews.Service, logg *logger.Logger) *ReviewsController {
	return &ReviewsController{service: service, logg: logg}
}

func (c *ReviewsController) ListForProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uintParam(r, "productID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	list, err := c.service.ListApproved(r.Context(), productID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, list)
}

func (c *ReviewsController) Create(w http.ResponseWriter, r *http.Request) {
	productID, err := uintParam(r, "productID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	var input struct {
		Rating  int    `json:"rating" validate:"required,min=1,max=5"`
		Content string `json:"content" validate:"required"`
	}
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	dto, err := c.service.Create(r.Context(), middleware.UserIDFromContext(r.Context()), reviews.CreateInput{
		ProductID: productID,
		Rating:    input.Rating,
		Content:   input.Content,
	})
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, dto)
}

func (c *ReviewsController) ListPending(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.ListPending(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, list)
}

func (c *ReviewsController) Approve(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uintParam(r, "reviewID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.Approve(r.Context(), reviewID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{"review_id": reviewID, "status": "approved"})
}

func (c *ReviewsController) Reject(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uintParam(r, "reviewID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.Reject(r.Context(), reviewID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{"review_id": reviewID, "status": "rejected"})
}
