package controllers

import (
	"net/http"

	"github.com/everbean/roastery-backend/api/middleware"
	"github.com/everbean/roastery-backend/api/responses"
	"github.com/everbean/roastery-backend/api/validators"
	"github.com/everbean/roastery-backend/internal/cart"
	"github.com/everbean/roastery-backend/pkg/logger"
)

// CartController manages the signed-in user's shopping cart.
type CartController struct {
	service cart.Service
	logg    *logger.Logger
}

func NewCartController(service cart.Service, logg *logger.Logger) *CartController {
	return &CartController{service: service, logg: logg}
}

func (c *CartController) Get(w http.ResponseWriter, r *http.Request) {
	dto, err := c.service.GetCart(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	var input struct {
		VariantID uint `json:"variant_id" validate:"required"`
		Quantity  int  `json:"quantity" validate:"required,gt=0"`
	}
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	dto, err := c.service.AddItem(r.Context(), middleware.UserIDFromContext(r.Context()), input.VariantID, input.Quantity)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, dto)
}

func (c *CartController) AdjustItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uintParam(r, "itemID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	var input struct {
		Delta int `json:"delta" validate:"required"`
	}
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	dto, err := c.service.AdjustQuantity(r.Context(), middleware.UserIDFromContext(r.Context()), itemID, input.Delta)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uintParam(r, "itemID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	dto, err := c.service.RemoveItem(r.Context(), middleware.UserIDFromContext(r.Context()), itemID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

// Sync merges a client-side cart into the stored one, used after login.
func (c *CartController) Sync(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Items []cart.SyncItem `json:"items" validate:"dive"`
	}
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	dto, err := c.service.Sync(r.Context(), middleware.UserIDFromContext(r.Context()), input.Items)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}
