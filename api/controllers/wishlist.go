package controllers

import (
	"net/http"

	"github.com/everbean/roastery-backend/api/middleware"
	"github.com/everbean/roastery-backend/api/responses"
	"github.com/everbean/roastery-backend/internal/wishlist"
	"github.com/everbean/roastery-backend/pkg/logger"
)

// WishlistController manages the user's saved variants.
type WishlistController struct {
	service wishlist.Service
	logg    *logger.Logger
}

func NewWishlistController(service wishlist.Service, logg *logger.Logger) *WishlistController {
	return &WishlistController{service: service, logg: logg}
}

func (c *WishlistController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.List(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, list)
}

func (c *WishlistController) Add(w http.ResponseWriter, r *http.Request) {
	variantID, err := uintParam(r, "variantID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.Add(r.Context(), middleware.UserIDFromContext(r.Context()), variantID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, map[string]uint{"variant_id": variantID})
}

func (c *WishlistController) Remove(w http.ResponseWriter, r *http.Request) {
	variantID, err := uintParam(r, "variantID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.Remove(r.Context(), middleware.UserIDFromContext(r.Context()), variantID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
