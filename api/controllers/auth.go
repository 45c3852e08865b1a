package controllers

import (
	"net/http"

	"github.com/everbean/roastery-backend/api/middleware"
	"github.com/everbean/roastery-backend/api/responses"
	"github.com/everbean/roastery-backend/api/validators"
	"github.com/everbean/roastery-backend/internal/auth"
	"github.com/everbean/roastery-backend/pkg/logger"
)

// AuthController exposes account registration and login.
type AuthController struct {
	service auth.Service
	logg    *logger.Logger
}

func NewAuthController(service auth.Service, logg *logger.Logger) *AuthController {
	return &AuthController{service: service, logg: logg}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var input auth.RegisterInput
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	user, err := c.service.Register(r.Context(), input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, user)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var input auth.LoginInput
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	result, err := c.service.Login(r.Context(), input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user, err := c.service.Profile(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, user)
}

func (c *AuthController) ListAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := c.service.ListAddresses(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, addresses)
}

func (c *AuthController) AddAddress(w http.ResponseWriter, r *http.Request) {
	var input auth.AddressInput
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	address, err := c.service.AddAddress(r.Context(), middleware.UserIDFromContext(r.Context()), input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, address)
}

func (c *AuthController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	addressID, err := uintParam(r, "addressID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	var input auth.AddressInput
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.UpdateAddress(r.Context(), middleware.UserIDFromContext(r.Context()), addressID, input); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]uint{"address_id": addressID})
}

func (c *AuthController) RemoveAddress(w http.ResponseWriter, r *http.Request) {
	addressID, err := uintParam(r, "addressID")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.RemoveAddress(r.Context(), middleware.UserIDFromContext(r.Context()), addressID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
