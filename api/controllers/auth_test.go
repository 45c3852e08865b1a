package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/everbean/roastery-backend/api/middleware"
	"github.com/everbean/roastery-backend/internal/auth"
	pkgerrors "github.com/everbean/roastery-backend/pkg/errors"
	"github.com/everbean/roastery-backend/pkg/types"
)

type stubAuthService struct {
	registerErr error
	loginErr    error
	addressErr  error
	user        auth.UserDTO
	addresses   []auth.AddressDTO
	token       string
	profileID   uint
	addressID   uint
}

func (s *stubAuthService) Register(_ context.Context, input auth.RegisterInput) (auth.UserDTO, error) {
	if s.registerErr != nil {
		return auth.UserDTO{}, s.registerErr
	}
	return auth.UserDTO{ID: 1, FirstName: input.FirstName, Email: input.Email}, nil
}

func (s *stubAuthService) Login(_ context.Context, input auth.LoginInput) (auth.LoginResult, error) {
	if s.loginErr != nil {
		return auth.LoginResult{}, s.loginErr
	}
	return auth.LoginResult{Token: s.token, User: s.user}, nil
}

func (s *stubAuthService) Profile(_ context.Context, userID uint) (auth.UserDTO, error) {
	s.profileID = userID
	return s.user, nil
}

func (s *stubAuthService) ListAddresses(_ context.Context, userID uint) ([]auth.AddressDTO, error) {
	s.profileID = userID
	return s.addresses, nil
}

func (s *stubAuthService) AddAddress(_ context.Context, userID uint, input auth.AddressInput) (auth.AddressDTO, error) {
	s.profileID = userID
	return auth.AddressDTO{ID: 1, Street: input.Street, City: input.City, PostalCode: input.PostalCode, Country: input.Country}, nil
}

func (s *stubAuthService) UpdateAddress(_ context.Context, userID, addressID uint, _ auth.AddressInput) error {
	s.profileID = userID
	s.addressID = addressID
	return s.addressErr
}

func (s *stubAuthService) RemoveAddress(_ context.Context, userID, addressID uint) error {
	s.profileID = userID
	s.addressID = addressID
	return s.addressErr
}

func TestRegisterValidatesBody(t *testing.T) {
	ctrl := NewAuthController(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"first_name":"Ada","email":"not-an-email","password":"short"}`))
	rec := httptest.NewRecorder()
	ctrl.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var body types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
}

func TestRegisterCreatedOnSuccess(t *testing.T) {
	ctrl := NewAuthController(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"first_name":"Ada","last_name":"Lovelace","email":"ada@everbean.coffee","password":"longenough"}`))
	rec := httptest.NewRecorder()
	ctrl.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLoginMapsUnauthorized(t *testing.T) {
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	ctrl := NewAuthController(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"ada@everbean.coffee","password":"wrong-pass"}`))
	rec := httptest.NewRecorder()
	ctrl.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAddAddressCreatedOnSuccess(t *testing.T) {
	svc := &stubAuthService{}
	ctrl := NewAuthController(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/addresses",
		strings.NewReader(`{"street":"Beanstreet 12","city":"Utrecht","postal_code":"3511AB","country":"NL"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), 9))
	rec := httptest.NewRecorder()
	ctrl.AddAddress(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.profileID != 9 {
		t.Fatalf("expected address for user 9, got %d", svc.profileID)
	}
}

func TestAddAddressValidatesBody(t *testing.T) {
	ctrl := NewAuthController(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/addresses",
		strings.NewReader(`{"street":"Beanstreet 12"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), 9))
	rec := httptest.NewRecorder()
	ctrl.AddAddress(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMeUsesSessionUser(t *testing.T) {
	svc := &stubAuthService{user: auth.UserDTO{ID: 9, Email: "ada@everbean.coffee"}}
	ctrl := NewAuthController(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), 9))
	rec := httptest.NewRecorder()
	ctrl.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.profileID != 9 {
		t.Fatalf("expected profile lookup for user 9, got %d", svc.profileID)
	}
}
