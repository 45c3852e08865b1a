package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/internal/users"
	pkgauth "github.com/everbean/roastery-backend/pkg/auth"
	"github.com/everbean/roastery-backend/pkg/config"
	"github.com/everbean/roastery-backend/pkg/db/models"
	pkgerrors "github.com/everbean/roastery-backend/pkg/errors"
	"github.com/everbean/roastery-backend/pkg/security"
)

// Service exposes account registration, authentication and the profile
// address book.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (UserDTO, error)
	Login(ctx context.Context, input LoginInput) (LoginResult, error)
	Profile(ctx context.Context, userID uint) (UserDTO, error)
	ListAddresses(ctx context.Context, userID uint) ([]AddressDTO, error)
	AddAddress(ctx context.Context, userID uint, input AddressInput) (AddressDTO, error)
	UpdateAddress(ctx context.Context, userID, addressID uint, input AddressInput) error
	RemoveAddress(ctx context.Context, userID, addressID uint) error
}

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	UserRepo *users.Repository
	JWT      config.JWTConfig
	Password config.PasswordConfig
}

type service struct {
	userRepo *users.Repository
	jwt      config.JWTConfig
	password config.PasswordConfig
	now      func() time.Time
}

// NewService builds an auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.JWT.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "jwt secret is required")
	}
	return &service{
		userRepo: params.UserRepo,
		jwt:      params.JWT,
		password: params.Password,
		now:      time.Now,
	}, nil
}

// Register hashes the password and creates the account.
func (s *service) Register(ctx context.Context, input RegisterInput) (UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup email")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return toDTO(user), nil
}

// Login verifies credentials and issues an access token.
func (s *service) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		}
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup email")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return LoginResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	token, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	// best effort, login must not fail on the timestamp
	_ = s.userRepo.TouchLastLogin(ctx, user.ID, s.now())

	return LoginResult{Token: token, User: toDTO(user)}, nil
}

// Profile returns the account behind the authenticated user id.
func (s *service) Profile(ctx context.Context, userID uint) (UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return toDTO(user), nil
}

func (s *service) ListAddresses(ctx context.Context, userID uint) ([]AddressDTO, error) {
	addresses, err := s.userRepo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	out := make([]AddressDTO, 0, len(addresses))
	for _, address := range addresses {
		out = append(out, toAddressDTO(&address))
	}
	return out, nil
}

// AddAddress saves a shipping address in the user's profile.
func (s *service) AddAddress(ctx context.Context, userID uint, input AddressInput) (AddressDTO, error) {
	address := &models.UserAddress{
		UserID:     userID,
		Street:     strings.TrimSpace(input.Street),
		City:       strings.TrimSpace(input.City),
		PostalCode: strings.TrimSpace(input.PostalCode),
		Country:    strings.TrimSpace(input.Country),
		Phone:      strings.TrimSpace(input.Phone),
	}
	if address.Street == "" || address.City == "" || address.PostalCode == "" || address.Country == "" {
		return AddressDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "street, city, postal code and country are required")
	}
	if err := s.userRepo.CreateAddress(ctx, address); err != nil {
		return AddressDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	return toAddressDTO(address), nil
}

// UpdateAddress rewrites a saved address. The update is scoped to the owner,
// touching someone else's address reads as not found.
func (s *service) UpdateAddress(ctx context.Context, userID, addressID uint, input AddressInput) error {
	updates := map[string]any{
		"street":      strings.TrimSpace(input.Street),
		"city":        strings.TrimSpace(input.City),
		"postal_code": strings.TrimSpace(input.PostalCode),
		"country":     strings.TrimSpace(input.Country),
		"phone":       strings.TrimSpace(input.Phone),
	}
	affected, err := s.userRepo.UpdateAddress(ctx, userID, addressID, updates)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return nil
}

func (s *service) RemoveAddress(ctx context.Context, userID, addressID uint) error {
	affected, err := s.userRepo.DeleteAddress(ctx, userID, addressID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return nil
}

func toAddressDTO(address *models.UserAddress) AddressDTO {
	return AddressDTO{
		ID:         address.ID,
		Street:     address.Street,
		City:       address.City,
		PostalCode: address.PostalCode,
		Country:    address.Country,
		Phone:      address.Phone,
	}
}

func toDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
	}
}
