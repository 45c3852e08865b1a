package auth

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/internal/users"
	"github.com/everbean/roastery-backend/pkg/config"
	"github.com/everbean/roastery-backend/pkg/db/models"
	pkgerrors "github.com/everbean/roastery-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.UserAddress{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(ServiceParams{
		UserRepo: users.NewRepository(conn),
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "roastery",
			ExpirationMinutes: 30,
		},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8192,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		FirstName: "Ada",
		LastName:  "Bonga",
		Email:     "Ada@Everbean.Coffee",
		Password:  "correct-horse",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "ada@everbean.coffee" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}

	result, err := svc.Login(ctx, LoginInput{Email: "ada@everbean.coffee", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}
	if result.User.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, result.User.ID)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := RegisterInput{FirstName: "Ada", LastName: "Bonga", Email: "ada@everbean.coffee", Password: "correct-horse"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(ctx, input)
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginWrongPasswordUnauthorized(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{FirstName: "Ada", LastName: "Bonga", Email: "ada@everbean.coffee", Password: "correct-horse"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := svc.Login(ctx, LoginInput{Email: "ada@everbean.coffee", Password: "wrong"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestProfileUnknownUserNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Profile(context.Background(), 999)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddressBookLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner, err := svc.Register(ctx, RegisterInput{FirstName: "Ada", LastName: "Bonga", Email: "ada@everbean.coffee", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	address, err := svc.AddAddress(ctx, owner.ID, AddressInput{
		Street:     " Beanstreet 12 ",
		City:       "Utrecht",
		PostalCode: "3511AB",
		Country:    "NL",
	})
	if err != nil {
		t.Fatalf("add address failed: %v", err)
	}
	if address.Street != "Beanstreet 12" {
		t.Fatalf("expected trimmed street, got %q", address.Street)
	}

	if _, err := svc.AddAddress(ctx, owner.ID, AddressInput{Street: "Nowhere"}); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	err = svc.UpdateAddress(ctx, owner.ID, address.ID, AddressInput{
		Street:     "Roasterslane 4",
		City:       "Utrecht",
		PostalCode: "3511AB",
		Country:    "NL",
	})
	if err != nil {
		t.Fatalf("update address failed: %v", err)
	}

	addresses, err := svc.ListAddresses(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list addresses failed: %v", err)
	}
	if len(addresses) != 1 || addresses[0].Street != "Roasterslane 4" {
		t.Fatalf("unexpected addresses %+v", addresses)
	}

	// another account must not see or touch the address
	foreign, err := svc.ListAddresses(ctx, owner.ID+1)
	if err != nil || len(foreign) != 0 {
		t.Fatalf("expected empty foreign address book, got %v %+v", err, foreign)
	}
	if err := svc.RemoveAddress(ctx, owner.ID+1, address.ID); pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign delete, got %v", err)
	}

	if err := svc.RemoveAddress(ctx, owner.ID, address.ID); err != nil {
		t.Fatalf("remove address failed: %v", err)
	}
	if err := svc.RemoveAddress(ctx, owner.ID, address.ID); pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on double delete, got %v", err)
	}
}
