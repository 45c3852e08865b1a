package wishlist

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/pkg/db/models"
	pkgerrors "github.com/everbean/roastery-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, models.ProductVariant) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.ProductVariant{}, &models.WishlistItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	product := models.Product{Name: "Kenya AA", Description: "Bright"}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	variant := models.ProductVariant{ProductID: product.ID, Name: "Kenya AA 250g", Price: decimal.NewFromFloat(12.50), Stock: 5}
	if err := conn.Create(&variant).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	svc, err := NewService(conn)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, variant
}

func TestWishlistLifecycle(t *testing.T) {
	svc, variant := newTestService(t)
	ctx := context.Background()

	if err := svc.Add(ctx, 1, variant.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	// idempotent
	if err := svc.Add(ctx, 1, variant.ID); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	items, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].VariantName != "Kenya AA 250g" {
		t.Fatalf("unexpected items %+v", items)
	}

	ok, err := svc.Contains(ctx, 1, variant.ID)
	if err != nil || !ok {
		t.Fatalf("expected contains true, got %v %v", ok, err)
	}

	if err := svc.Remove(ctx, 1, variant.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	ok, err = svc.Contains(ctx, 1, variant.ID)
	if err != nil || ok {
		t.Fatalf("expected contains false, got %v %v", ok, err)
	}
}

func TestAddUnknownVariantIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Add(context.Background(), 1, 999)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
