package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/pkg/db/models"
	"github.com/everbean/roastery-backend/pkg/enums"
	pkgerrors "github.com/everbean/roastery-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

type fixture struct {
	db      *gorm.DB
	svc     Service
	userID  uint
	orderID uint
	variant models.ProductVariant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = conn.AutoMigrate(
		&models.User{}, &models.Product{}, &models.ProductVariant{}, &models.DeliveryOption{},
		&models.Order{}, &models.OrderItem{}, &models.OrderAddress{}, &models.Invoice{},
		&models.RefundRequest{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	user := models.User{FirstName: "Ada", LastName: "Bonga", Email: "ada@everbean.coffee", PasswordHash: "x"}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	product := models.Product{Name: "Kenya AA", Description: "Bright"}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	variant := models.ProductVariant{ProductID: product.ID, Name: "Kenya AA 250g", Price: decimal.NewFromFloat(12.50), Stock: 8}
	if err := conn.Create(&variant).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	delivery := models.DeliveryOption{Name: "Standard shipping", Price: decimal.NewFromFloat(4.95)}
	if err := conn.Create(&delivery).Error; err != nil {
		t.Fatalf("seed delivery: %v", err)
	}
	order := models.Order{
		UserID:           user.ID,
		Status:           enums.OrderStatusProcessing,
		Total:            decimal.NewFromFloat(29.95),
		DeliveryOptionID: delivery.ID,
	}
	if err := conn.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	if err := conn.Create(&models.OrderItem{OrderID: order.ID, VariantID: variant.ID, Quantity: 2, Price: decimal.NewFromFloat(12.50)}).Error; err != nil {
		t.Fatalf("seed order item: %v", err)
	}
	if err := conn.Create(&models.OrderAddress{
		OrderID: order.ID, FirstName: "Ada", LastName: "Bonga",
		Street: "Beanstreet 12", City: "Utrecht", PostalCode: "3511AB", Country: "NL",
	}).Error; err != nil {
		t.Fatalf("seed address: %v", err)
	}
	if err := conn.Create(&models.Invoice{OrderID: order.ID, UserID: user.ID, PDF: []byte("%PDF-stub")}).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}

	svc, err := NewService(ServiceParams{Tx: gormTxRunner{db: conn}, Repo: NewRepository(conn)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{db: conn, svc: svc, userID: user.ID, orderID: order.ID, variant: variant}
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	var variant models.ProductVariant
	if err := f.db.First(&variant, f.variant.ID).Error; err != nil {
		t.Fatalf("reload variant: %v", err)
	}
	return variant.Stock
}

func TestListMineGroupsItemsAndAddress(t *testing.T) {
	f := newFixture(t)
	orders, err := f.svc.ListMine(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected one order, got %d", len(orders))
	}
	order := orders[0]
	if len(order.Items) != 1 || order.Items[0].VariantName != "Kenya AA 250g" {
		t.Fatalf("unexpected items %+v", order.Items)
	}
	if order.Address == nil || order.Address.City != "Utrecht" {
		t.Fatalf("unexpected address %+v", order.Address)
	}
	if order.RefundStatus != nil {
		t.Fatalf("expected no refund status, got %v", *order.RefundStatus)
	}
}

func TestListMineIncludesRefundStatus(t *testing.T) {
	f := newFixture(t)
	if err := f.db.Create(&models.RefundRequest{
		OrderID: f.orderID, UserID: f.userID, Reason: "stale beans", Status: enums.RefundStatusPending,
	}).Error; err != nil {
		t.Fatalf("seed refund: %v", err)
	}

	orders, err := f.svc.ListMine(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if orders[0].RefundStatus == nil || *orders[0].RefundStatus != "pending" {
		t.Fatalf("expected pending refund status, got %v", orders[0].RefundStatus)
	}
}

func TestCancelRestoresStock(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.Cancel(context.Background(), f.userID, f.orderID, false); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if got := f.stock(t); got != 10 {
		t.Fatalf("expected stock restored to 10, got %d", got)
	}
	var order models.Order
	if err := f.db.First(&order, f.orderID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if order.Status != enums.OrderStatusCanceled {
		t.Fatalf("expected canceled, got %s", order.Status)
	}
}

func TestCancelForeignOrderIsNotFound(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Cancel(context.Background(), f.userID+1, f.orderID, false)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}
	if got := f.stock(t); got != 8 {
		t.Fatalf("stock must be untouched, got %d", got)
	}
}

func TestCancelTwiceIsStateConflict(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.Cancel(context.Background(), f.userID, f.orderID, false); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	err := f.svc.Cancel(context.Background(), f.userID, f.orderID, false)
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if got := f.stock(t); got != 10 {
		t.Fatalf("stock must not be restored twice, got %d", got)
	}
}

func TestUpdateStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.UpdateStatus(ctx, f.orderID, "in-transit"); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := f.svc.UpdateStatus(ctx, f.orderID, "bogus"); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := f.svc.UpdateStatus(ctx, f.orderID, "canceled"); err != nil {
		t.Fatalf("cancel via status failed: %v", err)
	}
	if got := f.stock(t); got != 10 {
		t.Fatalf("expected stock restored, got %d", got)
	}
}

func TestUpdateStatusOnlyMovesForward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// delivered straight from processing skips in transit
	if err := f.svc.UpdateStatus(ctx, f.orderID, "delivered"); pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	if err := f.svc.UpdateStatus(ctx, f.orderID, "in-transit"); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := f.svc.UpdateStatus(ctx, f.orderID, "delivered"); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	// no path back once delivered
	if err := f.svc.UpdateStatus(ctx, f.orderID, "processing"); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := f.svc.UpdateStatus(ctx, f.orderID, "in-transit"); pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestInvoicePDFOwnershipEnforced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pdf, err := f.svc.InvoicePDF(ctx, f.userID, f.orderID, false)
	if err != nil {
		t.Fatalf("invoice fetch failed: %v", err)
	}
	if string(pdf) != "%PDF-stub" {
		t.Fatalf("unexpected pdf %q", pdf)
	}

	if _, err := f.svc.InvoicePDF(ctx, f.userID+1, f.orderID, false); pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign invoice, got %v", err)
	}
	if _, err := f.svc.InvoicePDF(ctx, f.userID+1, f.orderID, true); err != nil {
		t.Fatalf("admin should fetch any invoice, got %v", err)
	}
}
