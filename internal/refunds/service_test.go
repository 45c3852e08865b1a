package refunds

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/internal/users"
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

type stubMailer struct {
	decisions []bool
	reasons   []string
	to        string
}

func (s *stubMailer) SendRefundDecision(ctx context.Context, to, name string, orderID uint, approved bool, reason string) error {
	s.to = to
	s.decisions = append(s.decisions, approved)
	s.reasons = append(s.reasons, reason)
	return nil
}

type fixture struct {
	db      *gorm.DB
	svc     Service
	mailer  *stubMailer
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
		&models.Order{}, &models.OrderItem{}, &models.RefundRequest{},
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
		Status:           enums.OrderStatusDelivered,
		Total:            decimal.NewFromFloat(29.95),
		DeliveryOptionID: delivery.ID,
	}
	if err := conn.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	if err := conn.Create(&models.OrderItem{OrderID: order.ID, VariantID: variant.ID, Quantity: 2, Price: decimal.NewFromFloat(12.50)}).Error; err != nil {
		t.Fatalf("seed order item: %v", err)
	}

	mailer := &stubMailer{}
	svc, err := NewService(ServiceParams{
		Tx:     gormTxRunner{db: conn},
		Repo:   NewRepository(conn),
		Users:  users.NewRepository(conn),
		Mailer: mailer,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{db: conn, svc: svc, mailer: mailer, userID: user.ID, orderID: order.ID, variant: variant}
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	var variant models.ProductVariant
	if err := f.db.First(&variant, f.variant.ID).Error; err != nil {
		t.Fatalf("reload variant: %v", err)
	}
	return variant.Stock
}

func TestCreateRefundRequest(t *testing.T) {
	f := newFixture(t)
	refund, err := f.svc.Create(context.Background(), f.userID, CreateInput{OrderID: f.orderID, Reason: "stale beans"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if refund.Status != "pending" {
		t.Fatalf("expected pending, got %s", refund.Status)
	}

	_, err = f.svc.Create(context.Background(), f.userID, CreateInput{OrderID: f.orderID, Reason: "again"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on duplicate request, got %v", err)
	}
}

func TestCreateForeignOrderIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), f.userID+1, CreateInput{OrderID: f.orderID, Reason: "nope"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestApproveRestoresStockAndNotifies(t *testing.T) {
	f := newFixture(t)
	refund, err := f.svc.Create(context.Background(), f.userID, CreateInput{OrderID: f.orderID, Reason: "stale beans"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := f.svc.Approve(context.Background(), refund.ID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if got := f.stock(t); got != 10 {
		t.Fatalf("expected stock restored to 10, got %d", got)
	}
	if len(f.mailer.decisions) != 1 || !f.mailer.decisions[0] {
		t.Fatalf("expected one approval email, got %+v", f.mailer.decisions)
	}
	if f.mailer.to != "ada@everbean.coffee" {
		t.Fatalf("unexpected recipient %s", f.mailer.to)
	}

	err = f.svc.Approve(context.Background(), refund.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second approve, got %v", err)
	}
	if got := f.stock(t); got != 10 {
		t.Fatalf("stock must not be restored twice, got %d", got)
	}
}

func TestApproveSkipsRestoreForCanceledOrder(t *testing.T) {
	f := newFixture(t)
	refund, err := f.svc.Create(context.Background(), f.userID, CreateInput{OrderID: f.orderID, Reason: "stale beans"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// order gets canceled after the request, cancellation restored the stock
	err = f.db.Model(&models.Order{}).
		Where("order_id = ?", f.orderID).
		UpdateColumn("status", enums.OrderStatusCanceled).
		Error
	if err != nil {
		t.Fatalf("cancel order: %v", err)
	}
	err = f.db.Model(&models.ProductVariant{}).
		Where("variant_id = ?", f.variant.ID).
		UpdateColumn("stock", 10).
		Error
	if err != nil {
		t.Fatalf("restore stock: %v", err)
	}

	if err := f.svc.Approve(context.Background(), refund.ID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if got := f.stock(t); got != 10 {
		t.Fatalf("stock must not be restored twice, got %d", got)
	}
	if len(f.mailer.decisions) != 1 || !f.mailer.decisions[0] {
		t.Fatalf("expected one approval email, got %+v", f.mailer.decisions)
	}
}

func TestRejectKeepsStockAndSendsReason(t *testing.T) {
	f := newFixture(t)
	refund, err := f.svc.Create(context.Background(), f.userID, CreateInput{OrderID: f.orderID, Reason: "stale beans"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := f.svc.Reject(context.Background(), refund.ID, RejectInput{Reason: "outside return window"}); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if got := f.stock(t); got != 8 {
		t.Fatalf("stock must be untouched on reject, got %d", got)
	}
	if len(f.mailer.reasons) != 1 || f.mailer.reasons[0] != "outside return window" {
		t.Fatalf("expected rejection reason in email, got %+v", f.mailer.reasons)
	}

	var stored models.RefundRequest
	if err := f.db.First(&stored, refund.ID).Error; err != nil {
		t.Fatalf("reload refund: %v", err)
	}
	if stored.Status != enums.RefundStatusRejected || stored.ResponseReason == nil {
		t.Fatalf("unexpected stored state %+v", stored)
	}
}
