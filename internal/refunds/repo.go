package refunds

import (
	"context"

	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/pkg/db/models"
	"github.com/everbean/roastery-backend/pkg/enums"
)

// Repository encapsulates refund persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a refunds repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a refund request.
func (r *Repository) Create(ctx context.Context, refund *models.RefundRequest) error {
	return r.db.WithContext(ctx).Create(refund).Error
}

// List returns all refund requests, newest first.
func (r *Repository) List(ctx context.Context) ([]models.RefundRequest, error) {
	var refunds []models.RefundRequest
	err := r.db.WithContext(ctx).Order("refund_id DESC").Find(&refunds).Error
	return refunds, err
}

// FindByID loads one refund request.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.RefundRequest, error) {
	var refund models.RefundRequest
	if err := r.db.WithContext(ctx).First(&refund, id).Error; err != nil {
		return nil, err
	}
	return &refund, nil
}

// FindByOrder loads the refund request of an order if one exists.
func (r *Repository) FindByOrder(ctx context.Context, orderID uint) (*models.RefundRequest, error) {
	var refund models.RefundRequest
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&refund).Error
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

// Decide moves a pending request into a final status. Zero affected rows
// means the request is missing or no longer pending.
func (r *Repository) Decide(ctx context.Context, id uint, status enums.RefundStatus, responseReason *string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.RefundRequest{}).
		Where("refund_id = ? AND status = ?", id, enums.RefundStatusPending).
		Updates(map[string]any{"status": status, "response_reason": responseReason})
	return result.RowsAffected, result.Error
}

// FindOrder loads the order the refund refers to, with its items.
func (r *Repository) FindOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, orderID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// RestoreStock adds the quantity back to a variant.
func (r *Repository) RestoreStock(ctx context.Context, variantID uint, quantity int) error {
	return r.db.WithContext(ctx).
		Exec(`UPDATE product_variants SET stock = stock + ? WHERE variant_id = ?`, quantity, variantID).
		Error
}
