package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/pkg/db/models"
	"github.com/everbean/roastery-backend/pkg/enums"
)

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Variant").
		Preload("Address").
		Preload("DeliveryOption")
}

// ListByUser returns the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.preloaded(ctx).
		Where("user_id = ?", userID).
		Order("order_id DESC").
		Find(&orders).
		Error
	return orders, err
}

// ListAll returns every order, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.preloaded(ctx).Order("order_id DESC").Find(&orders).Error
	return orders, err
}

// FindByID loads one order with items and address.
func (r *Repository) FindByID(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := r.preloaded(ctx).First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves an order out of fromStatuses into status. Zero affected
// rows means the order is missing or in a different state.
func (r *Repository) UpdateStatus(ctx context.Context, orderID uint, status enums.OrderStatus, fromStatuses []enums.OrderStatus) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ?", orderID)
	if len(fromStatuses) > 0 {
		query = query.Where("status IN ?", fromStatuses)
	}
	result := query.Update("status", status)
	return result.RowsAffected, result.Error
}

// RestoreStock adds the quantity back to a variant.
func (r *Repository) RestoreStock(ctx context.Context, variantID uint, quantity int) error {
	return r.db.WithContext(ctx).
		Exec(`UPDATE product_variants SET stock = stock + ? WHERE variant_id = ?`, quantity, variantID).
		Error
}

// FindInvoice loads the stored invoice of an order.
func (r *Repository) FindInvoice(ctx context.Context, orderID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// RefundStatusesByOrder maps order ids to the status of their refund request.
func (r *Repository) RefundStatusesByOrder(ctx context.Context, orderIDs []uint) (map[uint]enums.RefundStatus, error) {
	if len(orderIDs) == 0 {
		return map[uint]enums.RefundStatus{}, nil
	}
	var refunds []models.RefundRequest
	err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Find(&refunds).
		Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]enums.RefundStatus, len(refunds))
	for _, refund := range refunds {
		out[refund.OrderID] = refund.Status
	}
	return out, nil
}
