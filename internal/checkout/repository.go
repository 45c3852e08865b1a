package checkout

import (
	"context"

	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/pkg/db/models"
)

// Repository is the persistence surface the checkout transaction needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindVariants(ctx context.Context, ids []uint) ([]models.ProductVariant, error)
	FindDeliveryOption(ctx context.Context, id uint) (*models.DeliveryOption, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	ClearCart(ctx context.Context, userID uint) error
	DecrementStock(ctx context.Context, variantID uint, quantity int) (int64, error)
	CreateAddress(ctx context.Context, address *models.OrderAddress) error
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a checkout repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) FindVariants(ctx context.Context, ids []uint) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Discounts").
		Where("variant_id IN ?", ids).
		Find(&variants).
		Error
	return variants, err
}

func (r *repository) FindDeliveryOption(ctx context.Context, id uint) (*models.DeliveryOption, error) {
	var option models.DeliveryOption
	if err := r.db.WithContext(ctx).First(&option, id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) ClearCart(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Exec(`DELETE FROM cart_items WHERE cart_id IN (SELECT cart_id FROM shopping_carts WHERE user_id = ?)`, userID).
		Error
}

// DecrementStock performs the guarded update. Zero affected rows means the
// variant is missing or out of stock.
func (r *repository) DecrementStock(ctx context.Context, variantID uint, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).
		Exec(`UPDATE product_variants SET stock = stock - ? WHERE variant_id = ? AND stock >= ?`, quantity, variantID, quantity)
	return result.RowsAffected, result.Error
}

func (r *repository) CreateAddress(ctx context.Context, address *models.OrderAddress) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *repository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}
