package cart

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/pkg/db/models"
)

// Repository encapsulates shopping cart persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// EnsureCart returns the user's cart, creating it on first use.
func (r *Repository) EnsureCart(ctx context.Context, userID uint) (*models.ShoppingCart, error) {
	var cart models.ShoppingCart
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.ShoppingCart{UserID: userID}
		if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// ListItems loads the cart lines with variant, product and image context.
func (r *Repository) ListItems(ctx context.Context, cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Variant").
		Preload("Variant.Product").
		Preload("Variant.Images").
		Preload("Variant.Discounts").
		Where("cart_id = ?", cartID).
		Order("cart_item_id").
		Find(&items).
		Error
	return items, err
}

// FindItem loads a single cart line belonging to the cart.
func (r *Repository) FindItem(ctx context.Context, cartID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Variant").
		Where("cart_id = ? AND cart_item_id = ?", cartID, itemID).
		First(&item).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemByVariant loads the cart line for a variant if present.
func (r *Repository) FindItemByVariant(ctx context.Context, cartID, variantID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND variant_id = ?", cartID, variantID).
		First(&item).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a cart line.
func (r *Repository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateItemQuantity sets the quantity of a cart line.
func (r *Repository) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("cart_item_id = ?", itemID).
		Update("quantity", quantity).
		Error
}

// DeleteItem removes a cart line.
func (r *Repository) DeleteItem(ctx context.Context, cartID, itemID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("cart_id = ? AND cart_item_id = ?", cartID, itemID).
		Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// FindVariant loads a variant with its discounts.
func (r *Repository) FindVariant(ctx context.Context, variantID uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Discounts").
		First(&variant, variantID).
		Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}
