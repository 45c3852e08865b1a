package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/pkg/db/models"
)

// Repository encapsulates catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListProducts returns all products with variants, images and discounts preloaded.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants").
		Preload("Variants.Images").
		Preload("Variants.Discounts").
		Order("product_id").
		Find(&products).
		Error
	return products, err
}

// SearchProducts matches name or description case-insensitively.
func (r *Repository) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants").
		Preload("Variants.Images").
		Preload("Variants.Discounts").
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern).
		Order("product_id").
		Find(&products).
		Error
	return products, err
}

// FindProduct loads one product with its variant tree.
func (r *Repository) FindProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants").
		Preload("Variants.Images").
		Preload("Variants.Discounts").
		First(&product, id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindVariant loads one variant with images and discounts.
func (r *Repository) FindVariant(ctx context.Context, id uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Discounts").
		First(&variant, id).
		Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// CreateProduct inserts a product.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// UpdateProduct applies the given column updates to a product.
func (r *Repository) UpdateProduct(ctx context.Context, id uint, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("product_id = ?", id).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// DeleteProduct removes a product and cascades to its variants.
func (r *Repository) DeleteProduct(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	return result.RowsAffected, result.Error
}

// CreateVariant inserts a variant.
func (r *Repository) CreateVariant(ctx context.Context, variant *models.ProductVariant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

// UpdateVariantStock sets the absolute stock level of a variant.
func (r *Repository) UpdateVariantStock(ctx context.Context, id uint, stock int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("variant_id = ?", id).
		Update("stock", stock)
	return result.RowsAffected, result.Error
}

// DeleteVariant removes a variant.
func (r *Repository) DeleteVariant(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.ProductVariant{}, id)
	return result.RowsAffected, result.Error
}

// ListCategories returns all categories.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("category_id").Find(&categories).Error
	return categories, err
}

// CreateCategory inserts a category.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// DeleteCategory removes a category.
func (r *Repository) DeleteCategory(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	return result.RowsAffected, result.Error
}

// CreateDiscount inserts a discount for a variant.
func (r *Repository) CreateDiscount(ctx context.Context, discount *models.Discount) error {
	return r.db.WithContext(ctx).Create(discount).Error
}

// WishlistRecipients returns the users who keep the given variant on their
// wishlist.
func (r *Repository) WishlistRecipients(ctx context.Context, variantID uint) ([]models.User, error) {
	var recipients []models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Distinct("users.*").
		Joins("JOIN wishlist_items ON wishlist_items.user_id = users.user_id").
		Where("wishlist_items.variant_id = ?", variantID).
		Find(&recipients).
		Error
	return recipients, err
}
