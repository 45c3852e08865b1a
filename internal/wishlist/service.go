package wishlist

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/pkg/db/models"
	pkgerrors "github.com/everbean/roastery-backend/pkg/errors"
)

// ItemDTO is a wishlisted variant with its current price and stock.
type ItemDTO struct {
	VariantID   uint            `json:"variant_id"`
	ProductID   uint            `json:"product_id"`
	VariantName string          `json:"variant_name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	AddedAt     time.Time       `json:"added_at"`
}

// Service exposes wishlist management for a user.
type Service interface {
	List(ctx context.Context, userID uint) ([]ItemDTO, error)
	Add(ctx context.Context, userID, variantID uint) error
	Remove(ctx context.Context, userID, variantID uint) error
	Contains(ctx context.Context, userID, variantID uint) (bool, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds a wishlist service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db handle is required")
	}
	return &service{db: db}, nil
}

// List returns the user's wishlist, newest first.
func (s *service) List(ctx context.Context, userID uint) ([]ItemDTO, error) {
	var items []models.WishlistItem
	err := s.db.WithContext(ctx).
		Preload("Variant").
		Where("user_id = ?", userID).
		Order("wishlist_item_id DESC").
		Find(&items).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}

	out := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dto := ItemDTO{VariantID: item.VariantID, AddedAt: item.CreatedAt}
		if item.Variant != nil {
			dto.ProductID = item.Variant.ProductID
			dto.VariantName = item.Variant.Name
			dto.Price = item.Variant.Price
			dto.Stock = item.Variant.Stock
		}
		out = append(out, dto)
	}
	return out, nil
}

// Add marks a variant. Adding twice is a no-op.
func (s *service) Add(ctx context.Context, userID, variantID uint) error {
	var variant models.ProductVariant
	if err := s.db.WithContext(ctx).First(&variant, variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}

	exists, err := s.Contains(ctx, userID, variantID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	item := models.WishlistItem{UserID: userID, VariantID: variantID}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create wishlist item")
	}
	return nil
}

// Remove drops the mark if it exists.
func (s *service) Remove(ctx context.Context, userID, variantID uint) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND variant_id = ?", userID, variantID).
		Delete(&models.WishlistItem{}).
		Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	return nil
}

// Contains reports whether the variant is on the user's wishlist.
func (s *service) Contains(ctx context.Context, userID, variantID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ? AND variant_id = ?", userID, variantID).
		Count(&count).
		Error
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist")
	}
	return count > 0, nil
}
