package cart

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/pkg/db/models"
	pkgerrors "github.com/everbean/roastery-backend/pkg/errors"
)

// Service exposes shopping cart operations for a user.
type Service interface {
	GetCart(ctx context.Context, userID uint) (CartDTO, error)
	AddItem(ctx context.Context, userID, variantID uint, quantity int) (CartDTO, error)
	AdjustQuantity(ctx context.Context, userID, itemID uint, delta int) (CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uint) (CartDTO, error)
	Sync(ctx context.Context, userID uint, items []SyncItem) (CartDTO, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService builds a cart service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) GetCart(ctx context.Context, userID uint) (CartDTO, error) {
	cart, err := s.repo.EnsureCart(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.buildDTO(ctx, cart.ID)
}

// AddItem puts a variant in the cart. The resulting quantity is clamped to
// the available stock.
func (s *service) AddItem(ctx context.Context, userID, variantID uint, quantity int) (CartDTO, error) {
	if quantity <= 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	variant, err := s.repo.FindVariant(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	if variant.Stock == 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "variant is out of stock")
	}

	cart, err := s.repo.EnsureCart(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	existing, err := s.repo.FindItemByVariant(ctx, cart.ID, variantID)
	switch {
	case err == nil:
		desired := clamp(existing.Quantity+quantity, variant.Stock)
		if err := s.repo.UpdateItemQuantity(ctx, existing.ID, desired); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			CartID:    cart.ID,
			VariantID: variantID,
			Quantity:  clamp(quantity, variant.Stock),
		}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart item")
		}
	default:
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup cart item")
	}

	return s.buildDTO(ctx, cart.ID)
}

// AdjustQuantity shifts a cart line by delta. The result is stock-checked and
// dropping to zero removes the line.
func (s *service) AdjustQuantity(ctx context.Context, userID, itemID uint, delta int) (CartDTO, error) {
	if delta == 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "delta cannot be zero")
	}

	cart, err := s.repo.EnsureCart(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	item, err := s.repo.FindItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	desired := item.Quantity + delta
	if desired <= 0 {
		if _, err := s.repo.DeleteItem(ctx, cart.ID, itemID); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
		}
		return s.buildDTO(ctx, cart.ID)
	}
	if item.Variant != nil && desired > item.Variant.Stock {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "not enough stock")
	}
	if err := s.repo.UpdateItemQuantity(ctx, itemID, desired); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	return s.buildDTO(ctx, cart.ID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uint) (CartDTO, error) {
	cart, err := s.repo.EnsureCart(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	affected, err := s.repo.DeleteItem(ctx, cart.ID, itemID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	if affected == 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.buildDTO(ctx, cart.ID)
}

// Sync merges a client-side cart into the stored one. Quantities take the
// maximum of both sides, clamped to stock. Unknown variants are skipped.
func (s *service) Sync(ctx context.Context, userID uint, items []SyncItem) (CartDTO, error) {
	cart, err := s.repo.EnsureCart(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	for _, incoming := range items {
		if incoming.Quantity <= 0 {
			continue
		}
		variant, err := s.repo.FindVariant(ctx, incoming.VariantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
		}
		if variant.Stock == 0 {
			continue
		}

		existing, err := s.repo.FindItemByVariant(ctx, cart.ID, incoming.VariantID)
		switch {
		case err == nil:
			desired := existing.Quantity
			if incoming.Quantity > desired {
				desired = incoming.Quantity
			}
			desired = clamp(desired, variant.Stock)
			if desired != existing.Quantity {
				if err := s.repo.UpdateItemQuantity(ctx, existing.ID, desired); err != nil {
					return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
				}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item := &models.CartItem{
				CartID:    cart.ID,
				VariantID: incoming.VariantID,
				Quantity:  clamp(incoming.Quantity, variant.Stock),
			}
			if err := s.repo.CreateItem(ctx, item); err != nil {
				return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart item")
			}
		default:
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup cart item")
		}
	}
	return s.buildDTO(ctx, cart.ID)
}

func (s *service) buildDTO(ctx context.Context, cartID uint) (CartDTO, error) {
	items, err := s.repo.ListItems(ctx, cartID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}

	now := s.now()
	dto := CartDTO{Items: make([]ItemDTO, 0, len(items)), Subtotal: decimal.Zero}
	for _, item := range items {
		line := ItemDTO{
			ID:        item.ID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		}
		if variant := item.Variant; variant != nil {
			line.ProductID = variant.ProductID
			line.VariantName = variant.Name
			line.Stock = variant.Stock
			line.UnitPrice = variant.Price
			line.EffectivePrice = variant.Price.Round(2)
			for _, discount := range variant.Discounts {
				if discount.ActiveAt(now) {
					line.EffectivePrice = discount.Apply(variant.Price)
					break
				}
			}
			if variant.Product != nil {
				line.ProductName = variant.Product.Name
			}
			if len(variant.Images) > 0 {
				url := variant.Images[0].URL
				line.ThumbnailURL = &url
			}
		}
		line.LineTotal = line.EffectivePrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		dto.Subtotal = dto.Subtotal.Add(line.LineTotal)
		dto.Items = append(dto.Items, line)
	}
	dto.Subtotal = dto.Subtotal.Round(2)
	return dto, nil
}

func clamp(quantity, stock int) int {
	if quantity > stock {
		return stock
	}
	return quantity
}
