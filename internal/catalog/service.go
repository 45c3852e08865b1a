package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/pkg/db/models"
	"github.com/everbean/roastery-backend/pkg/enums"
	pkgerrors "github.com/everbean/roastery-backend/pkg/errors"
	"github.com/everbean/roastery-backend/pkg/logger"
)

type discountSender interface {
	SendDiscountAlert(ctx context.Context, to, name, productName, offer string) error
}

// Service exposes the product catalog.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductSummaryDTO, error)
	SearchProducts(ctx context.Context, query string) ([]ProductSummaryDTO, error)
	GetProduct(ctx context.Context, id uint) (ProductDetailDTO, error)
	GetVariant(ctx context.Context, id uint) (VariantDTO, error)
	CreateProduct(ctx context.Context, input ProductInput) (ProductDetailDTO, error)
	UpdateProduct(ctx context.Context, id uint, input ProductInput) error
	DeleteProduct(ctx context.Context, id uint) error
	AddVariant(ctx context.Context, productID uint, input VariantInput) (VariantDTO, error)
	UpdateVariantStock(ctx context.Context, variantID uint, stock int) error
	DeleteVariant(ctx context.Context, variantID uint) error
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, name string) (CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uint) error
	CreateDiscount(ctx context.Context, variantID uint, input DiscountInput) error
}

// ServiceParams groups dependencies for the catalog service. Mailer is
// optional; without it discount alerts are skipped.
type ServiceParams struct {
	Repo   *Repository
	Mailer discountSender
	Logger *logger.Logger
}

type service struct {
	repo   *Repository
	mailer discountSender
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds a catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{
		repo:   params.Repo,
		mailer: params.Mailer,
		logg:   params.Logger,
		now:    time.Now,
	}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductSummaryDTO, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return s.toSummaries(products), nil
}

func (s *service) SearchProducts(ctx context.Context, query string) ([]ProductSummaryDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListProducts(ctx)
	}
	products, err := s.repo.SearchProducts(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}
	return s.toSummaries(products), nil
}

func (s *service) GetProduct(ctx context.Context, id uint) (ProductDetailDTO, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDetailDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return ProductDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	detail := ProductDetailDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Category:    categoryName(product),
		Variants:    make([]VariantDTO, 0, len(product.Variants)),
	}
	for _, variant := range product.Variants {
		detail.Variants = append(detail.Variants, s.toVariantDTO(variant))
	}
	return detail, nil
}

func (s *service) GetVariant(ctx context.Context, id uint) (VariantDTO, error) {
	variant, err := s.repo.FindVariant(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VariantDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return VariantDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	return s.toVariantDTO(*variant), nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (ProductDetailDTO, error) {
	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		CategoryID:  input.CategoryID,
	}
	if product.Name == "" || product.Description == "" {
		return ProductDetailDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name and description are required")
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return ProductDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return s.GetProduct(ctx, product.ID)
}

func (s *service) UpdateProduct(ctx context.Context, id uint, input ProductInput) error {
	updates := map[string]any{
		"name":        strings.TrimSpace(input.Name),
		"description": strings.TrimSpace(input.Description),
		"category_id": input.CategoryID,
	}
	affected, err := s.repo.UpdateProduct(ctx, id, updates)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) DeleteProduct(ctx context.Context, id uint) error {
	affected, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) AddVariant(ctx context.Context, productID uint, input VariantInput) (VariantDTO, error) {
	if _, err := s.repo.FindProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VariantDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return VariantDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	variant := &models.ProductVariant{
		ProductID: productID,
		Name:      strings.TrimSpace(input.Name),
		Price:     input.Price.Round(2),
		Stock:     input.Stock,
	}
	if variant.Name == "" || !variant.Price.IsPositive() {
		return VariantDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "variant needs a name and a positive price")
	}
	if err := s.repo.CreateVariant(ctx, variant); err != nil {
		return VariantDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create variant")
	}
	return s.toVariantDTO(*variant), nil
}

func (s *service) UpdateVariantStock(ctx context.Context, variantID uint, stock int) error {
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	affected, err := s.repo.UpdateVariantStock(ctx, variantID, stock)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	return nil
}

func (s *service) DeleteVariant(ctx context.Context, variantID uint) error {
	affected, err := s.repo.DeleteVariant(ctx, variantID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete variant")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		out = append(out, CategoryDTO{ID: category.ID, Name: category.Name})
	}
	return out, nil
}

func (s *service) CreateCategory(ctx context.Context, name string) (CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	category := &models.Category{Name: name}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return CategoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return CategoryDTO{ID: category.ID, Name: category.Name}, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uint) error {
	affected, err := s.repo.DeleteCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return nil
}

func (s *service) CreateDiscount(ctx context.Context, variantID uint, input DiscountInput) error {
	discountType, err := enums.ParseDiscountType(input.Type)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	startsAt, err := time.Parse(time.RFC3339, input.StartsAt)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "starts_at must be RFC3339")
	}
	endsAt, err := time.Parse(time.RFC3339, input.EndsAt)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "ends_at must be RFC3339")
	}
	if !endsAt.After(startsAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "ends_at must come after starts_at")
	}
	variant, err := s.repo.FindVariant(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}

	discount := &models.Discount{
		VariantID: variantID,
		Type:      discountType,
		Value:     input.Value.Round(2),
		StartsAt:  startsAt,
		EndsAt:    endsAt,
	}
	if err := s.repo.CreateDiscount(ctx, discount); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create discount")
	}

	s.notifyWishlists(ctx, variant, discount)
	return nil
}

// notifyWishlists is best effort. The discount is already stored, a lost
// email must not undo it.
func (s *service) notifyWishlists(ctx context.Context, variant *models.ProductVariant, discount *models.Discount) {
	if s.mailer == nil {
		return
	}
	recipients, err := s.repo.WishlistRecipients(ctx, variant.ID)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "discount alert recipient lookup failed", err)
		}
		return
	}
	offer := offerText(variant, discount)
	for _, user := range recipients {
		if err := s.mailer.SendDiscountAlert(ctx, user.Email, user.FirstName, variant.Name, offer); err != nil {
			if s.logg != nil {
				s.logg.Error(ctx, "discount alert failed", err)
			}
		}
	}
}

func offerText(variant *models.ProductVariant, discount *models.Discount) string {
	if discount.Type == enums.DiscountTypePercentage {
		return discount.Value.StringFixed(0) + "% off"
	}
	return discount.Apply(variant.Price).StringFixed(2) + " instead of " + variant.Price.StringFixed(2)
}

func (s *service) toSummaries(products []models.Product) []ProductSummaryDTO {
	out := make([]ProductSummaryDTO, 0, len(products))
	for _, product := range products {
		out = append(out, s.toSummary(product))
	}
	return out
}

func (s *service) toSummary(product models.Product) ProductSummaryDTO {
	summary := ProductSummaryDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Category:    categoryName(&product),
	}

	now := s.now()
	for _, variant := range product.Variants {
		effective := effectivePrice(variant, now)
		if summary.MinPrice == nil || variant.Price.LessThan(*summary.MinPrice) {
			price := variant.Price
			summary.MinPrice = &price
		}
		if summary.MinEffectivePrice == nil || effective.LessThan(*summary.MinEffectivePrice) {
			summary.MinEffectivePrice = &effective
		}
		if summary.ThumbnailURL == nil && len(variant.Images) > 0 {
			url := variant.Images[0].URL
			summary.ThumbnailURL = &url
		}
	}
	return summary
}

func (s *service) toVariantDTO(variant models.ProductVariant) VariantDTO {
	images := make([]string, 0, len(variant.Images))
	for _, image := range variant.Images {
		images = append(images, image.URL)
	}
	return VariantDTO{
		ID:             variant.ID,
		ProductID:      variant.ProductID,
		Name:           variant.Name,
		Price:          variant.Price,
		EffectivePrice: effectivePrice(variant, s.now()),
		Stock:          variant.Stock,
		Images:         images,
	}
}

func effectivePrice(variant models.ProductVariant, now time.Time) decimal.Decimal {
	price := variant.Price
	for _, discount := range variant.Discounts {
		if discount.ActiveAt(now) {
			return discount.Apply(price)
		}
	}
	return price.Round(2)
}

func categoryName(product *models.Product) *string {
	if product.Category == nil {
		return nil
	}
	name := product.Category.Name
	return &name
}
