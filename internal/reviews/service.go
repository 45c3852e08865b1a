package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/pkg/db/models"
	"github.com/everbean/roastery-backend/pkg/enums"
	pkgerrors "github.com/everbean/roastery-backend/pkg/errors"
)

// ReviewDTO is the public shape of a review.
type ReviewDTO struct {
	ID         uint      `json:"review_id"`
	ProductID  uint      `json:"product_id"`
	UserID     uint      `json:"user_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Rating     int       `json:"rating"`
	Content    string    `json:"content"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateInput carries the fields to submit a review.
type CreateInput struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Content   string `json:"content" validate:"required"`
}

// Service exposes the moderated review workflow.
type Service interface {
	Create(ctx context.Context, userID uint, input CreateInput) (ReviewDTO, error)
	ListApproved(ctx context.Context, productID uint) ([]ReviewDTO, error)
	ListPending(ctx context.Context) ([]ReviewDTO, error)
	Approve(ctx context.Context, reviewID uint) error
	Reject(ctx context.Context, reviewID uint) error
}

type service struct {
	db *gorm.DB
}

// NewService builds a reviews service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db handle is required")
	}
	return &service{db: db}, nil
}

// Create stores the review pending moderation.
func (s *service) Create(ctx context.Context, userID uint, input CreateInput) (ReviewDTO, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, input.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	review := models.Review{
		ProductID: input.ProductID,
		UserID:    userID,
		Rating:    input.Rating,
		Content:   content,
		Status:    enums.ReviewStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return toDTO(review), nil
}

// ListApproved returns the published reviews of a product.
func (s *service) ListApproved(ctx context.Context, productID uint) ([]ReviewDTO, error) {
	return s.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("product_id = ? AND status = ?", productID, enums.ReviewStatusApproved)
	})
}

// ListPending returns the moderation queue.
func (s *service) ListPending(ctx context.Context) ([]ReviewDTO, error) {
	return s.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", enums.ReviewStatusPending)
	})
}

// Approve publishes a pending review.
func (s *service) Approve(ctx context.Context, reviewID uint) error {
	return s.decide(ctx, reviewID, enums.ReviewStatusApproved)
}

// Reject hides a pending review.
func (s *service) Reject(ctx context.Context, reviewID uint) error {
	return s.decide(ctx, reviewID, enums.ReviewStatusRejected)
}

func (s *service) decide(ctx context.Context, reviewID uint, status enums.ReviewStatus) error {
	result := s.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("review_id = ? AND status = ?", reviewID, enums.ReviewStatusPending).
		Update("status", status)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "moderate review")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "review is not pending")
	}
	return nil
}

func (s *service) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]ReviewDTO, error) {
	var reviews []models.Review
	query := s.db.WithContext(ctx).Preload("User").Order("review_id DESC")
	if err := scope(query).Find(&reviews).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	out := make([]ReviewDTO, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, toDTO(review))
	}
	return out, nil
}

func toDTO(review models.Review) ReviewDTO {
	dto := ReviewDTO{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Content:   review.Content,
		Status:    review.Status.String(),
		CreatedAt: review.CreatedAt,
	}
	if review.User != nil {
		dto.AuthorName = review.User.FirstName
	}
	return dto
}
