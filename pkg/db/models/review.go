package models

import (
	"time"

	"github.com/everbean/roastery-backend/pkg/enums"
)

// Review is a moderated product review.
type Review struct {
	ID        uint               `gorm:"column:review_id;primaryKey"`
	ProductID uint               `gorm:"column:product_id;not null;index"`
	UserID    uint               `gorm:"column:user_id;not null"`
	User      *User              `gorm:"foreignKey:UserID"`
	Rating    int                `gorm:"column:rating;not null"`
	Content   string             `gorm:"column:content;type:text;not null"`
	Status    enums.ReviewStatus `gorm:"column:status;not null;default:pending"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}
