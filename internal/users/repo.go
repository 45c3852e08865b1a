package users

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/everbean/roastery-backend/pkg/db/models"
)

// Repository encapsulates user persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a user record.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByEmail loads a user by email address.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by primary key.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// TouchLastLogin stamps the last successful login.
func (r *Repository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", id).
		Update("last_login_at", at).
		Error
}

// ListAddresses returns the user's saved addresses, oldest first.
func (r *Repository) ListAddresses(ctx context.Context, userID uint) ([]models.UserAddress, error) {
	var addresses []models.UserAddress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("address_id").
		Find(&addresses).
		Error
	return addresses, err
}

// CreateAddress saves an address in the user's profile.
func (r *Repository) CreateAddress(ctx context.Context, address *models.UserAddress) error {
	return r.db.WithContext(ctx).Create(address).Error
}

// UpdateAddress applies the given column updates, scoped to the owner.
func (r *Repository) UpdateAddress(ctx context.Context, userID, addressID uint, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.UserAddress{}).
		Where("address_id = ? AND user_id = ?", addressID, userID).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// DeleteAddress removes a saved address, scoped to the owner.
func (r *Repository) DeleteAddress(ctx context.Context, userID, addressID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("address_id = ? AND user_id = ?", addressID, userID).
		Delete(&models.UserAddress{})
	return result.RowsAffected, result.Error
}
