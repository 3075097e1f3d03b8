package repositories

import (
	"context"

	"bookclub/internal/apperr"
	"bookclub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database. A unique violation on username
// or email surfaces as a Conflict error.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(user).Error, "user")
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByGoogleID retrieves a user by the subject of their Google identity.
func (r *GORMUserRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.first(ctx, "google_id = ?", googleID)
}

// LinkGoogleID attaches a Google identity to an account that has none. An
// account already linked to a Google identity is a Conflict.
func (r *GORMUserRepository) LinkGoogleID(ctx context.Context, userID, googleID string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND google_id IS NULL", userID).
		Update("google_id", googleID)
	if res.Error != nil {
		return translate(res.Error, "user")
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, userID); err != nil {
		return err
	}
	return apperr.Conflict("account is already linked to a Google identity", nil)
}

func (r *GORMUserRepository) first(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, query, arg).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}
