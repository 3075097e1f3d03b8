package repositories

import (
	"context"

	"bookclub/internal/models"
)

// ClubRepository defines the interface for club data access. Mutations are
// owner-gated.
type ClubRepository interface {
	GetAll(ctx context.Context) ([]models.Club, error)
	GetByID(ctx context.Context, id string) (*models.Club, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, club *models.Club) error
	UpdateOwned(ctx context.Context, id, ownerID string, changes map[string]interface{}) (*models.Club, error)
	DeleteOwned(ctx context.Context, id, ownerID string) error
}
