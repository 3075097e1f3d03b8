package repositories

import (
	"context"

	"bookclub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMClubRepository is a GORM implementation of ClubRepository.
type GORMClubRepository struct {
	store *OwnedStore[models.Club]
}

// NewGORMClubRepository creates a new instance of GORMClubRepository.
func NewGORMClubRepository(db *gorm.DB) *GORMClubRepository {
	return &GORMClubRepository{
		store: NewOwnedStore[models.Club](db, "owner_id", "club"),
	}
}

func (r *GORMClubRepository) GetAll(ctx context.Context) ([]models.Club, error) {
	return r.store.List(ctx, nil, "created_at")
}

func (r *GORMClubRepository) GetByID(ctx context.Context, id string) (*models.Club, error) {
	return r.store.Get(ctx, id)
}

func (r *GORMClubRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.store.Exists(ctx, id)
}

func (r *GORMClubRepository) Create(ctx context.Context, club *models.Club) error {
	if club.ID == "" {
		club.ID = uuid.New().String()
	}
	return r.store.Create(ctx, club)
}

func (r *GORMClubRepository) UpdateOwned(ctx context.Context, id, ownerID string, changes map[string]interface{}) (*models.Club, error) {
	return r.store.UpdateOwned(ctx, id, ownerID, changes)
}

func (r *GORMClubRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	return r.store.DeleteOwned(ctx, id, ownerID)
}
