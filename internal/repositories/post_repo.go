package repositories

import (
	"context"

	"bookclub/internal/models"
)

// PostRepository defines the interface for discussion post data access.
// Returned posts always carry their likes.
type PostRepository interface {
	GetAll(ctx context.Context) ([]models.Post, error)
	ListByClub(ctx context.Context, clubID string) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, post *models.Post) error
	UpdateOwned(ctx context.Context, id, authorID string, changes map[string]interface{}) (*models.Post, error)
	DeleteOwned(ctx context.Context, id, authorID string) error
	AddLike(ctx context.Context, postID, userID string) (*models.Post, error)
	RemoveLike(ctx context.Context, postID, userID string) (*models.Post, error)
}
