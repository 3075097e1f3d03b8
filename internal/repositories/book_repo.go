package repositories

import (
	"context"

	"bookclub/internal/models"
)

// BookRepository defines the interface for book catalog access.
type BookRepository interface {
	GetAll(ctx context.Context) ([]models.Book, error)
	GetByID(ctx context.Context, id string) (*models.Book, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, id string, changes map[string]interface{}) (*models.Book, error)
	Delete(ctx context.Context, id string) error
}
