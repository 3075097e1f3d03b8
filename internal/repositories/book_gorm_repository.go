package repositories

import (
	"context"
	"time"

	"bookclub/internal/apperr"
	"bookclub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBookRepository is a GORM implementation of BookRepository.
type GORMBookRepository struct {
	db *gorm.DB
}

// NewGORMBookRepository creates a new instance of GORMBookRepository.
func NewGORMBookRepository(db *gorm.DB) *GORMBookRepository {
	return &GORMBookRepository{
		db: db,
	}
}

// GetAll retrieves all books, oldest first.
func (r *GORMBookRepository) GetAll(ctx context.Context) ([]models.Book, error) {
	books := []models.Book{}
	if err := r.db.WithContext(ctx).Order("created_at").Find(&books).Error; err != nil {
		return nil, translate(err, "book")
	}
	return books, nil
}

// GetByID retrieves a single book by its ID.
func (r *GORMBookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, translate(err, "book")
	}
	return &book, nil
}

func (r *GORMBookRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, translate(err, "book")
	}
	return n > 0, nil
}

// Create creates a new book in the database.
func (r *GORMBookRepository) Create(ctx context.Context, book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(book).Error, "book")
}

// Update applies changes to an existing book and returns the stored row.
func (r *GORMBookRepository) Update(ctx context.Context, id string, changes map[string]interface{}) (*models.Book, error) {
	if changes == nil {
		changes = map[string]interface{}{}
	}
	changes["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&models.Book{}).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return nil, translate(res.Error, "book")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("book")
	}
	return r.GetByID(ctx, id)
}

// Delete deletes a book by its ID. Progress records pointing at the book are
// left in place.
func (r *GORMBookRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Book{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "book")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("book")
	}
	return nil
}
