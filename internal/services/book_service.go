package services

import (
	"context"

	"bookclub/internal/logging"
	"bookclub/internal/models"
	"bookclub/internal/repositories"
)

// BookService handles business logic related to the book catalog.
type BookService struct {
	repo repositories.BookRepository
}

// NewBookService creates a new BookService.
func NewBookService(repo repositories.BookRepository) *BookService {
	return &BookService{
		repo: repo,
	}
}

// GetAllBooks retrieves all books.
func (s *BookService) GetAllBooks(ctx context.Context) ([]models.Book, error) {
	return s.repo.GetAll(ctx)
}

// GetBookByID retrieves a single book by its ID.
func (s *BookService) GetBookByID(ctx context.Context, id string) (*models.Book, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateBook creates a new book.
func (s *BookService) CreateBook(ctx context.Context, book *models.Book) error {
	book.ID = ""
	return s.repo.Create(ctx, book)
}

// UpdateBook updates an existing book.
func (s *BookService) UpdateBook(ctx context.Context, id string, changes map[string]interface{}) (*models.Book, error) {
	return s.repo.Update(ctx, id, changes)
}

// DeleteBook deletes a book by its ID.
func (s *BookService) DeleteBook(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ImportBooks creates every book in order and stops at the first failure,
// returning how many were stored.
func (s *BookService) ImportBooks(ctx context.Context, books []models.Book) (int, error) {
	for i := range books {
		if err := s.CreateBook(ctx, &books[i]); err != nil {
			return i, err
		}
		logging.Debug().Str("book", books[i].ID).Str("title", books[i].Title).Msg("book imported")
	}
	return len(books), nil
}
