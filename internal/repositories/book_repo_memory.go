package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"bookclub/internal/apperr"
	"bookclub/internal/models"

	"github.com/google/uuid"
)

// MemoryBookRepository is an in-memory implementation of BookRepository,
// used by the import command's dry runs and by tests.
type MemoryBookRepository struct {
	books map[string]models.Book
	mu    sync.RWMutex
}

// NewMemoryBookRepository creates a new instance of MemoryBookRepository.
func NewMemoryBookRepository() *MemoryBookRepository {
	return &MemoryBookRepository{
		books: make(map[string]models.Book),
	}
}

// GetAll returns all books ordered by creation time.
func (r *MemoryBookRepository) GetAll(_ context.Context) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookList := make([]models.Book, 0, len(r.books))
	for _, b := range r.books {
		bookList = append(bookList, b)
	}
	sort.SliceStable(bookList, func(i, j int) bool {
		return bookList[i].CreatedAt.Before(bookList[j].CreatedAt)
	})
	return bookList, nil
}

// GetByID returns a book by its ID.
func (r *MemoryBookRepository) GetByID(_ context.Context, id string) (*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	book, ok := r.books[id]
	if !ok {
		return nil, apperr.NotFound("book")
	}
	return &book, nil
}

func (r *MemoryBookRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.books[id]
	return ok, nil
}

// Create adds a new book.
func (r *MemoryBookRepository) Create(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	now := time.Now()
	book.CreatedAt, book.UpdatedAt = now, now
	r.books[book.ID] = *book
	return nil
}

// Update applies the column changes understood by the book catalog.
func (r *MemoryBookRepository) Update(_ context.Context, id string, changes map[string]interface{}) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id]
	if !ok {
		return nil, apperr.NotFound("book")
	}
	for col, v := range changes {
		switch col {
		case "title":
			book.Title = v.(string)
		case "author":
			book.Author = v.(string)
		case "pages":
			book.Pages = v.(int)
		case "summary":
			book.Summary = v.(string)
		case "published_month":
			book.PublishedMonth = v.(string)
		case "published_year":
			book.PublishedYear = v.(int)
		}
	}
	book.UpdatedAt = time.Now()
	r.books[id] = book
	return &book, nil
}

// Delete removes a book by its ID.
func (r *MemoryBookRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return apperr.NotFound("book")
	}
	delete(r.books, id)
	return nil
}
