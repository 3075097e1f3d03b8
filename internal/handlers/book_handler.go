package handlers

import (
	"bookclub/internal/models"
	"bookclub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles HTTP requests for the book catalog.
type BookHandler struct {
	service *services.BookService
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(service *services.BookService) *BookHandler {
	return &BookHandler{
		service: service,
	}
}

// RegisterRoutes registers the book routes. Writes need authentication but
// books have no owner.
func (h *BookHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	bookRoutes := router.Group("/books")
	bookRoutes.Get("/", h.HandleGetBooks)
	bookRoutes.Get("/:id", h.HandleGetBookByID)
	bookRoutes.Post("/", requireAuth, h.HandleCreateBook)
	bookRoutes.Put("/:id", requireAuth, h.HandleUpdateBook)
	bookRoutes.Delete("/:id", requireAuth, h.HandleDeleteBook)
}

// CreateBookRequest is the body of POST /books.
type CreateBookRequest struct {
	Title          string `json:"title" validate:"required,max=255"`
	Author         string `json:"author" validate:"required,max=255"`
	Pages          int    `json:"pages" validate:"required,min=1"`
	Summary        string `json:"summary"`
	PublishedMonth string `json:"publishedMonth" validate:"omitempty,oneof=January February March April May June July August September October November December"`
	PublishedYear  int    `json:"publishedYear" validate:"omitempty,min=1500,max=2100"`
}

// UpdateBookRequest is the body of PUT /books/:id. Absent fields are kept.
type UpdateBookRequest struct {
	Title          *string `json:"title" validate:"omitempty,min=1,max=255"`
	Author         *string `json:"author" validate:"omitempty,min=1,max=255"`
	Pages          *int    `json:"pages" validate:"omitempty,min=1"`
	Summary        *string `json:"summary"`
	PublishedMonth *string `json:"publishedMonth" validate:"omitempty,oneof=January February March April May June July August September October November December"`
	PublishedYear  *int    `json:"publishedYear" validate:"omitempty,min=1500,max=2100"`
}

// HandleGetBooks retrieves all books.
func (h *BookHandler) HandleGetBooks(c *fiber.Ctx) error {
	books, err := h.service.GetAllBooks(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(books)
}

// HandleGetBookByID retrieves a single book by its ID.
func (h *BookHandler) HandleGetBookByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	book, err := h.service.GetBookByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(book)
}

// HandleCreateBook creates a new book.
func (h *BookHandler) HandleCreateBook(c *fiber.Ctx) error {
	var req CreateBookRequest
	if err := bindJSON(c, nil, &req); err != nil {
		return err
	}

	book := &models.Book{
		Title:          req.Title,
		Author:         req.Author,
		Pages:          req.Pages,
		Summary:        req.Summary,
		PublishedMonth: req.PublishedMonth,
		PublishedYear:  req.PublishedYear,
	}
	if err := h.service.CreateBook(c.UserContext(), book); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(book)
}

// HandleUpdateBook updates an existing book.
func (h *BookHandler) HandleUpdateBook(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateBookRequest
	if err := bindJSON(c, nil, &req); err != nil {
		return err
	}

	changes := changeSet{}
	changes.setString("title", req.Title)
	changes.setString("author", req.Author)
	changes.setInt("pages", req.Pages)
	changes.setString("summary", req.Summary)
	changes.setString("published_month", req.PublishedMonth)
	changes.setInt("published_year", req.PublishedYear)
	if err := requireChanges(changes); err != nil {
		return err
	}

	book, err := h.service.UpdateBook(c.UserContext(), id, changes)
	if err != nil {
		return err
	}
	return c.JSON(book)
}

// HandleDeleteBook deletes a book by its ID.
func (h *BookHandler) HandleDeleteBook(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteBook(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Book deleted successfully",
	})
}
