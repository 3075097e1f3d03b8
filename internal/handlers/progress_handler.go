package handlers

import (
	"bookclub/internal/middleware"
	"bookclub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProgressHandler handles HTTP requests for reading progress.
type ProgressHandler struct {
	service *services.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(service *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		service: service,
	}
}

// RegisterRoutes registers the reading-progress routes with the Fiber app.
func (h *ProgressHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	progressRoutes := router.Group("/progress")
	progressRoutes.Post("/", requireAuth, h.HandleRecordProgress)
	progressRoutes.Get("/club/:clubId", h.HandleGetClubProgress)
	progressRoutes.Get("/user/:userId/book/:bookId/club/:clubId", h.HandleGetProgressByKey)
	progressRoutes.Get("/user/:userId/book/:bookId", h.HandleGetProgressByKey)
	progressRoutes.Get("/:id", requireAuth, h.HandleGetProgressByID)
	progressRoutes.Delete("/:id", requireAuth, h.HandleDeleteProgress)
}

// RecordProgressRequest is the body of POST /progress. Clients may send
// bookId and clubId for book and club. The caller is always the user.
type RecordProgressRequest struct {
	Book        string   `json:"book" validate:"required,uuid"`
	Club        string   `json:"club" validate:"omitempty,uuid"`
	Percentage  *float64 `json:"percentage" validate:"omitempty,gte=0,lte=100"`
	CurrentPage *int     `json:"currentPage" validate:"omitempty,gte=0"`
	Notes       *string  `json:"notes"`
}

// noClub addresses progress recorded without a club in by-key lookups.
const noClub = "none"

// HandleRecordProgress creates or updates the caller's progress for a book
// and club: 201 when the record is new, 200 when it was updated.
func (h *ProgressHandler) HandleRecordProgress(c *fiber.Ctx) error {
	var req RecordProgressRequest
	if err := bindJSON(c, progressAliases, &req); err != nil {
		return err
	}

	progress, created, err := h.service.RecordProgress(c.UserContext(), services.RecordProgressInput{
		UserID:      middleware.CurrentUserID(c),
		BookID:      req.Book,
		ClubID:      req.Club,
		Percentage:  req.Percentage,
		CurrentPage: req.CurrentPage,
		Notes:       req.Notes,
	})
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(progress)
}

// HandleGetProgressByID returns one of the caller's progress records.
func (h *ProgressHandler) HandleGetProgressByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	progress, err := h.service.GetProgress(c.UserContext(), id, middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(progress)
}

// HandleGetProgressByKey looks a record up by user, book and club. Without
// a club, or with the club "none", it finds progress kept outside any club.
func (h *ProgressHandler) HandleGetProgressByKey(c *fiber.Ctx) error {
	ids := make(map[string]string, 3)
	for _, name := range []string{"userId", "bookId"} {
		id, err := paramID(c, name)
		if err != nil {
			return err
		}
		ids[name] = id
	}
	if club := c.Params("clubId"); club != "" && club != noClub {
		id, err := paramID(c, "clubId")
		if err != nil {
			return err
		}
		ids["clubId"] = id
	}

	progress, err := h.service.FindProgress(c.UserContext(), ids["userId"], ids["bookId"], ids["clubId"])
	if err != nil {
		return err
	}
	if progress == nil {
		return c.JSON(fiber.Map{
			"message":  "No progress found for this combination",
			"progress": nil,
		})
	}
	return c.JSON(progress)
}

// HandleGetClubProgress lists a club's progress, furthest along first.
func (h *ProgressHandler) HandleGetClubProgress(c *fiber.Ctx) error {
	clubID, err := paramID(c, "clubId")
	if err != nil {
		return err
	}
	list, err := h.service.GetClubProgress(c.UserContext(), clubID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// HandleDeleteProgress deletes one of the caller's progress records.
func (h *ProgressHandler) HandleDeleteProgress(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteProgress(c.UserContext(), id, middleware.CurrentUserID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Reading progress deleted successfully",
	})
}
