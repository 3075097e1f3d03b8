package handlers

import (
	"bookclub/internal/middleware"
	"bookclub/internal/models"
	"bookclub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ClubHandler handles HTTP requests for clubs.
type ClubHandler struct {
	service *services.ClubService
}

// NewClubHandler creates a new ClubHandler.
func NewClubHandler(service *services.ClubService) *ClubHandler {
	return &ClubHandler{
		service: service,
	}
}

// RegisterRoutes registers the club routes. Reads are public.
func (h *ClubHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	clubRoutes := router.Group("/clubs")
	clubRoutes.Get("/", h.HandleGetClubs)
	clubRoutes.Get("/:id", h.HandleGetClubByID)
	clubRoutes.Post("/", requireAuth, h.HandleCreateClub)
	clubRoutes.Put("/:id", requireAuth, h.HandleUpdateClub)
	clubRoutes.Delete("/:id", requireAuth, h.HandleDeleteClub)
}

// CreateClubRequest is the body of POST /clubs.
type CreateClubRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Description  string `json:"description" validate:"required"`
	Genre        string `json:"genre" validate:"required,max=100"`
	Schedule     string `json:"schedule" validate:"required,oneof=Weekly Biweekly Monthly"`
	MembersLimit int    `json:"membersLimit" validate:"required,min=1"`
	IsActive     *bool  `json:"isActive"`
}

// UpdateClubRequest is the body of PUT /clubs/:id. Absent fields are kept.
type UpdateClubRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string `json:"description" validate:"omitempty,min=1"`
	Genre        *string `json:"genre" validate:"omitempty,min=1,max=100"`
	Schedule     *string `json:"schedule" validate:"omitempty,oneof=Weekly Biweekly Monthly"`
	MembersLimit *int    `json:"membersLimit" validate:"omitempty,min=1"`
	IsActive     *bool   `json:"isActive"`
}

// HandleGetClubs retrieves all clubs.
func (h *ClubHandler) HandleGetClubs(c *fiber.Ctx) error {
	clubs, err := h.service.GetAllClubs(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(clubs)
}

// HandleGetClubByID retrieves a single club by its ID.
func (h *ClubHandler) HandleGetClubByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	club, err := h.service.GetClubByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(club)
}

// HandleCreateClub creates a club owned by the caller.
func (h *ClubHandler) HandleCreateClub(c *fiber.Ctx) error {
	var req CreateClubRequest
	if err := bindJSON(c, nil, &req); err != nil {
		return err
	}

	club := &models.Club{
		Name:         req.Name,
		Description:  req.Description,
		Genre:        req.Genre,
		Schedule:     req.Schedule,
		MembersLimit: req.MembersLimit,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := h.service.CreateClub(c.UserContext(), middleware.CurrentUserID(c), club); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(club)
}

// HandleUpdateClub updates a club the caller owns.
func (h *ClubHandler) HandleUpdateClub(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateClubRequest
	if err := bindJSON(c, nil, &req); err != nil {
		return err
	}

	changes := changeSet{}
	changes.setString("name", req.Name)
	changes.setString("description", req.Description)
	changes.setString("genre", req.Genre)
	changes.setString("schedule", req.Schedule)
	changes.setInt("members_limit", req.MembersLimit)
	changes.setBool("is_active", req.IsActive)
	if err := requireChanges(changes); err != nil {
		return err
	}

	club, err := h.service.UpdateClub(c.UserContext(), id, middleware.CurrentUserID(c), changes)
	if err != nil {
		return err
	}
	return c.JSON(club)
}

// HandleDeleteClub deletes a club the caller owns.
func (h *ClubHandler) HandleDeleteClub(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteClub(c.UserContext(), id, middleware.CurrentUserID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Club deleted successfully",
	})
}
