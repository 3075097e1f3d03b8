package handlers

import (
	"time"

	"bookclub/internal/middleware"
	"bookclub/internal/models"
	"bookclub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MeetingHandler handles HTTP requests for meetings.
type MeetingHandler struct {
	service *services.MeetingService
}

// NewMeetingHandler creates a new MeetingHandler.
func NewMeetingHandler(service *services.MeetingService) *MeetingHandler {
	return &MeetingHandler{
		service: service,
	}
}

// RegisterRoutes registers the meeting routes with the Fiber app.
func (h *MeetingHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	meetingRoutes := router.Group("/meetings")
	meetingRoutes.Get("/", h.HandleGetMeetings)
	meetingRoutes.Get("/club/:clubId", h.HandleGetClubMeetings)
	meetingRoutes.Get("/:id", h.HandleGetMeetingByID)
	meetingRoutes.Post("/", requireAuth, h.HandleCreateMeeting)
	meetingRoutes.Put("/:id", requireAuth, h.HandleUpdateMeeting)
	meetingRoutes.Delete("/:id", requireAuth, h.HandleDeleteMeeting)
	meetingRoutes.Post("/:id/attend", requireAuth, h.HandleAttend)
	meetingRoutes.Delete("/:id/attend", requireAuth, h.HandleUnattend)
}

// CreateMeetingRequest is the body of POST /meetings. Clients may send
// agenda for topic and clubId for club.
type CreateMeetingRequest struct {
	Club     string    `json:"club" validate:"required,uuid"`
	Topic    string    `json:"topic" validate:"required,max=255"`
	DateTime time.Time `json:"dateTime" validate:"required"`
	Location string    `json:"location" validate:"required,max=255"`
	Status   string    `json:"status" validate:"omitempty,oneof=Scheduled Canceled Completed"`
}

// UpdateMeetingRequest is the body of PUT /meetings/:id. Absent fields are
// kept; the organizer cannot be changed.
type UpdateMeetingRequest struct {
	Club     *string    `json:"club" validate:"omitempty,uuid"`
	Topic    *string    `json:"topic" validate:"omitempty,min=1,max=255"`
	DateTime *time.Time `json:"dateTime"`
	Location *string    `json:"location" validate:"omitempty,min=1,max=255"`
	Status   *string    `json:"status" validate:"omitempty,oneof=Scheduled Canceled Completed"`
}

// HandleGetMeetings retrieves all meetings.
func (h *MeetingHandler) HandleGetMeetings(c *fiber.Ctx) error {
	meetings, err := h.service.GetAllMeetings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(meetings)
}

// HandleGetClubMeetings retrieves the meetings of a club, soonest first.
func (h *MeetingHandler) HandleGetClubMeetings(c *fiber.Ctx) error {
	clubID, err := paramID(c, "clubId")
	if err != nil {
		return err
	}
	meetings, err := h.service.GetClubMeetings(c.UserContext(), clubID)
	if err != nil {
		return err
	}
	return c.JSON(meetings)
}

// HandleGetMeetingByID retrieves a single meeting by its ID.
func (h *MeetingHandler) HandleGetMeetingByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	meeting, err := h.service.GetMeetingByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(meeting)
}

// HandleCreateMeeting schedules a meeting organized by the caller.
func (h *MeetingHandler) HandleCreateMeeting(c *fiber.Ctx) error {
	var req CreateMeetingRequest
	if err := bindJSON(c, meetingAliases, &req); err != nil {
		return err
	}

	meeting := &models.Meeting{
		ClubID:   req.Club,
		Topic:    req.Topic,
		DateTime: req.DateTime,
		Location: req.Location,
		Status:   req.Status,
	}
	if err := h.service.ScheduleMeeting(c.UserContext(), middleware.CurrentUserID(c), meeting); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(meeting)
}

// HandleUpdateMeeting updates a meeting the caller organizes.
func (h *MeetingHandler) HandleUpdateMeeting(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateMeetingRequest
	if err := bindJSON(c, meetingAliases, &req); err != nil {
		return err
	}

	changes := changeSet{}
	changes.setString("club_id", req.Club)
	changes.setString("topic", req.Topic)
	changes.set("date_time", derefTime(req.DateTime), req.DateTime != nil)
	changes.setString("location", req.Location)
	changes.setString("status", req.Status)
	if err := requireChanges(changes); err != nil {
		return err
	}

	meeting, err := h.service.UpdateMeeting(c.UserContext(), id, middleware.CurrentUserID(c), changes)
	if err != nil {
		return err
	}
	return c.JSON(meeting)
}

// HandleDeleteMeeting deletes a meeting the caller organizes.
func (h *MeetingHandler) HandleDeleteMeeting(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.CancelMeeting(c.UserContext(), id, middleware.CurrentUserID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Meeting deleted successfully",
	})
}

// HandleAttend adds the caller to the attendees.
func (h *MeetingHandler) HandleAttend(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	meeting, err := h.service.Attend(c.UserContext(), id, middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Attendance confirmed",
		"meeting": meeting,
	})
}

// HandleUnattend removes the caller from the attendees.
func (h *MeetingHandler) HandleUnattend(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	meeting, err := h.service.Unattend(c.UserContext(), id, middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Attendance removed",
		"meeting": meeting,
	})
}

func derefTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
