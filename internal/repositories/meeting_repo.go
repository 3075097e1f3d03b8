package repositories

import (
	"context"

	"bookclub/internal/models"
)

// MeetingRepository defines the interface for meeting data access. Returned
// meetings always carry their attendee list.
type MeetingRepository interface {
	GetAll(ctx context.Context) ([]models.Meeting, error)
	ListByClub(ctx context.Context, clubID string) ([]models.Meeting, error)
	GetByID(ctx context.Context, id string) (*models.Meeting, error)
	Create(ctx context.Context, meeting *models.Meeting) error
	UpdateOwned(ctx context.Context, id, organizerID string, changes map[string]interface{}) (*models.Meeting, error)
	DeleteOwned(ctx context.Context, id, organizerID string) error
	AddAttendee(ctx context.Context, meetingID, userID string) (*models.Meeting, error)
	RemoveAttendee(ctx context.Context, meetingID, userID string) (*models.Meeting, error)
}
