package repositories

import (
	"context"

	"bookclub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var meetingAttendees = memberSet{table: "meeting_attendees", parentColumn: "meeting_id"}

// GORMMeetingRepository is a GORM implementation of MeetingRepository.
type GORMMeetingRepository struct {
	db    *gorm.DB
	store *OwnedStore[models.Meeting]
}

// NewGORMMeetingRepository creates a new instance of GORMMeetingRepository.
func NewGORMMeetingRepository(db *gorm.DB) *GORMMeetingRepository {
	return &GORMMeetingRepository{
		db:    db,
		store: NewOwnedStore[models.Meeting](db, "organizer_id", "meeting"),
	}
}

// GetAll returns every meeting ordered by date.
func (r *GORMMeetingRepository) GetAll(ctx context.Context) ([]models.Meeting, error) {
	meetings, err := r.store.List(ctx, nil, "date_time")
	if err != nil {
		return nil, err
	}
	return meetings, r.withAttendees(ctx, meetings)
}

// ListByClub returns the meetings of a club ordered by date.
func (r *GORMMeetingRepository) ListByClub(ctx context.Context, clubID string) ([]models.Meeting, error) {
	meetings, err := r.store.List(ctx, map[string]interface{}{"club_id": clubID}, "date_time")
	if err != nil {
		return nil, err
	}
	return meetings, r.withAttendees(ctx, meetings)
}

func (r *GORMMeetingRepository) GetByID(ctx context.Context, id string) (*models.Meeting, error) {
	m, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return m, r.attach(ctx, m)
}

func (r *GORMMeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	if meeting.ID == "" {
		meeting.ID = uuid.New().String()
	}
	if err := r.store.Create(ctx, meeting); err != nil {
		return err
	}
	meeting.Attendees = []string{}
	return nil
}

func (r *GORMMeetingRepository) UpdateOwned(ctx context.Context, id, organizerID string, changes map[string]interface{}) (*models.Meeting, error) {
	m, err := r.store.UpdateOwned(ctx, id, organizerID, changes)
	if err != nil {
		return nil, err
	}
	return m, r.attach(ctx, m)
}

// DeleteOwned removes the meeting. Its attendee rows are removed with it.
func (r *GORMMeetingRepository) DeleteOwned(ctx context.Context, id, organizerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.store.WithTx(tx).DeleteOwned(ctx, id, organizerID); err != nil {
			return err
		}
		return translate(meetingAttendees.clear(ctx, tx, &models.MeetingAttendee{}, id), "meeting")
	})
}

// AddAttendee inserts userID into the attendee set. Adding a present user is
// a no-op.
func (r *GORMMeetingRepository) AddAttendee(ctx context.Context, meetingID, userID string) (*models.Meeting, error) {
	if _, err := r.store.Get(ctx, meetingID); err != nil {
		return nil, err
	}
	row := &models.MeetingAttendee{MeetingID: meetingID, UserID: userID}
	if err := meetingAttendees.add(ctx, r.db, row); err != nil {
		return nil, translate(err, "meeting")
	}
	return r.GetByID(ctx, meetingID)
}

// RemoveAttendee removes userID from the attendee set. Removing an absent
// user is a no-op.
func (r *GORMMeetingRepository) RemoveAttendee(ctx context.Context, meetingID, userID string) (*models.Meeting, error) {
	if _, err := r.store.Get(ctx, meetingID); err != nil {
		return nil, err
	}
	if err := meetingAttendees.remove(ctx, r.db, &models.MeetingAttendee{}, meetingID, userID); err != nil {
		return nil, translate(err, "meeting")
	}
	return r.GetByID(ctx, meetingID)
}

func (r *GORMMeetingRepository) attach(ctx context.Context, m *models.Meeting) error {
	one := []models.Meeting{*m}
	if err := r.withAttendees(ctx, one); err != nil {
		return err
	}
	m.Attendees = one[0].Attendees
	return nil
}

func (r *GORMMeetingRepository) withAttendees(ctx context.Context, meetings []models.Meeting) error {
	ids := make([]string, len(meetings))
	for i := range meetings {
		ids[i] = meetings[i].ID
	}
	sets, err := meetingAttendees.load(ctx, r.db, ids)
	if err != nil {
		return translate(err, "meeting")
	}
	for i := range meetings {
		meetings[i].Attendees = sets[meetings[i].ID]
		if meetings[i].Attendees == nil {
			meetings[i].Attendees = []string{}
		}
	}
	return nil
}
