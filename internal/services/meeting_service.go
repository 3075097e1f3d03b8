package services

import (
	"context"
	"fmt"

	"bookclub/internal/apperr"
	"bookclub/internal/models"
	"bookclub/internal/repositories"
)

// MeetingService handles business logic related to club meetings.
type MeetingService struct {
	meetingRepo repositories.MeetingRepository
	clubRepo    repositories.ClubRepository
	events      EventPublisher
}

// NewMeetingService creates a new MeetingService. events may be nil.
func NewMeetingService(meetingRepo repositories.MeetingRepository, clubRepo repositories.ClubRepository, events EventPublisher) *MeetingService {
	return &MeetingService{
		meetingRepo: meetingRepo,
		clubRepo:    clubRepo,
		events:      events,
	}
}

// GetAllMeetings retrieves all meetings.
func (s *MeetingService) GetAllMeetings(ctx context.Context) ([]models.Meeting, error) {
	return s.meetingRepo.GetAll(ctx)
}

// GetClubMeetings retrieves the meetings of one club, soonest first.
func (s *MeetingService) GetClubMeetings(ctx context.Context, clubID string) ([]models.Meeting, error) {
	return s.meetingRepo.ListByClub(ctx, clubID)
}

// GetMeetingByID retrieves a single meeting by its ID.
func (s *MeetingService) GetMeetingByID(ctx context.Context, id string) (*models.Meeting, error) {
	return s.meetingRepo.GetByID(ctx, id)
}

// ScheduleMeeting creates a meeting organized by organizerID. The club must
// exist.
func (s *MeetingService) ScheduleMeeting(ctx context.Context, organizerID string, meeting *models.Meeting) error {
	if err := requireClub(ctx, s.clubRepo, meeting.ClubID); err != nil {
		return err
	}
	meeting.ID = ""
	meeting.OrganizerID = organizerID
	if meeting.Status == "" {
		meeting.Status = models.MeetingScheduled
	}

	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return err
	}

	publish(s.events, EventMeetingScheduled, map[string]interface{}{
		"meetingID":   meeting.ID,
		"clubID":      meeting.ClubID,
		"organizerID": meeting.OrganizerID,
		"dateTime":    meeting.DateTime,
	})
	return nil
}

// UpdateMeeting applies changes if organizerID organizes the meeting. A new
// club is checked only after ownership, so strangers always get 403 or 404.
func (s *MeetingService) UpdateMeeting(ctx context.Context, id, organizerID string, changes map[string]interface{}) (*models.Meeting, error) {
	if clubID, ok := changes["club_id"].(string); ok {
		m, err := s.meetingRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := requireOwner(m.OrganizerID, organizerID, "meeting"); err != nil {
			return nil, err
		}
		if err := requireClub(ctx, s.clubRepo, clubID); err != nil {
			return nil, err
		}
	}
	return s.meetingRepo.UpdateOwned(ctx, id, organizerID, changes)
}

// CancelMeeting deletes the meeting if organizerID organizes it.
func (s *MeetingService) CancelMeeting(ctx context.Context, id, organizerID string) error {
	return s.meetingRepo.DeleteOwned(ctx, id, organizerID)
}

// Attend adds userID to the attendees. Attending twice changes nothing.
func (s *MeetingService) Attend(ctx context.Context, meetingID, userID string) (*models.Meeting, error) {
	m, err := s.meetingRepo.AddAttendee(ctx, meetingID, userID)
	if err != nil {
		return nil, err
	}
	s.publishAttendance(m.ID, userID, true)
	return m, nil
}

// Unattend removes userID from the attendees. Removing an absent user changes
// nothing.
func (s *MeetingService) Unattend(ctx context.Context, meetingID, userID string) (*models.Meeting, error) {
	m, err := s.meetingRepo.RemoveAttendee(ctx, meetingID, userID)
	if err != nil {
		return nil, err
	}
	s.publishAttendance(m.ID, userID, false)
	return m, nil
}

func (s *MeetingService) publishAttendance(meetingID, userID string, attending bool) {
	publish(s.events, EventMeetingAttendance, map[string]interface{}{
		"meetingID": meetingID,
		"userID":    userID,
		"attending": attending,
	})
}

// requireOwner fails with Forbidden unless callerID is ownerID. The message
// matches the one of the owner-gated repositories.
func requireOwner(ownerID, callerID, resource string) error {
	if ownerID != callerID {
		return apperr.Forbidden("you can only edit a " + resource + " you own")
	}
	return nil
}

// requireClub fails with a validation error unless clubID names an existing
// club.
func requireClub(ctx context.Context, clubs repositories.ClubRepository, clubID string) error {
	ok, err := clubs.Exists(ctx, clubID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation(fmt.Sprintf("club %s does not exist", clubID), map[string]string{"club": "must reference an existing club"})
	}
	return nil
}
