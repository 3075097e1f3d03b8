package models

import "time"

// Meeting lifecycle states.
const (
	MeetingScheduled = "Scheduled"
	MeetingCanceled  = "Canceled"
	MeetingCompleted = "Completed"
)

// Meeting is a club session. Attendees is loaded from MeetingAttendee rows.
type Meeting struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ClubID      string    `json:"club" gorm:"index;type:varchar(36);not null"`
	Topic       string    `json:"topic" gorm:"type:varchar(255);not null"`
	OrganizerID string    `json:"organizer" gorm:"index;type:varchar(36);not null"`
	DateTime    time.Time `json:"dateTime" gorm:"not null"`
	Location    string    `json:"location" gorm:"type:varchar(255);not null"`
	Status      string    `json:"status" gorm:"type:varchar(20);not null"`
	Attendees   []string  `json:"attendees" gorm:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MeetingAttendee is one (meeting, user) pair of the attendee set.
type MeetingAttendee struct {
	MeetingID string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time
}
