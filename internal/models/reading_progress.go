package models

import "time"

// ReadingProgress tracks how far a user is into a book, optionally within a
// club. (UserID, BookID, ClubID) is unique; ClubID is "" when the record is
// not tied to a club, so the unique index covers those rows too.
type ReadingProgress struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string    `json:"user" gorm:"uniqueIndex:idx_progress_key;type:varchar(36);not null"`
	BookID      string    `json:"book" gorm:"uniqueIndex:idx_progress_key;type:varchar(36);not null"`
	ClubID      string    `json:"club,omitempty" gorm:"uniqueIndex:idx_progress_key;index;type:varchar(36);not null"`
	Percentage  float64   `json:"percentage" gorm:"not null"`
	CurrentPage int       `json:"currentPage" gorm:"not null"`
	Notes       string    `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName keeps the table name stable regardless of naming strategy.
func (ReadingProgress) TableName() string { return "reading_progress" }

// All returns every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{}, &Club{}, &Book{}, &Meeting{}, &MeetingAttendee{},
		&Post{}, &PostLike{}, &ReadingProgress{},
	}
}
