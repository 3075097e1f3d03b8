package models

import "time"

// Meeting cadences a club can run on.
const (
	ScheduleWeekly   = "Weekly"
	ScheduleBiweekly = "Biweekly"
	ScheduleMonthly  = "Monthly"
)

// Club is a reading group. OwnerID is the user who created it and the only
// one allowed to change it.
type Club struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string    `json:"name" gorm:"type:varchar(200);not null"`
	Description  string    `json:"description" gorm:"type:text;not null"`
	Genre        string    `json:"genre" gorm:"type:varchar(100);not null"`
	Schedule     string    `json:"schedule" gorm:"type:varchar(20);not null"`
	MembersLimit int       `json:"membersLimit" gorm:"not null"`
	IsActive     bool      `json:"isActive" gorm:"not null"`
	OwnerID      string    `json:"owner" gorm:"index;type:varchar(36);not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
