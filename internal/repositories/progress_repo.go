package repositories

import (
	"context"

	"bookclub/internal/models"
)

// ProgressKey identifies a reading-progress record. ClubID is "" for records
// not tied to a club.
type ProgressKey struct {
	UserID string
	BookID string
	ClubID string
}

// ProgressChanges lists the fields supplied by a progress update. Nil fields
// keep their stored value, or take the column default on insert.
type ProgressChanges struct {
	Percentage  *float64
	CurrentPage *int
	Notes       *string
}

// ProgressRepository defines the interface for reading-progress data access.
type ProgressRepository interface {
	// Upsert creates the record for key or updates it in place, atomically.
	// created reports which of the two happened.
	Upsert(ctx context.Context, key ProgressKey, changes ProgressChanges) (progress *models.ReadingProgress, created bool, err error)
	GetByID(ctx context.Context, id string) (*models.ReadingProgress, error)
	GetByKey(ctx context.Context, key ProgressKey) (*models.ReadingProgress, error)
	ListByClub(ctx context.Context, clubID string) ([]models.ReadingProgress, error)
	Delete(ctx context.Context, id string) error
}
