package services

import (
	"context"
	"errors"
	"fmt"

	"bookclub/internal/apperr"
	"bookclub/internal/models"
	"bookclub/internal/repositories"
)

// Upsert outcomes reported to a ProgressObserver.
const (
	OutcomeCreated  = "created"
	OutcomeUpdated  = "updated"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// ProgressObserver is notified of every upsert outcome.
type ProgressObserver interface {
	ObserveProgressUpsert(outcome string)
}

// RecordProgressInput is a progress update for (UserID, BookID, ClubID).
// ClubID is empty for progress outside a club. Nil fields are left
// unchanged, or default to zero on creation.
type RecordProgressInput struct {
	UserID      string
	BookID      string
	ClubID      string
	Percentage  *float64
	CurrentPage *int
	Notes       *string
}

// ProgressService handles reading-progress records.
type ProgressService struct {
	progressRepo repositories.ProgressRepository
	bookRepo     repositories.BookRepository
	clubRepo     repositories.ClubRepository
	events       EventPublisher
	observer     ProgressObserver
}

// NewProgressService creates a new ProgressService. events and observer may
// be nil.
func NewProgressService(progressRepo repositories.ProgressRepository, bookRepo repositories.BookRepository, clubRepo repositories.ClubRepository, events EventPublisher, observer ProgressObserver) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		bookRepo:     bookRepo,
		clubRepo:     clubRepo,
		events:       events,
		observer:     observer,
	}
}

// RecordProgress creates the record for the input's key or updates it in
// place. created reports which happened.
func (s *ProgressService) RecordProgress(ctx context.Context, in RecordProgressInput) (*models.ReadingProgress, bool, error) {
	if err := validateProgress(in); err != nil {
		return nil, false, err
	}

	ok, err := s.bookRepo.Exists(ctx, in.BookID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, apperr.Validation(fmt.Sprintf("book %s does not exist", in.BookID), map[string]string{"book": "must reference an existing book"})
	}
	if in.ClubID != "" {
		if err := requireClub(ctx, s.clubRepo, in.ClubID); err != nil {
			return nil, false, err
		}
	}

	key := repositories.ProgressKey{UserID: in.UserID, BookID: in.BookID, ClubID: in.ClubID}
	progress, created, err := s.progressRepo.Upsert(ctx, key, repositories.ProgressChanges{
		Percentage:  in.Percentage,
		CurrentPage: in.CurrentPage,
		Notes:       in.Notes,
	})
	if err != nil {
		s.observe(upsertOutcome(err))
		return nil, false, err
	}

	if created {
		s.observe(OutcomeCreated)
	} else {
		s.observe(OutcomeUpdated)
	}
	publish(s.events, EventProgressRecorded, map[string]interface{}{
		"progressID": progress.ID,
		"userID":     progress.UserID,
		"bookID":     progress.BookID,
		"clubID":     progress.ClubID,
		"percentage": progress.Percentage,
		"created":    created,
	})
	return progress, created, nil
}

// GetProgress returns a record owned by callerID.
func (s *ProgressService) GetProgress(ctx context.Context, id, callerID string) (*models.ReadingProgress, error) {
	p, err := s.progressRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != callerID {
		return nil, apperr.Forbidden("you can only view your own reading progress")
	}
	return p, nil
}

// FindProgress returns the record for the key, or nil when there is none.
func (s *ProgressService) FindProgress(ctx context.Context, userID, bookID, clubID string) (*models.ReadingProgress, error) {
	p, err := s.progressRepo.GetByKey(ctx, repositories.ProgressKey{UserID: userID, BookID: bookID, ClubID: clubID})
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// GetClubProgress lists a club's progress, highest percentage first.
func (s *ProgressService) GetClubProgress(ctx context.Context, clubID string) ([]models.ReadingProgress, error) {
	return s.progressRepo.ListByClub(ctx, clubID)
}

// DeleteProgress loads the record and deletes it if callerID owns it.
func (s *ProgressService) DeleteProgress(ctx context.Context, id, callerID string) error {
	p, err := s.progressRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.UserID != callerID {
		return apperr.Forbidden("you can only delete your own reading progress")
	}
	return s.progressRepo.Delete(ctx, id)
}

func (s *ProgressService) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveProgressUpsert(outcome)
	}
}

func upsertOutcome(err error) string {
	if errors.Is(err, apperr.ErrConflict) {
		return OutcomeConflict
	}
	return OutcomeError
}

func validateProgress(in RecordProgressInput) error {
	fields := map[string]string{}
	if in.BookID == "" {
		fields["book"] = "is required"
	}
	if in.Percentage != nil && (*in.Percentage < 0 || *in.Percentage > 100) {
		fields["percentage"] = "must be between 0 and 100"
	}
	if in.CurrentPage != nil && *in.CurrentPage < 0 {
		fields["currentPage"] = "must be 0 or greater"
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid reading progress", fields)
	}
	return nil
}
