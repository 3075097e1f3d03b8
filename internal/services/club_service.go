package services

import (
	"context"

	"bookclub/internal/models"
	"bookclub/internal/repositories"
)

// ClubService handles business logic related to clubs.
type ClubService struct {
	repo   repositories.ClubRepository
	events EventPublisher
}

// NewClubService creates a new ClubService. events may be nil.
func NewClubService(repo repositories.ClubRepository, events EventPublisher) *ClubService {
	return &ClubService{
		repo:   repo,
		events: events,
	}
}

// GetAllClubs retrieves all clubs.
func (s *ClubService) GetAllClubs(ctx context.Context) ([]models.Club, error) {
	return s.repo.GetAll(ctx)
}

// GetClubByID retrieves a single club by its ID.
func (s *ClubService) GetClubByID(ctx context.Context, id string) (*models.Club, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateClub stores a club owned by ownerID.
func (s *ClubService) CreateClub(ctx context.Context, ownerID string, club *models.Club) error {
	club.ID = ""
	club.OwnerID = ownerID
	if err := s.repo.Create(ctx, club); err != nil {
		return err
	}
	publish(s.events, EventClubCreated, map[string]interface{}{
		"clubID":  club.ID,
		"ownerID": club.OwnerID,
		"name":    club.Name,
	})
	return nil
}

// UpdateClub applies changes if ownerID owns the club.
func (s *ClubService) UpdateClub(ctx context.Context, id, ownerID string, changes map[string]interface{}) (*models.Club, error) {
	return s.repo.UpdateOwned(ctx, id, ownerID, changes)
}

// DeleteClub removes the club if ownerID owns it. Meetings, posts and
// progress records of the club are kept.
func (s *ClubService) DeleteClub(ctx context.Context, id, ownerID string) error {
	return s.repo.DeleteOwned(ctx, id, ownerID)
}
