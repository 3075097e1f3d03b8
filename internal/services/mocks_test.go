package services_test

import (
	"context"

	"bookclub/internal/models"
	"bookclub/internal/repositories"
	"bookclub/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.user(m.Called(ctx, username))
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return m.user(m.Called(ctx, googleID))
}

func (m *MockUserRepository) LinkGoogleID(ctx context.Context, userID, googleID string) error {
	args := m.Called(ctx, userID, googleID)
	return args.Error(0)
}

func (m *MockUserRepository) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockClubRepository is a mock implementation of repositories.ClubRepository
type MockClubRepository struct {
	mock.Mock
}

func (m *MockClubRepository) GetAll(ctx context.Context) ([]models.Club, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Club), args.Error(1)
}

func (m *MockClubRepository) GetByID(ctx context.Context, id string) (*models.Club, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Club), args.Error(1)
}

func (m *MockClubRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockClubRepository) Create(ctx context.Context, club *models.Club) error {
	args := m.Called(ctx, club)
	return args.Error(0)
}

func (m *MockClubRepository) UpdateOwned(ctx context.Context, id, ownerID string, changes map[string]interface{}) (*models.Club, error) {
	args := m.Called(ctx, id, ownerID, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Club), args.Error(1)
}

func (m *MockClubRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

// MockProgressRepository is a mock implementation of repositories.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Upsert(ctx context.Context, key repositories.ProgressKey, changes repositories.ProgressChanges) (*models.ReadingProgress, bool, error) {
	args := m.Called(ctx, key, changes)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.ReadingProgress), args.Bool(1), args.Error(2)
}

func (m *MockProgressRepository) GetByID(ctx context.Context, id string) (*models.ReadingProgress, error) {
	return m.progress(m.Called(ctx, id))
}

func (m *MockProgressRepository) GetByKey(ctx context.Context, key repositories.ProgressKey) (*models.ReadingProgress, error) {
	return m.progress(m.Called(ctx, key))
}

func (m *MockProgressRepository) ListByClub(ctx context.Context, clubID string) ([]models.ReadingProgress, error) {
	args := m.Called(ctx, clubID)
	return args.Get(0).([]models.ReadingProgress), args.Error(1)
}

func (m *MockProgressRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProgressRepository) progress(args mock.Arguments) (*models.ReadingProgress, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReadingProgress), args.Error(1)
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(routingKey string, payload interface{}) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}

// MockObserver records upsert outcomes.
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) ObserveProgressUpsert(outcome string) {
	m.Called(outcome)
}

var (
	_ services.EventPublisher   = (*MockPublisher)(nil)
	_ services.ProgressObserver = (*MockObserver)(nil)
)
