package services_test

import (
	"context"
	"testing"

	"bookclub/internal/models"
	"bookclub/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClubService_CreateClubSetsOwnerAndPublishes(t *testing.T) {
	ctx := context.Background()
	repo := new(MockClubRepository)
	events := new(MockPublisher)
	service := services.NewClubService(repo, events)

	club := &models.Club{Name: "Mystery", OwnerID: "spoofed"}
	repo.On("Create", ctx, club).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Club).ID = "club-1"
	}).Return(nil).Once()
	events.On("PublishEvent", services.EventClubCreated, mock.Anything).Return(nil).Once()

	require.NoError(t, service.CreateClub(ctx, "owner-1", club))
	assert.Equal(t, "owner-1", club.OwnerID)
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestClubService_PublishFailureIsNotAnError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockClubRepository)
	events := new(MockPublisher)
	service := services.NewClubService(repo, events)

	repo.On("Create", ctx, mock.Anything).Return(nil).Once()
	events.On("PublishEvent", services.EventClubCreated, mock.Anything).Return(assert.AnError).Once()

	assert.NoError(t, service.CreateClub(ctx, "owner-1", &models.Club{Name: "Poetry"}))
	events.AssertExpectations(t)
}
