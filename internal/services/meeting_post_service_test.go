package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookclub/internal/apperr"
	"bookclub/internal/database"
	"bookclub/internal/models"
	"bookclub/internal/repositories"
	"bookclub/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Options{Driver: "sqlite", DSN: database.MemoryDSN(uuid.NewString())})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seedClub(t *testing.T, repo repositories.ClubRepository) string {
	t.Helper()
	club := &models.Club{Name: "Classics", Description: "Old books", Genre: "Classic", Schedule: models.ScheduleWeekly, MembersLimit: 5, IsActive: true, OwnerID: "owner"}
	require.NoError(t, repo.Create(context.Background(), club))
	return club.ID
}

func TestMeetingService_ScheduleRequiresExistingClub(t *testing.T) {
	ctx := context.Background()
	db := newServiceDB(t)
	clubs := repositories.NewGORMClubRepository(db)
	events := new(MockPublisher)
	service := services.NewMeetingService(repositories.NewGORMMeetingRepository(db), clubs, events)

	err := service.ScheduleMeeting(ctx, "org", &models.Meeting{ClubID: uuid.NewString(), Topic: "x", DateTime: time.Now(), Location: "y"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	events.On("PublishEvent", services.EventMeetingScheduled, mock.Anything).Return(nil).Once()
	events.On("PublishEvent", services.EventMeetingAttendance, mock.Anything).Return(nil).Twice()

	m := &models.Meeting{ClubID: seedClub(t, clubs), Topic: "Opening", OrganizerID: "spoofed", DateTime: time.Now(), Location: "Cafe"}
	require.NoError(t, service.ScheduleMeeting(ctx, "org", m))
	assert.Equal(t, "org", m.OrganizerID)
	assert.Equal(t, models.MeetingScheduled, m.Status)

	got, err := service.Attend(ctx, m.ID, "reader")
	require.NoError(t, err)
	assert.Equal(t, []string{"reader"}, got.Attendees)
	got, err = service.Unattend(ctx, m.ID, "reader")
	require.NoError(t, err)
	assert.Empty(t, got.Attendees)

	_, err = service.UpdateMeeting(ctx, m.ID, "org", map[string]interface{}{"club_id": uuid.NewString()})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = service.UpdateMeeting(ctx, m.ID, "stranger", map[string]interface{}{"club_id": uuid.NewString()})
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
	events.AssertExpectations(t)
}

func TestPostService_RendersMarkdownAndChecksParent(t *testing.T) {
	ctx := context.Background()
	db := newServiceDB(t)
	clubs := repositories.NewGORMClubRepository(db)
	service := services.NewPostService(repositories.NewGORMPostRepository(db), clubs, nil)
	clubID := seedClub(t, clubs)

	post := &models.Post{ClubID: clubID, Title: "Opening thoughts", Content: "**Loved** it <script>alert(1)</script>"}
	require.NoError(t, service.CreatePost(ctx, "author", post))
	assert.Equal(t, "author", post.AuthorID)
	assert.Contains(t, post.ContentHTML, "<strong>Loved</strong>")
	assert.NotContains(t, post.ContentHTML, "<script>")

	missing := uuid.NewString()
	err := service.CreatePost(ctx, "author", &models.Post{ClubID: clubID, Title: "Reply", Content: "x", ParentPostID: &missing})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	reply := &models.Post{ClubID: clubID, Title: "Reply", Content: "agreed", ParentPostID: &post.ID}
	require.NoError(t, service.CreatePost(ctx, "other", reply))

	_, err = service.UpdatePost(ctx, post.ID, "author", map[string]interface{}{"parent_post_id": post.ID})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = service.UpdatePost(ctx, post.ID, "stranger", map[string]interface{}{"parent_post_id": uuid.NewString()})
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	liked, err := service.Like(ctx, post.ID, "other")
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, liked.Likes)
	assert.NotEmpty(t, liked.ContentHTML)

	list, err := service.GetClubPosts(ctx, clubID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, post.ID, list[0].ID)
	assert.Equal(t, post.ID, *list[1].ParentPostID)
}
