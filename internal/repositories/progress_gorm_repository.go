package repositories

import (
	"context"
	"errors"
	"time"

	"bookclub/internal/apperr"
	"bookclub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var progressKeyColumns = []clause.Column{{Name: "user_id"}, {Name: "book_id"}, {Name: "club_id"}}

// GORMProgressRepository is a GORM implementation of ProgressRepository.
type GORMProgressRepository struct {
	db *gorm.DB
}

// NewGORMProgressRepository creates a new instance of GORMProgressRepository.
func NewGORMProgressRepository(db *gorm.DB) *GORMProgressRepository {
	return &GORMProgressRepository{
		db: db,
	}
}

// Upsert issues a single INSERT ... ON CONFLICT (user_id, book_id, club_id)
// DO UPDATE. The insert carries a freshly generated id; reading the row back
// by key and comparing ids tells whether this call inserted it.
func (r *GORMProgressRepository) Upsert(ctx context.Context, key ProgressKey, changes ProgressChanges) (*models.ReadingProgress, bool, error) {
	now := time.Now()
	row := models.ReadingProgress{
		ID:        uuid.New().String(),
		UserID:    key.UserID,
		BookID:    key.BookID,
		ClubID:    key.ClubID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	update := []string{"updated_at"}
	if changes.Percentage != nil {
		row.Percentage = *changes.Percentage
		update = append(update, "percentage")
	}
	if changes.CurrentPage != nil {
		row.CurrentPage = *changes.CurrentPage
		update = append(update, "current_page")
	}
	if changes.Notes != nil {
		row.Notes = *changes.Notes
		update = append(update, "notes")
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   progressKeyColumns,
		DoUpdates: clause.AssignmentColumns(update),
	}).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, apperr.Conflict("concurrent progress update, please retry", err)
	}
	if err != nil {
		return nil, false, translate(err, "reading progress")
	}

	stored, err := r.GetByKey(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return stored, stored.ID == row.ID, nil
}

func (r *GORMProgressRepository) GetByID(ctx context.Context, id string) (*models.ReadingProgress, error) {
	var p models.ReadingProgress
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, "reading progress")
	}
	return &p, nil
}

func (r *GORMProgressRepository) GetByKey(ctx context.Context, key ProgressKey) (*models.ReadingProgress, error) {
	var p models.ReadingProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND club_id = ?", key.UserID, key.BookID, key.ClubID).
		First(&p).Error
	if err != nil {
		return nil, translate(err, "reading progress")
	}
	return &p, nil
}

// ListByClub returns a club's progress records, furthest along first. Equal
// percentages keep creation order.
func (r *GORMProgressRepository) ListByClub(ctx context.Context, clubID string) ([]models.ReadingProgress, error) {
	list := []models.ReadingProgress{}
	err := r.db.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("percentage DESC").Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err, "reading progress")
	}
	return list, nil
}

func (r *GORMProgressRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.ReadingProgress{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "reading progress")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("reading progress")
	}
	return nil
}
