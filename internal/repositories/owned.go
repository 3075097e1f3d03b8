package repositories

import (
	"context"
	"time"

	"bookclub/internal/apperr"

	"gorm.io/gorm"
)

// OwnedStore implements storage for a resource type whose rows carry an owner
// column. Mutations are issued as a single statement filtered by both id and
// owner; when nothing matches, a lookup by id tells a missing row (NotFound)
// from one owned by someone else (Forbidden).
type OwnedStore[T any] struct {
	db          *gorm.DB
	ownerColumn string
	resource    string
}

// NewOwnedStore creates a store for T. ownerColumn is the database column
// holding the owner's user id, resource names T in error messages.
func NewOwnedStore[T any](db *gorm.DB, ownerColumn, resource string) *OwnedStore[T] {
	return &OwnedStore[T]{db: db, ownerColumn: ownerColumn, resource: resource}
}

// WithTx returns a copy of the store that runs its statements on tx.
func (s *OwnedStore[T]) WithTx(tx *gorm.DB) *OwnedStore[T] {
	return &OwnedStore[T]{db: tx, ownerColumn: s.ownerColumn, resource: s.resource}
}

// DB returns the store's handle bound to ctx.
func (s *OwnedStore[T]) DB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Create inserts row. Callers assign the id.
func (s *OwnedStore[T]) Create(ctx context.Context, row *T) error {
	return translate(s.DB(ctx).Create(row).Error, s.resource)
}

// Get loads the row with the given id.
func (s *OwnedStore[T]) Get(ctx context.Context, id string) (*T, error) {
	var row T
	if err := s.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err, s.resource)
	}
	return &row, nil
}

// Exists reports whether a row with the given id exists.
func (s *OwnedStore[T]) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := s.DB(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, translate(err, s.resource)
	}
	return n > 0, nil
}

// List returns the rows matching where (nil for all), in the given order.
func (s *OwnedStore[T]) List(ctx context.Context, where map[string]interface{}, order string) ([]T, error) {
	rows := []T{}
	q := s.DB(ctx)
	if len(where) > 0 {
		q = q.Where(where)
	}
	if order != "" {
		q = q.Order(order)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, translate(err, s.resource)
	}
	return rows, nil
}

// UpdateOwned applies changes to the row identified by id if ownerID owns it,
// and returns the updated row.
func (s *OwnedStore[T]) UpdateOwned(ctx context.Context, id, ownerID string, changes map[string]interface{}) (*T, error) {
	if changes == nil {
		changes = map[string]interface{}{}
	}
	changes["updated_at"] = time.Now()

	res := s.DB(ctx).Model(new(T)).
		Where(map[string]interface{}{"id": id, s.ownerColumn: ownerID}).
		Updates(changes)
	if res.Error != nil {
		return nil, translate(res.Error, s.resource)
	}
	if res.RowsAffected == 0 {
		return nil, s.missingOrForbidden(ctx, id, "edit")
	}
	return s.Get(ctx, id)
}

// DeleteOwned removes the row identified by id if ownerID owns it.
func (s *OwnedStore[T]) DeleteOwned(ctx context.Context, id, ownerID string) error {
	res := s.DB(ctx).
		Where(map[string]interface{}{"id": id, s.ownerColumn: ownerID}).
		Delete(new(T))
	if res.Error != nil {
		return translate(res.Error, s.resource)
	}
	if res.RowsAffected == 0 {
		return s.missingOrForbidden(ctx, id, "delete")
	}
	return nil
}

func (s *OwnedStore[T]) missingOrForbidden(ctx context.Context, id, action string) error {
	exists, err := s.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound(s.resource)
	}
	return apperr.Forbidden("you can only " + action + " a " + s.resource + " you own")
}
