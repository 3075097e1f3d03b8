package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// memberSet is a set of user ids attached to a parent row through a join
// table whose primary key is (parentColumn, user_id). Insertion ignores
// existing pairs, so both add and remove are idempotent.
type memberSet struct {
	table        string
	parentColumn string
}

func (m memberSet) add(ctx context.Context, db *gorm.DB, row interface{}) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
}

// remove deletes the (parentID, userID) pair; model is a pointer to the join
// table's row type.
func (m memberSet) remove(ctx context.Context, db *gorm.DB, model interface{}, parentID, userID string) error {
	return db.WithContext(ctx).
		Where(m.parentColumn+" = ? AND user_id = ?", parentID, userID).
		Delete(model).Error
}

// clear removes every member of parentID.
func (m memberSet) clear(ctx context.Context, db *gorm.DB, model interface{}, parentID string) error {
	return db.WithContext(ctx).Where(m.parentColumn+" = ?", parentID).Delete(model).Error
}

// load returns the member ids of every parent in parentIDs, in insertion order.
func (m memberSet) load(ctx context.Context, db *gorm.DB, parentIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(parentIDs))
	if len(parentIDs) == 0 {
		return out, nil
	}
	var pairs []struct {
		ParentID string
		UserID   string
	}
	err := db.WithContext(ctx).Table(m.table).
		Select(m.parentColumn+" AS parent_id, user_id").
		Where(m.parentColumn+" IN ?", parentIDs).
		Order("created_at, user_id").
		Scan(&pairs).Error
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		out[p.ParentID] = append(out[p.ParentID], p.UserID)
	}
	return out, nil
}
