package repositories

import (
	"context"

	"bookclub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var postLikes = memberSet{table: "post_likes", parentColumn: "post_id"}

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db    *gorm.DB
	store *OwnedStore[models.Post]
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db:    db,
		store: NewOwnedStore[models.Post](db, "author_id", "post"),
	}
}

// GetAll returns every post in creation order.
func (r *GORMPostRepository) GetAll(ctx context.Context) ([]models.Post, error) {
	posts, err := r.store.List(ctx, nil, "created_at")
	if err != nil {
		return nil, err
	}
	return posts, r.withLikes(ctx, posts)
}

// ListByClub returns the posts of a club in creation order, so replies follow
// the posts they answer.
func (r *GORMPostRepository) ListByClub(ctx context.Context, clubID string) ([]models.Post, error) {
	posts, err := r.store.List(ctx, map[string]interface{}{"club_id": clubID}, "created_at")
	if err != nil {
		return nil, err
	}
	return posts, r.withLikes(ctx, posts)
}

func (r *GORMPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	p, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, r.attach(ctx, p)
}

func (r *GORMPostRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.store.Exists(ctx, id)
}

func (r *GORMPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if err := r.store.Create(ctx, post); err != nil {
		return err
	}
	post.Likes = []string{}
	return nil
}

func (r *GORMPostRepository) UpdateOwned(ctx context.Context, id, authorID string, changes map[string]interface{}) (*models.Post, error) {
	p, err := r.store.UpdateOwned(ctx, id, authorID, changes)
	if err != nil {
		return nil, err
	}
	return p, r.attach(ctx, p)
}

// DeleteOwned removes the post and its likes. Replies keep pointing at the
// deleted post.
func (r *GORMPostRepository) DeleteOwned(ctx context.Context, id, authorID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.store.WithTx(tx).DeleteOwned(ctx, id, authorID); err != nil {
			return err
		}
		return translate(postLikes.clear(ctx, tx, &models.PostLike{}, id), "post")
	})
}

// AddLike inserts userID into the likes set. Liking twice is a no-op.
func (r *GORMPostRepository) AddLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	if _, err := r.store.Get(ctx, postID); err != nil {
		return nil, err
	}
	if err := postLikes.add(ctx, r.db, &models.PostLike{PostID: postID, UserID: userID}); err != nil {
		return nil, translate(err, "post")
	}
	return r.GetByID(ctx, postID)
}

// RemoveLike removes userID from the likes set. Removing an absent like is a
// no-op.
func (r *GORMPostRepository) RemoveLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	if _, err := r.store.Get(ctx, postID); err != nil {
		return nil, err
	}
	if err := postLikes.remove(ctx, r.db, &models.PostLike{}, postID, userID); err != nil {
		return nil, translate(err, "post")
	}
	return r.GetByID(ctx, postID)
}

func (r *GORMPostRepository) attach(ctx context.Context, p *models.Post) error {
	one := []models.Post{*p}
	if err := r.withLikes(ctx, one); err != nil {
		return err
	}
	p.Likes = one[0].Likes
	return nil
}

func (r *GORMPostRepository) withLikes(ctx context.Context, posts []models.Post) error {
	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	sets, err := postLikes.load(ctx, r.db, ids)
	if err != nil {
		return translate(err, "post")
	}
	for i := range posts {
		posts[i].Likes = sets[posts[i].ID]
		if posts[i].Likes == nil {
			posts[i].Likes = []string{}
		}
	}
	return nil
}
