package models

import "time"

// Post is a discussion entry in a club. ParentPostID is nil for top-level
// posts; replies point at the post they answer.
type Post struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ClubID       string    `json:"club" gorm:"index;type:varchar(36);not null"`
	AuthorID     string    `json:"author" gorm:"index;type:varchar(36);not null"`
	Title        string    `json:"title" gorm:"type:varchar(150);not null"`
	Content      string    `json:"content" gorm:"type:text;not null"`
	ContentHTML  string    `json:"contentHtml" gorm:"-"`
	ParentPostID *string   `json:"parentPost" gorm:"index;type:varchar(36)"`
	Likes        []string  `json:"likes" gorm:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PostLike is one (post, user) pair of the likes set.
type PostLike struct {
	PostID    string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time
}
