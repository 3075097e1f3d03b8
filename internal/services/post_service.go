package services

import (
	"bytes"
	"context"
	"fmt"

	"bookclub/internal/apperr"
	"bookclub/internal/logging"
	"bookclub/internal/models"
	"bookclub/internal/repositories"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// PostService handles business logic related to discussion posts.
type PostService struct {
	postRepo repositories.PostRepository
	clubRepo repositories.ClubRepository
	events   EventPublisher
	markdown goldmark.Markdown
}

// NewPostService creates a new PostService. events may be nil.
func NewPostService(postRepo repositories.PostRepository, clubRepo repositories.ClubRepository, events EventPublisher) *PostService {
	return &PostService{
		postRepo: postRepo,
		clubRepo: clubRepo,
		events:   events,
		// Raw HTML in post content is not rendered.
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// GetAllPosts retrieves all posts.
func (s *PostService) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.postRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.renderAll(posts)
	return posts, nil
}

// GetClubPosts retrieves the posts of one club in creation order.
func (s *PostService) GetClubPosts(ctx context.Context, clubID string) ([]models.Post, error) {
	posts, err := s.postRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	s.renderAll(posts)
	return posts, nil
}

// GetPostByID retrieves a single post by its ID.
func (s *PostService) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	return s.rendered(s.postRepo.GetByID(ctx, id))
}

// CreatePost stores a post written by authorID. The club and, for replies,
// the parent post must exist.
func (s *PostService) CreatePost(ctx context.Context, authorID string, post *models.Post) error {
	if err := requireClub(ctx, s.clubRepo, post.ClubID); err != nil {
		return err
	}
	if post.ParentPostID != nil {
		if err := s.requireParent(ctx, *post.ParentPostID); err != nil {
			return err
		}
	}
	post.ID = ""
	post.AuthorID = authorID

	if err := s.postRepo.Create(ctx, post); err != nil {
		return err
	}
	s.render(post)

	publish(s.events, EventPostCreated, map[string]interface{}{
		"postID":   post.ID,
		"clubID":   post.ClubID,
		"authorID": post.AuthorID,
		"reply":    post.ParentPostID != nil,
	})
	return nil
}

// UpdatePost applies changes if authorID wrote the post. Referenced club and
// parent are checked only after ownership.
func (s *PostService) UpdatePost(ctx context.Context, id, authorID string, changes map[string]interface{}) (*models.Post, error) {
	_, movesClub := changes["club_id"]
	_, changesParent := changes["parent_post_id"]
	if movesClub || changesParent {
		p, err := s.postRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := requireOwner(p.AuthorID, authorID, "post"); err != nil {
			return nil, err
		}
	}
	if clubID, ok := changes["club_id"].(string); ok {
		if err := requireClub(ctx, s.clubRepo, clubID); err != nil {
			return nil, err
		}
	}
	if parentID, ok := changes["parent_post_id"].(string); ok {
		if parentID == id {
			return nil, apperr.Validation("a post cannot reply to itself", map[string]string{"parentPost": "must reference another post"})
		}
		if err := s.requireParent(ctx, parentID); err != nil {
			return nil, err
		}
	}
	return s.rendered(s.postRepo.UpdateOwned(ctx, id, authorID, changes))
}

// DeletePost removes the post if authorID wrote it. Replies are kept.
func (s *PostService) DeletePost(ctx context.Context, id, authorID string) error {
	return s.postRepo.DeleteOwned(ctx, id, authorID)
}

// Like adds userID to the post's likes.
func (s *PostService) Like(ctx context.Context, postID, userID string) (*models.Post, error) {
	return s.rendered(s.postRepo.AddLike(ctx, postID, userID))
}

// Unlike removes userID from the post's likes.
func (s *PostService) Unlike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return s.rendered(s.postRepo.RemoveLike(ctx, postID, userID))
}

func (s *PostService) requireParent(ctx context.Context, parentID string) error {
	ok, err := s.postRepo.Exists(ctx, parentID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Validation(fmt.Sprintf("parent post %s does not exist", parentID), map[string]string{"parentPost": "must reference an existing post"})
	}
	return nil
}

func (s *PostService) rendered(p *models.Post, err error) (*models.Post, error) {
	if err != nil {
		return nil, err
	}
	s.render(p)
	return p, nil
}

func (s *PostService) renderAll(posts []models.Post) {
	for i := range posts {
		s.render(&posts[i])
	}
}

// render fills ContentHTML from the markdown content. A rendering failure
// leaves it empty.
func (s *PostService) render(p *models.Post) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(p.Content), &buf); err != nil {
		logging.Warn().Err(err).Str("post", p.ID).Msg("failed to render post content")
		p.ContentHTML = ""
		return
	}
	p.ContentHTML = buf.String()
}
