package handlers

import (
	"bookclub/internal/middleware"
	"bookclub/internal/models"
	"bookclub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for discussion posts.
type PostHandler struct {
	service *services.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{
		service: service,
	}
}

// RegisterRoutes registers the post routes with the Fiber app.
func (h *PostHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	postRoutes := router.Group("/posts")
	postRoutes.Get("/", h.HandleGetPosts)
	postRoutes.Get("/club/:clubId", h.HandleGetClubPosts)
	postRoutes.Get("/:id", h.HandleGetPostByID)
	postRoutes.Post("/", requireAuth, h.HandleCreatePost)
	postRoutes.Put("/:id", requireAuth, h.HandleUpdatePost)
	postRoutes.Delete("/:id", requireAuth, h.HandleDeletePost)
	postRoutes.Post("/:id/like", requireAuth, h.HandleLike)
	postRoutes.Delete("/:id/like", requireAuth, h.HandleUnlike)
}

// CreatePostRequest is the body of POST /posts. Clients may send clubId for
// club.
type CreatePostRequest struct {
	Club       string  `json:"club" validate:"required,uuid"`
	Title      string  `json:"title" validate:"required,max=150"`
	Content    string  `json:"content" validate:"required"`
	ParentPost *string `json:"parentPost" validate:"omitempty,uuid"`
}

// UpdatePostRequest is the body of PUT /posts/:id. Absent fields are kept;
// the author cannot be changed.
type UpdatePostRequest struct {
	Club       *string `json:"club" validate:"omitempty,uuid"`
	Title      *string `json:"title" validate:"omitempty,min=1,max=150"`
	Content    *string `json:"content" validate:"omitempty,min=1"`
	ParentPost *string `json:"parentPost" validate:"omitempty,uuid"`
}

// HandleGetPosts retrieves all posts.
func (h *PostHandler) HandleGetPosts(c *fiber.Ctx) error {
	posts, err := h.service.GetAllPosts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// HandleGetClubPosts retrieves the posts of a club in creation order.
func (h *PostHandler) HandleGetClubPosts(c *fiber.Ctx) error {
	clubID, err := paramID(c, "clubId")
	if err != nil {
		return err
	}
	posts, err := h.service.GetClubPosts(c.UserContext(), clubID)
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// HandleGetPostByID retrieves a single post by its ID.
func (h *PostHandler) HandleGetPostByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.service.GetPostByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

// HandleCreatePost creates a post written by the caller.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := bindJSON(c, postAliases, &req); err != nil {
		return err
	}

	post := &models.Post{
		ClubID:       req.Club,
		Title:        req.Title,
		Content:      req.Content,
		ParentPostID: req.ParentPost,
	}
	if err := h.service.CreatePost(c.UserContext(), middleware.CurrentUserID(c), post); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleUpdatePost updates a post the caller wrote.
func (h *PostHandler) HandleUpdatePost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UpdatePostRequest
	if err := bindJSON(c, postAliases, &req); err != nil {
		return err
	}

	changes := changeSet{}
	changes.setString("club_id", req.Club)
	changes.setString("title", req.Title)
	changes.setString("content", req.Content)
	changes.setString("parent_post_id", req.ParentPost)
	// "parentPost": null turns a reply into a top-level post.
	changes.set("parent_post_id", nil, sentNull(c, "parentPost"))
	if err := requireChanges(changes); err != nil {
		return err
	}

	post, err := h.service.UpdatePost(c.UserContext(), id, middleware.CurrentUserID(c), changes)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

// HandleDeletePost deletes a post the caller wrote.
func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeletePost(c.UserContext(), id, middleware.CurrentUserID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Post deleted successfully",
	})
}

// HandleLike adds the caller to the post's likes.
func (h *PostHandler) HandleLike(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.service.Like(c.UserContext(), id, middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Post liked",
		"post":    post,
	})
}

// HandleUnlike removes the caller from the post's likes.
func (h *PostHandler) HandleUnlike(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.service.Unlike(c.UserContext(), id, middleware.CurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Like removed",
		"post":    post,
	})
}
