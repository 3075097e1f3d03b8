package handlers

import (
	"errors"
	"time"

	"bookclub/internal/apperr"
	"bookclub/internal/middleware"
	"bookclub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService  *services.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the token
// cookie Secure, for deployments behind HTTPS.
func NewAuthHandler(authService *services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes registers the authentication routes under router and
// router/users. limiter guards the credential endpoints and may be nil.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, limiter fiber.Handler) {
	guard := func(c *fiber.Ctx) error { return c.Next() }
	if limiter != nil {
		guard = limiter
	}
	requireAuth := middleware.AuthRequired(h.authService)

	for _, group := range []fiber.Router{router, router.Group("/users")} {
		group.Post("/register", guard, h.HandleRegister)
		group.Post("/login", guard, h.HandleLogin)
		group.Get("/logout", h.HandleLogout)
		group.Get("/profile", requireAuth, h.HandleProfile)
	}
	if h.authService.FederatedLoginEnabled() {
		router.Post("/auth/google", guard, h.HandleGoogleLogin)
	}
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bindJSON(c, nil, &req); err != nil {
		return err
	}

	user, err := h.authService.RegisterUser(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		// Duplicate accounts are reported as a bad request on this path.
		var ae *apperr.Error
		if errors.Is(err, apperr.ErrConflict) && errors.As(err, &ae) {
			return apperr.Validation(ae.Message, nil)
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"userId":  user.ID,
	})
}

// LoginRequest represents the request body for login. Either username or
// email identifies the account.
type LoginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token, both in the body
// and as an httpOnly cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bindJSON(c, nil, &req); err != nil {
		return err
	}

	token, user, err := h.authService.LoginUser(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token, time.Now().Add(h.authService.TokenTTL()))
	return c.JSON(fiber.Map{
		"message":  "Login successful",
		"token":    token,
		"userId":   user.ID,
		"username": user.Username,
	})
}

// HandleLogout clears the token cookie. Issued tokens stay valid until they
// expire.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	h.setTokenCookie(c, "", time.Unix(0, 0))
	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

// HandleProfile returns the caller's token claims.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Authenticated",
		"user":    middleware.CurrentClaims(c),
	})
}

// GoogleLoginRequest carries a Google ID token.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// HandleGoogleLogin signs in with a Google ID token.
func (h *AuthHandler) HandleGoogleLogin(c *fiber.Ctx) error {
	var req GoogleLoginRequest
	if err := bindJSON(c, fieldAliases{"id_token": "idToken"}, &req); err != nil {
		return err
	}

	token, user, err := h.authService.LoginWithGoogle(c.UserContext(), req.IDToken)
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token, time.Now().Add(h.authService.TokenTTL()))
	return c.JSON(fiber.Map{
		"message":  "Login successful",
		"token":    token,
		"userId":   user.ID,
		"username": user.Username,
	})
}

func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
