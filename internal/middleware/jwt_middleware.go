package middleware

import (
	"strings"

	"bookclub/internal/apperr"
	"bookclub/internal/logging"
	"bookclub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TokenCookie is the cookie set on login and read when no Authorization
// header is sent.
const TokenCookie = "jwt"

// Locals keys set by AuthRequired.
const (
	LocalUserID   = "userID"
	LocalUsername = "username"
	LocalClaims   = "claims"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token. The
// token is taken from "Authorization: Bearer <token>" or, failing that, from
// the jwt cookie. Claims are trusted until expiry; the user is not reloaded.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractToken(c)
		if err != nil {
			return err
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			logging.Debug().Err(err).Str("path", c.Path()).Msg("JWT validation failed")
			return apperr.Unauthenticated("invalid or expired token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalClaims, claims)

		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) (string, error) {
	var token string
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && strings.EqualFold(parts[0], "Bearer")) {
			return "", apperr.Unauthenticated("authorization header format must be 'Bearer <token>'")
		}
		token = strings.TrimSpace(parts[1])
	} else {
		token = strings.TrimSpace(c.Cookies(TokenCookie))
	}

	// Clients sometimes send a stringified missing variable.
	if token == "" || strings.EqualFold(token, "undefined") {
		return "", apperr.Unauthenticated("authentication token is required")
	}
	return token, nil
}

// CurrentUserID returns the caller's id set by AuthRequired.
func CurrentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

// CurrentClaims returns the verified claims set by AuthRequired.
func CurrentClaims(c *fiber.Ctx) *services.Claims {
	claims, _ := c.Locals(LocalClaims).(*services.Claims)
	return claims
}
