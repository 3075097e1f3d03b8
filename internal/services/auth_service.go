package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookclub/internal/apperr"
	"bookclub/internal/logging"
	"bookclub/internal/models"
	"bookclub/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the fixed hashing cost for stored passwords.
const BcryptCost = 10

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 24 * time.Hour

const invalidCredentials = "invalid credentials"

// Claims are the identity claims carried by an access token.
type Claims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	jwt.StandardClaims
}

// GoogleIdentity is the verified content of a Google ID token.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// IDTokenVerifier verifies a federated ID token.
type IDTokenVerifier interface {
	Verify(idToken string) (*GoogleIdentity, error)
}

// GoogleVerifier checks Google ID tokens against the configured client id.
type GoogleVerifier struct {
	ClientID string
}

func (g GoogleVerifier) Verify(idToken string) (*GoogleIdentity, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{g.ClientID}); err != nil {
		return nil, err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, err
	}
	return &GoogleIdentity{
		Subject:       claimSet.Sub,
		Email:         claimSet.Email,
		EmailVerified: claimSet.EmailVerified,
		Name:          claimSet.Name,
	}, nil
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	verifier  IDTokenVerifier
}

// NewAuthService creates a new AuthService. A zero tokenTTL selects
// DefaultTokenTTL.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// WithIDTokenVerifier enables federated login.
func (s *AuthService) WithIDTokenVerifier(v IDTokenVerifier) *AuthService {
	s.verifier = v
	return s
}

// FederatedLoginEnabled reports whether LoginWithGoogle can be used.
func (s *AuthService) FederatedLoginEnabled() bool {
	return s.verifier != nil
}

// RegisterUser hashes the password and stores a new account. A taken
// username or email is a Conflict.
func (s *AuthService) RegisterUser(ctx context.Context, username, email, password string) (*models.User, error) {
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, apperr.Conflict(fmt.Sprintf("username '%s' already taken", username), nil)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict(fmt.Sprintf("email '%s' already registered", email), nil)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	// The unique indexes catch a concurrent registration of the same name.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Conflict("username or email already registered", err)
		}
		return nil, err
	}
	logging.Info().Str("user", user.ID).Msg("user registered")
	return user, nil
}

// LoginUser authenticates by username, or by email when no username is
// given, and returns a signed token. Unknown users and wrong passwords fail
// with the same message.
func (s *AuthService) LoginUser(ctx context.Context, username, email, password string) (string, *models.User, error) {
	var (
		user *models.User
		err  error
	)
	switch {
	case username != "":
		user, err = s.userRepo.GetByUsername(ctx, username)
	case email != "":
		user, err = s.userRepo.GetByEmail(ctx, email)
	default:
		return "", nil, apperr.Unauthenticated(invalidCredentials)
	}
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", nil, apperr.Unauthenticated(invalidCredentials)
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperr.Unauthenticated(invalidCredentials)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// LoginWithGoogle verifies a Google ID token and signs in the matching
// account. Accounts are matched by Google subject, then by email (linking the
// identity), and created when neither exists. Matching or creating by email
// requires Google to have verified the address.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (string, *models.User, error) {
	if s.verifier == nil {
		return "", nil, apperr.Unauthenticated("federated login is not configured")
	}
	identity, err := s.verifier.Verify(idToken)
	if err != nil {
		return "", nil, apperr.Unauthenticated("invalid Google ID token")
	}

	user, err := s.userRepo.GetByGoogleID(ctx, identity.Subject)
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrNotFound):
		user, err = s.linkOrCreateGoogleUser(ctx, identity)
		if err != nil {
			return "", nil, err
		}
	default:
		return "", nil, err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) linkOrCreateGoogleUser(ctx context.Context, identity *GoogleIdentity) (*models.User, error) {
	if identity.Email == "" || !identity.EmailVerified {
		return nil, apperr.Unauthenticated("Google account email is not verified")
	}
	user, err := s.userRepo.GetByEmail(ctx, identity.Email)
	if err == nil {
		if err := s.userRepo.LinkGoogleID(ctx, user.ID, identity.Subject); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	// Federated accounts get an unusable random password.
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, apperr.Internal("failed to generate password", err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(secret)), BcryptCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	subject := identity.Subject
	username := identity.Name
	if username == "" {
		username = strings.SplitN(identity.Email, "@", 2)[0]
	}
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		username = username + "-" + subject[:min(6, len(subject))]
	}
	user = &models.User{
		Username:     username,
		Email:        identity.Email,
		PasswordHash: string(hashed),
		GoogleID:     &subject,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	logging.Info().Str("user", user.ID).Msg("user registered via google")
	return user, nil
}

// IssueToken signs an HS256 token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   user.ID,
		Username: user.Username,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
			IssuedAt:  now.Unix(),
		},
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", apperr.Internal("failed to generate token", err)
	}
	return tokenString, nil
}

// TokenTTL returns the lifetime of issued tokens.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		logging.Debug().Err(err).Msg("token validation failed")
		return nil, apperr.Unauthenticated("invalid token")
	}
	if !token.Valid || claims.UserID == "" {
		return nil, apperr.Unauthenticated("invalid token")
	}
	return claims, nil
}
