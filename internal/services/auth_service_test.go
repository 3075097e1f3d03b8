package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"bookclub/internal/apperr"
	"bookclub/internal/logging"
	"bookclub/internal/models"
	"bookclub/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
	os.Exit(m.Run())
}

type stubVerifier struct {
	identity *services.GoogleIdentity
	err      error
}

func (s stubVerifier) Verify(string) (*services.GoogleIdentity, error) {
	return s.identity, s.err
}

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, 0)

	// Test successful registration
	mockRepo.On("GetByUsername", ctx, "testuser").Return(nil, apperr.NotFound("user")).Once()
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(nil, apperr.NotFound("user")).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.RegisterUser(ctx, "testuser", "test@example.com", "password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	cost, err := bcrypt.Cost([]byte(user.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, services.BcryptCost, cost)
	mockRepo.AssertExpectations(t)

	// Test username already taken
	mockRepo.On("GetByUsername", ctx, "testuser").Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.RegisterUser(ctx, "testuser", "test@example.com", "password123")
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Contains(t, err.Error(), "username 'testuser' already taken")
	mockRepo.AssertExpectations(t)

	// Test email already registered
	mockRepo.On("GetByUsername", ctx, "testuser").Return(nil, apperr.NotFound("user")).Once()
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.RegisterUser(ctx, "testuser", "test@example.com", "password123")
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Contains(t, err.Error(), "email 'test@example.com' already registered")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{
		ID:           "user-123",
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: string(hashedPassword),
	}

	// Test successful login
	mockRepo.On("GetByUsername", ctx, user.Username).Return(user, nil).Once()
	token, loggedIn, err := authService.LoginUser(ctx, "testuser", "", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["id"])
	assert.Equal(t, user.Username, claims["username"])
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), claims["exp"], 5)
	mockRepo.AssertExpectations(t)

	// Test login by email
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	_, _, err = authService.LoginUser(ctx, "", "test@example.com", "password123")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByUsername", ctx, user.Username).Return(user, nil).Once()
	_, _, err = authService.LoginUser(ctx, "testuser", "", "wrongpassword")
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
	wrongPassword := err.Error()
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (user not found)
	mockRepo.On("GetByUsername", ctx, "nonexistentuser").Return(nil, apperr.NotFound("user")).Once()
	_, _, err = authService.LoginUser(ctx, "nonexistentuser", "", "password123")
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
	assert.Equal(t, wrongPassword, err.Error())
	mockRepo.AssertExpectations(t)

	// A username containing '@' is still looked up as a username
	odd := &models.User{ID: "user-456", Username: "ann@home", Email: "ann@example.com", PasswordHash: string(hashedPassword)}
	mockRepo.On("GetByUsername", ctx, "ann@home").Return(odd, nil).Once()
	_, loggedIn, err = authService.LoginUser(ctx, "ann@home", "", "password123")
	require.NoError(t, err)
	assert.Equal(t, odd.ID, loggedIn.ID)
	mockRepo.AssertExpectations(t)

	// Neither identifier
	_, _, err = authService.LoginUser(ctx, "", "", "password123")
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, 0)

	validTokenString, err := authService.IssueToken(&models.User{ID: "user-123", Username: "testuser"})
	require.NoError(t, err)

	// Test valid token
	claims, err := authService.ValidateToken(validTokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "testuser", claims.Username)

	// Test malformed token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))

	// Test token signed with another secret
	other := services.NewAuthService(mockRepo, "another_secret", 0)
	foreign, _ := other.IssueToken(&models.User{ID: "user-123", Username: "testuser"})
	_, err = authService.ValidateToken(foreign)
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))

	// Test expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       "user-123",
		"username": "testuser",
		"exp":      jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
	assert.Contains(t, err.Error(), "invalid token")
}

func TestAuthService_LoginWithGoogle(t *testing.T) {
	ctx := context.Background()
	identity := &services.GoogleIdentity{Subject: "sub-42", Email: "reader@example.com", EmailVerified: true, Name: "reader"}
	unverified := &services.GoogleIdentity{Subject: "sub-66", Email: "reader@example.com", Name: "intruder"}

	t.Run("disabled without verifier", func(t *testing.T) {
		authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, 0)
		assert.False(t, authService.FederatedLoginEnabled())
		_, _, err := authService.LoginWithGoogle(ctx, "token")
		assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
	})

	t.Run("invalid token", func(t *testing.T) {
		authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, 0).
			WithIDTokenVerifier(stubVerifier{err: errors.New("bad signature")})
		_, _, err := authService.LoginWithGoogle(ctx, "token")
		assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
	})

	t.Run("known google account", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testJWTSecret, 0).WithIDTokenVerifier(stubVerifier{identity: identity})
		mockRepo.On("GetByGoogleID", ctx, "sub-42").Return(&models.User{ID: "u1", Username: "reader"}, nil).Once()

		token, user, err := authService.LoginWithGoogle(ctx, "token")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "u1", user.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("links existing email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testJWTSecret, 0).WithIDTokenVerifier(stubVerifier{identity: identity})
		mockRepo.On("GetByGoogleID", ctx, "sub-42").Return(nil, apperr.NotFound("user")).Once()
		mockRepo.On("GetByEmail", ctx, "reader@example.com").Return(&models.User{ID: "u2", Username: "bookworm"}, nil).Once()
		mockRepo.On("LinkGoogleID", ctx, "u2", "sub-42").Return(nil).Once()

		_, user, err := authService.LoginWithGoogle(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, "u2", user.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unverified email is not linked", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testJWTSecret, 0).WithIDTokenVerifier(stubVerifier{identity: unverified})
		mockRepo.On("GetByGoogleID", ctx, "sub-66").Return(nil, apperr.NotFound("user")).Once()

		_, user, err := authService.LoginWithGoogle(ctx, "token")
		assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
		assert.Nil(t, user)
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "LinkGoogleID", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("account linked to another google identity", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testJWTSecret, 0).WithIDTokenVerifier(stubVerifier{identity: identity})
		mockRepo.On("GetByGoogleID", ctx, "sub-42").Return(nil, apperr.NotFound("user")).Once()
		mockRepo.On("GetByEmail", ctx, "reader@example.com").Return(&models.User{ID: "u2", Username: "bookworm"}, nil).Once()
		mockRepo.On("LinkGoogleID", ctx, "u2", "sub-42").Return(apperr.Conflict("account is already linked to a Google identity", nil)).Once()

		_, _, err := authService.LoginWithGoogle(ctx, "token")
		assert.True(t, errors.Is(err, apperr.ErrConflict))
		mockRepo.AssertExpectations(t)
	})

	t.Run("creates new account", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testJWTSecret, 0).WithIDTokenVerifier(stubVerifier{identity: identity})
		mockRepo.On("GetByGoogleID", ctx, "sub-42").Return(nil, apperr.NotFound("user")).Once()
		mockRepo.On("GetByEmail", ctx, "reader@example.com").Return(nil, apperr.NotFound("user")).Once()
		mockRepo.On("GetByUsername", ctx, "reader").Return(nil, apperr.NotFound("user")).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "reader" && u.GoogleID != nil && *u.GoogleID == "sub-42"
		})).Return(nil).Once()

		_, user, err := authService.LoginWithGoogle(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, "reader@example.com", user.Email)
		mockRepo.AssertExpectations(t)
	})
}
