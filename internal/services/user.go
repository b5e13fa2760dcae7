package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"microblog-backend/internal/apperrors"
	"microblog-backend/internal/models"
	"microblog-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 12
	tokenTTL   = 24 * time.Hour
)

// UserStore is the user persistence surface the services depend on
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Claims is the JWT payload carrying the authenticated subject
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// UserService handles registration, login and token-based identity
type UserService struct {
	users     UserStore
	jwtSecret string
}

// NewUserService creates a new user service
func NewUserService(users UserStore, jwtSecret string) *UserService {
	return &UserService{
		users:     users,
		jwtSecret: jwtSecret,
	}
}

// Register creates a new user with a bcrypt-hashed password. Username is
// checked before email, matching the conflict message the client sees.
func (s *UserService) Register(ctx context.Context, name, username, email, password string) error {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return apperrors.Conflict("Username already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return apperrors.Conflict("Email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The unique constraints close the check-then-insert race window.
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return apperrors.Conflict("Username already exists")
		case errors.Is(err, repository.ErrDuplicateEmail):
			return apperrors.Conflict("Email already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Login verifies the credentials and issues a signed token. Unknown email
// and wrong password produce the same error so accounts cannot be
// enumerated.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.PublicUser, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperrors.InvalidCredentials("Invalid email or password")
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperrors.InvalidCredentials("Invalid email or password")
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	public := user.Public()
	return &public, token, nil
}

// IssueToken signs a token embedding the subject user id, expiring in 24h
func (s *UserService) IssueToken(userID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ResolveIdentity validates a bearer token and resolves its subject to an
// existing user. Any failure is Unauthorized.
func (s *UserService) ResolveIdentity(ctx context.Context, tokenString string) (*models.PublicUser, error) {
	if tokenString == "" {
		return nil, apperrors.Unauthorized("Authentication token missing")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("Invalid token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid token")
		}
		return nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}

	public := user.Public()
	return &public, nil
}
