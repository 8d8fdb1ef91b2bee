package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	iauth "github.com/campusfind/lostfound/internal/auth"
	"github.com/campusfind/lostfound/internal/models"
	"github.com/campusfind/lostfound/pkg/crypto"
	apperrors "github.com/campusfind/lostfound/pkg/errors"
	"github.com/campusfind/lostfound/pkg/metrics"
)

// RegisterInput describes the fields accepted during self-service registration.
type RegisterInput struct {
	FullName string
	NIM      string
	Email    string
	Password string
	Phone    string
}

// LoginInput carries the credential pair. Identifier matches email or NIM.
type LoginInput struct {
	Identifier string
	Password   string
}

// AuthResult bundles the authenticated user with a fresh access token.
type AuthResult struct {
	User  *models.User
	Token string
}

// AuthService handles registration, credential checks, and token revocation.
type AuthService struct {
	db       *gorm.DB
	jwt      *iauth.JWTService
	denylist iauth.Denylist
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *gorm.DB, jwt *iauth.JWTService, denylist iauth.Denylist) (*AuthService, error) {
	if db == nil {
		return nil, errors.New("auth service: db is required")
	}
	if jwt == nil {
		return nil, errors.New("auth service: jwt service is required")
	}
	return &AuthService{db: db, jwt: jwt, denylist: denylist}, nil
}

// Register provisions a student account. The role is always mahasiswa; admin
// accounts are seeded, never self-registered.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	ctx = ensureContext(ctx)

	user := models.User{
		FullName:  strings.TrimSpace(input.FullName),
		StudentID: strings.TrimSpace(input.NIM),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:     strings.TrimSpace(input.Phone),
		Role:      models.RoleStudent,
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth service: hash password: %w", err)
	}
	user.Password = hashed

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrRegistrationConflict
		}
		return nil, fmt.Errorf("auth service: create user: %w", err)
	}

	token, err := s.jwt.GenerateAccessToken(iauth.AccessTokenInput{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("auth service: issue token: %w", err)
	}

	return &AuthResult{User: &user, Token: token}, nil
}

// Login verifies credentials and issues a fresh access token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	ctx = ensureContext(ctx)

	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR nim = ?", strings.ToLower(identifier), identifier).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("auth service: load user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, input.Password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateAccessToken(iauth.AccessTokenInput{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("auth service: issue token: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return &AuthResult{User: &user, Token: token}, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, claims *iauth.Claims) error {
	ctx = ensureContext(ctx)

	if s.denylist == nil || claims == nil || claims.ID == "" {
		return nil
	}

	ttl := time.Duration(0)
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return s.denylist.Revoke(ctx, claims.ID, ttl)
}
