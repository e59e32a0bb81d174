package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/auth"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/domain"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/event"
	"github.com/AdrielVSG/ProjetoAgroTrace/internal/repository"
	apperrors "github.com/AdrielVSG/ProjetoAgroTrace/pkg/errors"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/logger"
)

const bcryptCost = 12

// UserService handles registration, sessions, and profiles.
type UserService struct {
	users     repository.UserRepository
	tokens    repository.RefreshTokenRepository
	jwt       *auth.JWTManager
	publisher event.Publisher
	log       *slog.Logger
}

// NewUserService creates a user service.
func NewUserService(
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	jwt *auth.JWTManager,
	publisher event.Publisher,
	log *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		tokens:    tokens,
		jwt:       jwt,
		publisher: publisher,
		log:       log,
	}
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=consumer producer"`
	Location string `json:"location" validate:"max=200"`
}

// Register creates an account and opens a session for it.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, *domain.TokenPair, error) {
	if !domain.IsValidRole(in.Role) {
		return nil, nil, apperrors.InvalidInput("role must be consumer or producer")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         in.Role,
		Location:     strings.TrimSpace(in.Location),
		Preferences:  domain.DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	if err := s.publisher.UserRegistered(ctx, user); err != nil {
		logger.WithContext(ctx, s.log).Warn("publish user.registered failed", "error", err)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login verifies credentials and opens a session. Unknown emails and wrong
// passwords produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair, revoking the old
// token so each refresh token works exactly once.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	hash := auth.HashToken(refreshToken)
	stored, err := s.tokens.Get(ctx, hash)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}
	if !stored.IsValid(time.Now()) {
		return nil, apperrors.Unauthorized("refresh token expired or revoked")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	if err := s.tokens.Revoke(ctx, hash); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

// Logout revokes the session's refresh token.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, auth.HashToken(refreshToken))
}

// GetProfile returns a user's profile.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfileInput carries the mutable profile fields. Nil means unchanged.
type UpdateProfileInput struct {
	Name        *string             `json:"name" validate:"omitempty,min=2,max=120"`
	Location    *string             `json:"location" validate:"omitempty,max=200"`
	Preferences *domain.Preferences `json:"preferences"`
}

// UpdateProfile applies the given changes to the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Location != nil {
		user.Location = strings.TrimSpace(*in.Location)
	}
	if in.Preferences != nil {
		user.Preferences = *in.Preferences
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) issueTokens(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	refresh, expiresAt, err := s.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	err = s.tokens.Store(ctx, &domain.RefreshToken{
		TokenHash: auth.HashToken(refresh),
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwt.AccessTTL().Seconds()),
	}, nil
}
