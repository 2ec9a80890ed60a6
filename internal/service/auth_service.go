package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"filmoteca/internal/apperr"
	"filmoteca/internal/auth"
	"filmoteca/internal/model"
	"filmoteca/internal/repository"
)

// ProfileUpdate carries an optional-field patch for the caller's own profile.
// Changing the password requires the matching current password.
type ProfileUpdate struct {
	Name            *string
	Phone           *string
	CurrentPassword string
	NewPassword     string
}

// AuthService handles sign-up, sign-in and session-based identity.
type AuthService interface {
	SignUp(ctx context.Context, email, name, password, phone string) (*model.User, string, error)
	SignIn(ctx context.Context, email, password string) (*model.PublicUser, string, error)
	SignOut(ctx context.Context, token string) error
	GetCurrentUser(ctx context.Context, token string) (*model.PublicUser, error)
	ResolveSession(ctx context.Context, token string) (*model.User, error)
	IsAdmin(ctx context.Context, token string) (bool, error)
	UpdateProfile(ctx context.Context, token string, update ProfileUpdate) error
}

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	sessionTTL  time.Duration
	now         func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, sessionTTL time.Duration) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
		now:         time.Now,
	}
}

// SignUp registers a new user account and opens a session for it.
func (s *authService) SignUp(ctx context.Context, email, name, password, phone string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", apperr.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("check email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         model.RoleUser,
		Phone:        phone,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent sign-up can slip past the pre-check and hit the
		// unique index instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperr.ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SignIn authenticates a user and opens a new session. Multiple concurrent
// sessions per user are allowed.
func (s *authService) SignIn(ctx context.Context, email, password string) (*model.PublicUser, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	// Disabled accounts are rejected regardless of password correctness.
	if !user.IsActive {
		return nil, "", apperr.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", apperr.ErrInvalidCredentials
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, "", fmt.Errorf("update last login: %w", err)
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user.Public(), token, nil
}

// SignOut deletes the matching session. Unknown tokens are not an error.
func (s *authService) SignOut(ctx context.Context, token string) error {
	return s.sessionRepo.DeleteByToken(ctx, token)
}

// GetCurrentUser resolves a session token to its owner. It returns nil
// without error when the session is missing or expired, or the owning
// user is inactive.
func (s *authService) GetCurrentUser(ctx context.Context, token string) (*model.PublicUser, error) {
	user, err := s.resolveSession(ctx, token)
	if err != nil || user == nil {
		return nil, err
	}
	return user.Public(), nil
}

// IsAdmin reports whether the token belongs to an active administrator.
// Any invalid or expired session yields false.
func (s *authService) IsAdmin(ctx context.Context, token string) (bool, error) {
	user, err := s.resolveSession(ctx, token)
	if err != nil || user == nil {
		return false, err
	}
	return user.Role == model.RoleAdmin, nil
}

// UpdateProfile patches only the provided fields of the caller's profile.
func (s *authService) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) error {
	user, err := s.resolveSession(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.ErrInvalidSession
	}

	changed := false
	if update.Name != nil && *update.Name != "" {
		user.Name = *update.Name
		changed = true
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
		changed = true
	}
	if update.NewPassword != "" {
		if !auth.CheckPassword(user.PasswordHash, update.CurrentPassword) {
			return apperr.ErrWrongPassword
		}
		hash, err := auth.HashPassword(update.NewPassword)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		changed = true
	}

	if !changed {
		return nil
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (s *authService) openSession(ctx context.Context, user *model.User) (string, error) {
	token, err := auth.GenerateToken()
	if err != nil {
		return "", err
	}
	session := &model.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// ResolveSession returns the active user behind a token, or nil when the
// session is absent, expired, or owned by an inactive user.
func (s *authService) ResolveSession(ctx context.Context, token string) (*model.User, error) {
	return s.resolveSession(ctx, token)
}

func (s *authService) resolveSession(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}
	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	if session.Expired(s.now()) {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find session user: %w", err)
	}
	if !user.IsActive {
		return nil, nil
	}
	return user, nil
}
