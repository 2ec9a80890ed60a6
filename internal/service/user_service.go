package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"filmoteca/internal/apperr"
	"filmoteca/internal/auth"
	"filmoteca/internal/model"
	"filmoteca/internal/repository"
)

// UserUpdate carries an optional-field patch applied by an administrator.
type UserUpdate struct {
	Name  *string
	Email *string
	Phone *string
	Role  *model.Role
}

// UserStats is the aggregate report over the user collection.
type UserStats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	Inactive     int `json:"inactive"`
	Admins       int `json:"admins"`
	RegularUsers int `json:"regularUsers"`
	NewThisWeek  int `json:"newThisWeek"`
	NewThisMonth int `json:"newThisMonth"`
}

// UserService exposes the administrative user management surface.
type UserService interface {
	List(ctx context.Context, filter repository.UserFilter) ([]*model.PublicUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.PublicUser, error)
	Create(ctx context.Context, email, name, password string, role model.Role, phone string) (*model.PublicUser, error)
	Update(ctx context.Context, id uuid.UUID, update UserUpdate) error
	ToggleActive(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*UserStats, error)
}

type userService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	now         func() time.Time
}

// NewUserService builds a UserService over the user and session repositories.
func NewUserService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository) UserService {
	return &userService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

func (s *userService) List(ctx context.Context, filter repository.UserFilter) ([]*model.PublicUser, error) {
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*model.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.PublicUser, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// Create registers an account on behalf of an administrator. Unlike SignUp
// the role is selectable and no session is opened.
func (s *userService) Create(ctx context.Context, email, name, password string, role model.Role, phone string) (*model.PublicUser, error) {
	if !model.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", apperr.ErrValidation, role)
	}
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperr.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		Phone:        phone,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user.Public(), nil
}

// Update patches only the provided fields. A changed email is lower-cased
// and re-checked for uniqueness.
func (s *userService) Update(ctx context.Context, id uuid.UUID, update UserUpdate) error {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}

	if update.Name != nil && *update.Name != "" {
		user.Name = *update.Name
	}
	if update.Email != nil && *update.Email != "" {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if email != user.Email {
			existing, err := s.userRepo.FindByEmail(ctx, email)
			if err == nil && existing != nil && existing.ID != user.ID {
				return apperr.ErrDuplicateEmail
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("check email: %w", err)
			}
			user.Email = email
		}
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Role != nil {
		if !model.ValidRole(*update.Role) {
			return fmt.Errorf("%w: unknown role %q", apperr.ErrValidation, *update.Role)
		}
		user.Role = *update.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// ToggleActive flips the activation flag and returns the new value.
func (s *userService) ToggleActive(ctx context.Context, id uuid.UUID) (bool, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return false, err
	}
	user.IsActive = !user.IsActive
	if err := s.userRepo.Update(ctx, user); err != nil {
		return false, fmt.Errorf("toggle active: %w", err)
	}
	return user.IsActive, nil
}

// Delete removes the user and all of their sessions. Orders are kept; they
// surface with an empty user projection.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findUser(ctx, id); err != nil {
		return err
	}
	if err := s.sessionRepo.DeleteByUser(ctx, id); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// Stats recomputes the user report from a full scan on every call.
func (s *userService) Stats(ctx context.Context) (*UserStats, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	now := s.now()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	stats := &UserStats{Total: len(users)}
	for i := range users {
		u := &users[i]
		if u.IsActive {
			stats.Active++
		}
		if u.Role == model.RoleAdmin {
			stats.Admins++
		}
		if u.CreatedAt.After(weekAgo) {
			stats.NewThisWeek++
		}
		if u.CreatedAt.After(monthAgo) {
			stats.NewThisMonth++
		}
	}
	stats.Inactive = stats.Total - stats.Active
	stats.RegularUsers = stats.Total - stats.Admins
	return stats, nil
}

func (s *userService) findUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
