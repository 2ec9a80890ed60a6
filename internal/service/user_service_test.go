package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"filmoteca/internal/apperr"
	"filmoteca/internal/model"
)

func newTestUserService(users *MockUserRepository, sessions *MockSessionRepository) *userService {
	svc := NewUserService(users, sessions).(*userService)
	svc.now = fixedNow
	return svc
}

func TestUserService_Create(t *testing.T) {
	t.Run("admin-created account with explicit role", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		users.On("FindByEmail", mock.Anything, "mod@example.com").Return(nil, gorm.ErrRecordNotFound)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Role == model.RoleAdmin && u.IsActive
		})).Return(nil)

		svc := newTestUserService(users, sessions)
		user, err := svc.Create(context.Background(), "Mod@Example.com", "Mod", "secret1", model.RoleAdmin, "")

		assert.NoError(t, err)
		assert.Equal(t, "mod@example.com", user.Email)
		assert.Equal(t, model.RoleAdmin, user.Role)
		users.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		users.On("FindByEmail", mock.Anything, "taken@example.com").
			Return(&model.User{Email: "taken@example.com"}, nil)

		svc := newTestUserService(users, sessions)
		_, err := svc.Create(context.Background(), "taken@example.com", "X", "secret1", model.RoleUser, "")
		assert.ErrorIs(t, err, apperr.ErrDuplicateEmail)
	})

	t.Run("duplicate email raced past the pre-check", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		users.On("FindByEmail", mock.Anything, "racing@example.com").Return(nil, gorm.ErrRecordNotFound)
		users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)

		svc := newTestUserService(users, sessions)
		_, err := svc.Create(context.Background(), "racing@example.com", "X", "secret1", model.RoleUser, "")
		assert.ErrorIs(t, err, apperr.ErrDuplicateEmail)
	})

	t.Run("unknown role", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)

		svc := newTestUserService(users, sessions)
		_, err := svc.Create(context.Background(), "x@example.com", "X", "secret1", "owner", "")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestUserService_Update_EmailUniqueness(t *testing.T) {
	userID := uuid.New()
	otherID := uuid.New()

	t.Run("email change to a taken address", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		users.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID: userID, Email: "old@example.com",
		}, nil)
		users.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{
			ID: otherID, Email: "taken@example.com",
		}, nil)

		svc := newTestUserService(users, sessions)
		email := "Taken@Example.com"
		err := svc.Update(context.Background(), userID, UserUpdate{Email: &email})
		assert.ErrorIs(t, err, apperr.ErrDuplicateEmail)
	})

	t.Run("email change to a free address is lower-cased", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		users.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID: userID, Email: "old@example.com",
		}, nil)
		users.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "new@example.com"
		})).Return(nil)

		svc := newTestUserService(users, sessions)
		email := "New@Example.com"
		err := svc.Update(context.Background(), userID, UserUpdate{Email: &email})
		assert.NoError(t, err)
		users.AssertExpectations(t)
	})
}

func TestUserService_ToggleActive(t *testing.T) {
	userID := uuid.New()
	users := new(MockUserRepository)
	sessions := new(MockSessionRepository)
	users.On("FindByID", mock.Anything, userID).Return(&model.User{
		ID: userID, IsActive: true,
	}, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return !u.IsActive
	})).Return(nil)

	svc := newTestUserService(users, sessions)
	active, err := svc.ToggleActive(context.Background(), userID)

	assert.NoError(t, err)
	assert.False(t, active)
	users.AssertExpectations(t)
}

func TestUserService_Delete_CascadesSessions(t *testing.T) {
	userID := uuid.New()

	t.Run("deletes sessions before the user", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		users.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
		sessions.On("DeleteByUser", mock.Anything, userID).Return(nil)
		users.On("Delete", mock.Anything, userID).Return(nil)

		svc := newTestUserService(users, sessions)
		assert.NoError(t, svc.Delete(context.Background(), userID))
		sessions.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		users := new(MockUserRepository)
		sessions := new(MockSessionRepository)
		users.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		svc := newTestUserService(users, sessions)
		assert.ErrorIs(t, svc.Delete(context.Background(), userID), apperr.ErrUserNotFound)
	})
}

func TestUserService_Stats(t *testing.T) {
	now := fixedNow()
	users := new(MockUserRepository)
	sessions := new(MockSessionRepository)
	users.On("ListAll", mock.Anything).Return([]model.User{
		{Role: model.RoleAdmin, IsActive: true, CreatedAt: now.AddDate(0, 0, -1)},
		{Role: model.RoleUser, IsActive: true, CreatedAt: now.AddDate(0, 0, -10)},
		{Role: model.RoleUser, IsActive: false, CreatedAt: now.AddDate(0, 0, -40)},
	}, nil)

	svc := newTestUserService(users, sessions)
	stats, err := svc.Stats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Inactive)
	assert.Equal(t, 1, stats.Admins)
	assert.Equal(t, 2, stats.RegularUsers)
	assert.Equal(t, 1, stats.NewThisWeek)
	assert.Equal(t, 2, stats.NewThisMonth)

	// no intervening mutation, identical result
	again, err := svc.Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, stats, again)
}
