package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"filmoteca/internal/model"
)

func TestUserRepository_DuplicateEmailTranslated(t *testing.T) {
	db := newTestDB(t, &model.User{})
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &model.User{
		Email:        "dup@example.com",
		Name:         "First",
		PasswordHash: "hash",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, repo.Create(ctx, first))

	second := &model.User{
		Email:        "dup@example.com",
		Name:         "Second",
		PasswordHash: "hash",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	assert.ErrorIs(t, repo.Create(ctx, second), gorm.ErrDuplicatedKey)
}

func TestUserRepository_CreatePersistsInactive(t *testing.T) {
	db := newTestDB(t, &model.User{})
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &model.User{
		Email:        "off@example.com",
		Name:         "Off",
		PasswordHash: "hash",
		Role:         model.RoleUser,
		IsActive:     false,
	}
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}
