package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmoteca/internal/model"
)

func TestMovieRepository_CreatePersistsAvailability(t *testing.T) {
	db := newTestDB(t, &model.Movie{})
	repo := NewMovieRepository(db)
	ctx := context.Background()

	// Imported catalog entries start unavailable; the flag must round-trip
	// exactly as given, in both directions.
	unavailable := &model.Movie{
		Title:       "Stalker",
		Year:        1979,
		Genre:       "Drama",
		Qualities:   []string{"1080p"},
		IsAvailable: false,
	}
	require.NoError(t, repo.Create(ctx, unavailable))

	found, err := repo.FindByID(ctx, unavailable.ID)
	require.NoError(t, err)
	assert.False(t, found.IsAvailable)

	available := &model.Movie{
		Title:       "Solaris",
		Year:        1972,
		Genre:       "Drama",
		Qualities:   []string{"720p", "1080p"},
		IsAvailable: true,
	}
	require.NoError(t, repo.Create(ctx, available))

	found, err = repo.FindByID(ctx, available.ID)
	require.NoError(t, err)
	assert.True(t, found.IsAvailable)
}

func TestMovieRepository_ListFiltersAvailability(t *testing.T) {
	db := newTestDB(t, &model.Movie{})
	repo := NewMovieRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Movie{Title: "A", Year: 2000, Genre: "Drama", IsAvailable: true}))
	require.NoError(t, repo.Create(ctx, &model.Movie{Title: "B", Year: 2001, Genre: "Drama", IsAvailable: false}))

	unavailable := false
	movies, err := repo.List(ctx, MovieFilter{IsAvailable: &unavailable})
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "B", movies[0].Title)
}
