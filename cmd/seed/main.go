package main

import (
	"context"
	"errors"
	"flag"
	"strings"
	"time"

	"gorm.io/gorm"

	"filmoteca/internal/auth"
	"filmoteca/internal/config"
	"filmoteca/internal/db"
	"filmoteca/internal/logging"
	"filmoteca/internal/model"
	"filmoteca/internal/repository"
	"filmoteca/internal/tmdb"
)

// Seeds the first admin account from ADMIN_EMAIL / ADMIN_PASSWORD and,
// when -import is given, pre-fills the catalog from a TMDB title search.
func main() {
	var importQuery string
	flag.StringVar(&importQuery, "import", "", "TMDB query to pre-fill the catalog with")
	flag.Parse()

	cfg := config.Load()
	log := logging.New(cfg.Environment)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if err := gormDB.AutoMigrate(&model.User{}, &model.Session{}, &model.Movie{}, &model.Order{}); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userRepo := repository.NewUserRepository(gormDB)
	if err := seedAdmin(ctx, userRepo, cfg.AdminEmail, cfg.AdminPass); err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}

	if importQuery != "" {
		movieRepo := repository.NewMovieRepository(gormDB)
		tmdbClient := tmdb.NewClient(cfg.TMDBAPIKey, nil, log)
		n, err := importCatalog(ctx, movieRepo, tmdbClient, importQuery)
		if err != nil {
			log.Fatal().Err(err).Msg("import catalog")
		}
		log.Info().Int("imported", n).Str("query", importQuery).Msg("catalog import done")
	}

	log.Info().Msg("seed complete")
}

func seedAdmin(ctx context.Context, users repository.UserRepository, email, password string) error {
	if email == "" || password == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil {
		// already bootstrapped
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return users.Create(ctx, &model.User{
		Email:        email,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	})
}

func importCatalog(ctx context.Context, movies repository.MovieRepository, client *tmdb.Client, query string) (int, error) {
	results, err := client.Search(ctx, query)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, r := range results {
		movie := &model.Movie{
			Title:       r.Title,
			Year:        r.Year,
			Genre:       "Sin clasificar",
			Qualities:   []string{string(model.Quality1080p)},
			ImageURL:    r.PosterURL,
			IsAvailable: false,
		}
		if err := movies.Create(ctx, movie); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
