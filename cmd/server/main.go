package main

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"filmoteca/docs"
	"filmoteca/internal/cache"
	"filmoteca/internal/config"
	"filmoteca/internal/db"
	"filmoteca/internal/handler"
	"filmoteca/internal/jobs"
	"filmoteca/internal/logging"
	"filmoteca/internal/model"
	"filmoteca/internal/repository"
	"filmoteca/internal/router"
	"filmoteca/internal/service"
	"filmoteca/internal/tmdb"
)

// @title Filmoteca API
// @version 1.0
// @description Movie-request storefront API with session-token authentication and an admin dashboard surface.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()
	log := logging.New(cfg.Environment)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Movie{},
		&model.Order{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	sessionRepo := repository.NewSessionRepository(gormDB)
	movieRepo := repository.NewMovieRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)

	// Services
	authService := service.NewAuthService(userRepo, sessionRepo, cfg.SessionTTL)
	userService := service.NewUserService(userRepo, sessionRepo)
	movieService := service.NewMovieService(movieRepo, cacheClient)
	orderService := service.NewOrderService(orderRepo, userRepo)
	statsService := service.NewStatsService(orderRepo)
	tmdbClient := tmdb.NewClient(cfg.TMDBAPIKey, cacheClient, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	movieHandler := handler.NewMovieHandler(movieService)
	orderHandler := handler.NewOrderHandler(orderService)
	statsHandler := handler.NewStatsHandler(statsService)
	searchHandler := handler.NewSearchHandler(tmdbClient)

	e := echo.New()
	e.HideBanner = true
	router.Register(
		e,
		authService,
		authHandler,
		userHandler,
		movieHandler,
		orderHandler,
		statsHandler,
		searchHandler,
	)

	scheduler := jobs.NewScheduler(sessionRepo, log)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduler start")
	}
	defer scheduler.Stop()

	addr := ":" + cfg.ServerPort
	log.Info().Str("addr", addr).Msg("starting server")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start")
	}
}
