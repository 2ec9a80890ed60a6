package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"filmoteca/internal/model"
	"filmoteca/internal/repository"
	"filmoteca/internal/service"
)

// MovieHandler handles catalog endpoints. Reads are public, mutations are
// registered behind the admin middleware.
type MovieHandler struct {
	movieService service.MovieService
}

// NewMovieHandler creates a new movie handler.
func NewMovieHandler(movieService service.MovieService) *MovieHandler {
	return &MovieHandler{movieService: movieService}
}

// CreateMovieRequest represents a new catalog entry.
type CreateMovieRequest struct {
	Title       string   `json:"title" validate:"required"`
	Year        int      `json:"year" validate:"required,gte=1888"`
	Genre       string   `json:"genre" validate:"required"`
	Qualities   []string `json:"qualities" validate:"dive,oneof=720p 1080p 4k"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	IsAvailable bool     `json:"isAvailable"`
}

// UpdateMovieRequest patches a catalog entry.
type UpdateMovieRequest struct {
	Title       *string  `json:"title,omitempty"`
	Year        *int     `json:"year,omitempty" validate:"omitempty,gte=1888"`
	Genre       *string  `json:"genre,omitempty"`
	Qualities   []string `json:"qualities,omitempty" validate:"omitempty,dive,oneof=720p 1080p 4k"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
	IsAvailable *bool    `json:"isAvailable,omitempty"`
}

// List godoc
// @Summary List catalog movies with optional filters
// @Tags movies
// @Produce json
// @Param search query string false "Substring match on title"
// @Param genre query string false "Exact genre match"
// @Param isAvailable query bool false "Filter by availability"
// @Success 200 {array} model.Movie
// @Router /movies [get]
func (h *MovieHandler) List(c echo.Context) error {
	filter := repository.MovieFilter{
		Search: c.QueryParam("search"),
		Genre:  c.QueryParam("genre"),
	}
	available, err := boolQuery(c, "isAvailable")
	if err != nil {
		return httpError(err)
	}
	filter.IsAvailable = available

	movies, err := h.movieService.List(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, movies)
}

// Get godoc
// @Summary Get a movie by ID
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} model.Movie
// @Failure 404 {object} apperr.ErrorResponse
// @Router /movies/{id} [get]
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid movie id")
	}
	movie, err := h.movieService.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, movie)
}

// Genres godoc
// @Summary List distinct genres, sorted
// @Tags movies
// @Produce json
// @Success 200 {array} string
// @Router /movies/genres [get]
func (h *MovieHandler) Genres(c echo.Context) error {
	genres, err := h.movieService.Genres(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, genres)
}

// Create godoc
// @Summary Add a movie to the catalog
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateMovieRequest true "Movie data"
// @Success 201 {object} model.Movie
// @Router /movies [post]
func (h *MovieHandler) Create(c echo.Context) error {
	var req CreateMovieRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	movie, err := h.movieService.Create(c.Request().Context(), &model.Movie{
		Title:       req.Title,
		Year:        req.Year,
		Genre:       req.Genre,
		Qualities:   req.Qualities,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, movie)
}

// Update godoc
// @Summary Update a catalog entry
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Param request body UpdateMovieRequest true "Fields to update"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} apperr.ErrorResponse
// @Router /movies/{id} [put]
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid movie id")
	}

	var req UpdateMovieRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.movieService.Update(c.Request().Context(), id, model.MovieUpdate{
		Title:       req.Title,
		Year:        req.Year,
		Genre:       req.Genre,
		Qualities:   req.Qualities,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Delete godoc
// @Summary Remove a movie from the catalog
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} apperr.ErrorResponse
// @Router /movies/{id} [delete]
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid movie id")
	}
	if err := h.movieService.Remove(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// ToggleAvailability godoc
// @Summary Flip a movie's availability flag
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperr.ErrorResponse
// @Router /movies/{id}/availability [post]
func (h *MovieHandler) ToggleAvailability(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid movie id")
	}
	available, err := h.movieService.ToggleAvailability(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "isAvailable": available})
}

// Stats godoc
// @Summary Catalog statistics
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.MovieStats
// @Router /stats/movies [get]
func (h *MovieHandler) Stats(c echo.Context) error {
	stats, err := h.movieService.Stats(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
