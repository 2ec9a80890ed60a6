package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"filmoteca/internal/tmdb"
)

// SearchHandler proxies the best-effort TMDB title lookup used to pre-fill
// order and catalog forms.
type SearchHandler struct {
	tmdbClient *tmdb.Client
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(tmdbClient *tmdb.Client) *SearchHandler {
	return &SearchHandler{tmdbClient: tmdbClient}
}

// Movies godoc
// @Summary Autocomplete movie titles via TMDB
// @Tags search
// @Produce json
// @Security BearerAuth
// @Param q query string true "Free-text query"
// @Success 200 {array} tmdb.Result
// @Router /search/movies [get]
func (h *SearchHandler) Movies(c echo.Context) error {
	// Lookup failures degrade to an empty list; autocomplete must never
	// block order creation or catalog edits.
	results, err := h.tmdbClient.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil || results == nil {
		results = []tmdb.Result{}
	}
	return c.JSON(http.StatusOK, results)
}
