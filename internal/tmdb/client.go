// Package tmdb provides a best-effort movie title lookup used to pre-fill
// catalog and order forms. Lookups never fail the calling flow: any error
// degrades to an empty result.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"filmoteca/internal/cache"
)

const (
	baseURL        = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/w92"
	requestTimeout = 5 * time.Second
	searchCacheTTL = time.Hour
)

// Result is one movie suggestion.
type Result struct {
	Title     string `json:"title"`
	Year      int    `json:"year,omitempty"`
	PosterURL string `json:"posterUrl,omitempty"`
}

// Client queries The Movie Database search API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	cache      *cache.Client
	log        zerolog.Logger
	base       string
}

// NewClient creates a TMDB client. An empty apiKey disables lookups; Search
// then always returns an empty slice.
func NewClient(apiKey string, cache *cache.Client, log zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		apiKey:     apiKey,
		cache:      cache,
		log:        log,
		base:       baseURL,
	}
}

type searchResponse struct {
	Results []struct {
		Title       string `json:"title"`
		ReleaseDate string `json:"release_date"`
		PosterPath  string `json:"poster_path"`
	} `json:"results"`
}

// Search returns movie suggestions for a free-text query. Results are cached
// for an hour; every failure path returns an empty slice and nil error.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if query == "" || c.apiKey == "" {
		return []Result{}, nil
	}

	var cached []Result
	if c.cache.GetJSON(ctx, cache.SearchKey(query), &cached) {
		return cached, nil
	}

	u := fmt.Sprintf("%s/search/movie?query=%s&language=es-MX&page=1&include_adult=false",
		c.base, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return []Result{}, nil
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("tmdb search failed")
		return []Result{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Str("query", query).Msg("tmdb search failed")
		return []Result{}, nil
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("tmdb decode failed")
		return []Result{}, nil
	}

	results := make([]Result, 0, len(body.Results))
	for _, r := range body.Results {
		item := Result{Title: r.Title}
		if len(r.ReleaseDate) >= 4 {
			var year int
			if _, err := fmt.Sscanf(r.ReleaseDate[:4], "%d", &year); err == nil {
				item.Year = year
			}
		}
		if r.PosterPath != "" {
			item.PosterURL = imageBaseURL + r.PosterPath
		}
		results = append(results, item)
	}

	c.cache.SetJSON(ctx, cache.SearchKey(query), results, searchCacheTTL)
	return results, nil
}
