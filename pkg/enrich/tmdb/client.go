// Package tmdb wraps the movie/TV metadata service. Lookups are two-step:
// a title search resolves the first match's ID, a details call returns
// the derived fields. Zero search results or missing upstream fields
// degrade to absent components, never to errors the caller must handle.
package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/pagesync/pkg/clients"
	"github.com/ajitpratap0/pagesync/pkg/config"
)

const posterBaseURL = "https://image.tmdb.org/t/p/w500"

// Client talks to the metadata API with an API key query parameter.
type Client struct {
	http    *clients.HTTPClient
	baseURL string
	apiKey  string
	logger  *zap.Logger
}

// MovieDetails holds the derived fields for one movie. Nil pointers mark
// components the upstream did not have.
type MovieDetails struct {
	PosterURL *string
	Runtime   *float64
	Synopsis  *string
}

// TVDetails holds the derived fields for one TV show.
type TVDetails struct {
	PosterURL *string
	Year      *float64
	Synopsis  *string
}

// NewClient creates a metadata client.
func NewClient(cfg config.TMDBConfig, httpClient *clients.HTTPClient, logger *zap.Logger) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  logger.With(zap.String("component", "tmdb_client")),
	}
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID         int64   `json:"id"`
	PosterPath *string `json:"poster_path"`
}

type movieDetailsResponse struct {
	Runtime  *float64 `json:"runtime"`
	Overview *string  `json:"overview"`
}

type tvDetailsResponse struct {
	FirstAirDate *string `json:"first_air_date"`
	Overview     *string `json:"overview"`
}

// LookupMovie searches by title (and year, when non-zero), then fetches
// runtime and synopsis for the first match. A zero-result search returns
// an all-absent MovieDetails and no error.
func (c *Client) LookupMovie(ctx context.Context, title string, year int) (MovieDetails, error) {
	c.logger.Info("searching for movie", zap.String("title", title), zap.Int("year", year))

	params := url.Values{}
	params.Set("query", title)
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	match, ok, err := c.search(ctx, "/search/movie", params)
	if err != nil || !ok {
		return MovieDetails{}, err
	}

	var details movieDetailsResponse
	detailsURL := fmt.Sprintf("%s/movie/%d?api_key=%s", c.baseURL, match.ID, url.QueryEscape(c.apiKey))
	if err := c.http.GetJSON(ctx, detailsURL, nil, &details); err != nil {
		c.logger.Warn("movie details fetch failed", zap.String("title", title), zap.Error(err))
		return MovieDetails{PosterURL: posterURL(match.PosterPath)}, nil
	}

	return MovieDetails{
		PosterURL: posterURL(match.PosterPath),
		Runtime:   details.Runtime,
		Synopsis:  nonEmpty(details.Overview),
	}, nil
}

// LookupTV searches by title, then fetches the first-air year and
// synopsis for the first match.
func (c *Client) LookupTV(ctx context.Context, title string) (TVDetails, error) {
	c.logger.Info("searching for tv show", zap.String("title", title))

	params := url.Values{}
	params.Set("query", title)

	match, ok, err := c.search(ctx, "/search/tv", params)
	if err != nil || !ok {
		return TVDetails{}, err
	}

	var details tvDetailsResponse
	detailsURL := fmt.Sprintf("%s/tv/%d?api_key=%s", c.baseURL, match.ID, url.QueryEscape(c.apiKey))
	if err := c.http.GetJSON(ctx, detailsURL, nil, &details); err != nil {
		c.logger.Warn("tv details fetch failed", zap.String("title", title), zap.Error(err))
		return TVDetails{PosterURL: posterURL(match.PosterPath)}, nil
	}

	return TVDetails{
		PosterURL: posterURL(match.PosterPath),
		Year:      firstAirYear(details.FirstAirDate),
		Synopsis:  nonEmpty(details.Overview),
	}, nil
}

// search runs a title search and returns the first result. The second
// return is false when the upstream found nothing.
func (c *Client) search(ctx context.Context, path string, params url.Values) (searchResult, bool, error) {
	params.Set("api_key", c.apiKey)
	searchURL := c.baseURL + path + "?" + params.Encode()

	var resp searchResponse
	if err := c.http.GetJSON(ctx, searchURL, nil, &resp); err != nil {
		// Upstream failure degrades to not-found for this record; the
		// batch loop carries on
		c.logger.Warn("metadata search failed", zap.String("path", path), zap.Error(err))
		return searchResult{}, false, nil
	}

	if len(resp.Results) == 0 {
		c.logger.Info("no results", zap.String("query", params.Get("query")))
		return searchResult{}, false, nil
	}

	return resp.Results[0], true, nil
}

func posterURL(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	full := posterBaseURL + *path
	return &full
}

func firstAirYear(date *string) *float64 {
	if date == nil || *date == "" {
		return nil
	}
	parts := strings.SplitN(*date, "-", 2)
	year, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil
	}
	return &year
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
