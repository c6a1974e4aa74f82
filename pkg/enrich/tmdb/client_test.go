package tmdb

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/pagesync/pkg/clients"
	"github.com/ajitpratap0/pagesync/pkg/config"
	"github.com/ajitpratap0/pagesync/pkg/testutil"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	httpClient := clients.NewHTTPClient(&clients.HTTPConfig{
		RequestTimeout: 5 * time.Second,
	}, testutil.TestLogger(t))
	t.Cleanup(httpClient.Close)

	return NewClient(config.TMDBConfig{APIKey: "tmdb-key", BaseURL: baseURL}, httpClient, testutil.TestLogger(t))
}

func TestLookupMovie(t *testing.T) {
	poster := "/gattaca.jpg"
	runtime := 106.0
	overview := "A genetically inferior man assumes another's identity."

	server := testutil.FakeUpstream(t, map[string]http.HandlerFunc{
		"GET /search/movie": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "tmdb-key", q.Get("api_key"))
			assert.Equal(t, "Gattaca", q.Get("query"))
			assert.Equal(t, "1997", q.Get("year"))

			testutil.JSONResponse(t, w, searchResponse{
				Results: []searchResult{{ID: 782, PosterPath: &poster}},
			})
		},
		"GET /movie/782": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSONResponse(t, w, movieDetailsResponse{
				Runtime:  &runtime,
				Overview: &overview,
			})
		},
	})

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	details, err := testClient(t, server.URL).LookupMovie(ctx, "Gattaca", 1997)
	require.NoError(t, err)

	require.NotNil(t, details.PosterURL)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/gattaca.jpg", *details.PosterURL)
	require.NotNil(t, details.Runtime)
	assert.Equal(t, 106.0, *details.Runtime)
	require.NotNil(t, details.Synopsis)
	assert.Equal(t, overview, *details.Synopsis)
}

func TestLookupMovieNoResults(t *testing.T) {
	server := testutil.FakeUpstream(t, map[string]http.HandlerFunc{
		"GET /search/movie": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSONResponse(t, w, searchResponse{})
		},
	})

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	// Zero upstream results yield an all-absent tuple, not an error
	details, err := testClient(t, server.URL).LookupMovie(ctx, "No Such Film", 0)
	require.NoError(t, err)
	assert.Nil(t, details.PosterURL)
	assert.Nil(t, details.Runtime)
	assert.Nil(t, details.Synopsis)
}

func TestLookupMovieOmitsZeroYear(t *testing.T) {
	server := testutil.FakeUpstream(t, map[string]http.HandlerFunc{
		"GET /search/movie": func(w http.ResponseWriter, r *http.Request) {
			assert.False(t, r.URL.Query().Has("year"))
			testutil.JSONResponse(t, w, searchResponse{})
		},
	})

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	_, err := testClient(t, server.URL).LookupMovie(ctx, "Gattaca", 0)
	require.NoError(t, err)
}

func TestLookupMovieUpstreamFailureDegrades(t *testing.T) {
	server := testutil.FakeUpstream(t, map[string]http.HandlerFunc{
		"GET /search/movie": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	})

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	// A failed call degrades to not-found so the batch loop continues
	details, err := testClient(t, server.URL).LookupMovie(ctx, "Gattaca", 1997)
	require.NoError(t, err)
	assert.Nil(t, details.PosterURL)
}

func TestLookupTV(t *testing.T) {
	poster := "/severance.jpg"
	firstAir := "2022-02-18"
	overview := "An office with a sinister secret."

	server := testutil.FakeUpstream(t, map[string]http.HandlerFunc{
		"GET /search/tv": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Severance", r.URL.Query().Get("query"))
			testutil.JSONResponse(t, w, searchResponse{
				Results: []searchResult{{ID: 95396, PosterPath: &poster}},
			})
		},
		"GET /tv/95396": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSONResponse(t, w, tvDetailsResponse{
				FirstAirDate: &firstAir,
				Overview:     &overview,
			})
		},
	})

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	details, err := testClient(t, server.URL).LookupTV(ctx, "Severance")
	require.NoError(t, err)

	require.NotNil(t, details.Year)
	assert.Equal(t, 2022.0, *details.Year)
	require.NotNil(t, details.PosterURL)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/severance.jpg", *details.PosterURL)
	require.NotNil(t, details.Synopsis)
}

func TestFirstAirYear(t *testing.T) {
	date := "1999-03-31"
	year := firstAirYear(&date)
	require.NotNil(t, year)
	assert.Equal(t, 1999.0, *year)

	empty := ""
	assert.Nil(t, firstAirYear(&empty))
	assert.Nil(t, firstAirYear(nil))

	bad := "unknown"
	assert.Nil(t, firstAirYear(&bad))
}
