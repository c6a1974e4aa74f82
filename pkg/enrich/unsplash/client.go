// Package unsplash wraps the image search service. One query returns the
// first result's image URL plus attribution, or absent when nothing
// matched.
package unsplash

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/pagesync/pkg/clients"
	"github.com/ajitpratap0/pagesync/pkg/config"
)

// Client talks to the image search API with Client-ID header auth.
type Client struct {
	http      *clients.HTTPClient
	baseURL   string
	accessKey string
	logger    *zap.Logger
}

// Photo is the first-match result of an image search.
type Photo struct {
	URL          string
	Photographer string
	SourceLink   string
}

// NewClient creates an image search client.
func NewClient(cfg config.UnsplashConfig, httpClient *clients.HTTPClient, logger *zap.Logger) *Client {
	return &Client{
		http:      httpClient,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		accessKey: cfg.AccessKey,
		logger:    logger.With(zap.String("component", "unsplash_client")),
	}
}

type searchResponse struct {
	Results []photoResult `json:"results"`
}

type photoResult struct {
	URLs struct {
		Regular string `json:"regular"`
	} `json:"urls"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
	Links struct {
		HTML string `json:"html"`
	} `json:"links"`
}

// SearchPhoto returns the most relevant photo for the query, or nil when
// the search found nothing or the upstream call failed.
func (c *Client) SearchPhoto(ctx context.Context, query string) (*Photo, error) {
	c.logger.Info("searching for image", zap.String("query", query))

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")
	params.Set("order_by", "relevant")

	headers := map[string]string{
		"Authorization": "Client-ID " + c.accessKey,
	}

	var resp searchResponse
	searchURL := c.baseURL + "/search/photos?" + params.Encode()
	if err := c.http.GetJSON(ctx, searchURL, headers, &resp); err != nil {
		c.logger.Warn("image search failed", zap.String("query", query), zap.Error(err))
		return nil, nil
	}

	if len(resp.Results) == 0 {
		c.logger.Info("no images found", zap.String("query", query))
		return nil, nil
	}

	first := resp.Results[0]
	photo := &Photo{
		URL:          first.URLs.Regular,
		Photographer: first.User.Name,
		SourceLink:   first.Links.HTML,
	}

	c.logger.Info("found image",
		zap.String("photographer", photo.Photographer),
		zap.String("url", photo.URL))

	return photo, nil
}
