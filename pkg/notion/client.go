package notion

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/pagesync/pkg/clients"
	"github.com/ajitpratap0/pagesync/pkg/config"
	"github.com/ajitpratap0/pagesync/pkg/errors"
)

const (
	apiVersion = "2022-06-28"

	// Upstream cap on query page size
	maxPageSize = 100
)

// Client talks to the Notion API with bearer token auth.
type Client struct {
	http    *clients.HTTPClient
	baseURL string
	token   string
	logger  *zap.Logger
}

// NewClient creates a Notion API client.
func NewClient(cfg config.NotionConfig, httpClient *clients.HTTPClient, logger *zap.Logger) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		logger:  logger.With(zap.String("component", "notion_client")),
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization":  "Bearer " + c.token,
		"Notion-Version": apiVersion,
	}
}

type searchRequest struct {
	Query       string        `json:"query,omitempty"`
	Filter      *searchFilter `json:"filter,omitempty"`
	StartCursor string        `json:"start_cursor,omitempty"`
	PageSize    int           `json:"page_size,omitempty"`
}

type searchFilter struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

type searchResponse struct {
	Results    []Database `json:"results"`
	HasMore    bool       `json:"has_more"`
	NextCursor string     `json:"next_cursor"`
}

// FindDatabaseByName resolves a human-readable database name to its
// schema-bearing Database via the search endpoint. Matching is a
// case-insensitive exact comparison of the database title.
func (c *Client) FindDatabaseByName(ctx context.Context, name string) (*Database, error) {
	c.logger.Info("searching for database", zap.String("name", name))

	seen := make([]string, 0, 8)
	cursor := ""
	for {
		req := searchRequest{
			Filter:      &searchFilter{Property: "object", Value: "database"},
			StartCursor: cursor,
			PageSize:    maxPageSize,
		}

		var resp searchResponse
		if err := c.http.PostJSON(ctx, c.baseURL+"/v1/search", c.headers(), req, &resp); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConnection, "database search failed")
		}

		for i := range resp.Results {
			db := resp.Results[i]
			title := db.Name()
			if title == "" {
				continue
			}
			if strings.EqualFold(title, name) {
				c.logger.Info("found database",
					zap.String("title", title),
					zap.String("id", db.ID))
				return &db, nil
			}
			seen = append(seen, title)
		}

		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}

	return nil, errors.New(errors.ErrorTypeNotFound, "database not found").
		WithDetail("name", name).
		WithDetail("accessible", seen)
}

type queryRequest struct {
	Filter      interface{} `json:"filter,omitempty"`
	StartCursor string      `json:"start_cursor,omitempty"`
	PageSize    int         `json:"page_size,omitempty"`
}

type queryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// QueryAllPages returns every row of a database, following the query
// cursor until the upstream reports no more results.
func (c *Client) QueryAllPages(ctx context.Context, databaseID string) ([]Page, error) {
	var pages []Page

	cursor := ""
	for {
		req := queryRequest{StartCursor: cursor, PageSize: maxPageSize}

		var resp queryResponse
		if err := c.http.PostJSON(ctx, c.queryURL(databaseID), c.headers(), req, &resp); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConnection, "database query failed").
				WithDetail("database_id", databaseID)
		}

		pages = append(pages, resp.Results...)

		if !resp.HasMore || resp.NextCursor == "" {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}

// equalsFilter is the exact-match filter for one property. The filter
// body key depends on the property's kind.
type equalsFilter struct {
	Property string             `json:"property"`
	Title    *equalsCondition   `json:"title,omitempty"`
	RichText *equalsCondition   `json:"rich_text,omitempty"`
	Number   *numberCondition   `json:"number,omitempty"`
	Checkbox *checkboxCondition `json:"checkbox,omitempty"`
}

type equalsCondition struct {
	Equals string `json:"equals"`
}

type numberCondition struct {
	Equals float64 `json:"equals"`
}

type checkboxCondition struct {
	Equals bool `json:"equals"`
}

// QueryByProperty returns pages whose property exactly equals value,
// dispatching the filter shape on the property's declared kind.
func (c *Client) QueryByProperty(ctx context.Context, databaseID, property string, kind PropertyKind, value string) ([]Page, error) {
	filter := equalsFilter{Property: property}
	switch kind {
	case KindTitle:
		filter.Title = &equalsCondition{Equals: value}
	case KindNumber:
		n, ok := toNumber(value)
		if !ok {
			return nil, errors.New(errors.ErrorTypeData, "key value is not numeric").
				WithDetail("property", property).
				WithDetail("value", value)
		}
		filter.Number = &numberCondition{Equals: n}
	case KindCheckbox:
		b, ok := toBool(value)
		if !ok {
			return nil, errors.New(errors.ErrorTypeData, "key value is not boolean").
				WithDetail("property", property).
				WithDetail("value", value)
		}
		filter.Checkbox = &checkboxCondition{Equals: b}
	default:
		filter.RichText = &equalsCondition{Equals: value}
	}

	req := queryRequest{Filter: filter, PageSize: maxPageSize}

	var resp queryResponse
	if err := c.http.PostJSON(ctx, c.queryURL(databaseID), c.headers(), req, &resp); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "filtered query failed").
			WithDetail("database_id", databaseID).
			WithDetail("property", property)
	}

	return resp.Results, nil
}

type createPageRequest struct {
	Parent     pageParent               `json:"parent"`
	Properties map[string]PropertyValue `json:"properties"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

// CreatePage inserts a new row with the given properties.
func (c *Client) CreatePage(ctx context.Context, databaseID string, properties map[string]PropertyValue) (*Page, error) {
	req := createPageRequest{
		Parent:     pageParent{DatabaseID: databaseID},
		Properties: properties,
	}

	var page Page
	if err := c.http.PostJSON(ctx, c.baseURL+"/v1/pages", c.headers(), req, &page); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "page create failed").
			WithDetail("database_id", databaseID)
	}

	return &page, nil
}

type updatePageRequest struct {
	Properties map[string]PropertyValue `json:"properties"`
}

// UpdatePage patches the given properties on an existing row. Properties
// not present in the map are left untouched.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]PropertyValue) (*Page, error) {
	req := updatePageRequest{Properties: properties}

	var page Page
	if err := c.http.PatchJSON(ctx, c.baseURL+"/v1/pages/"+pageID, c.headers(), req, &page); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "page update failed").
			WithDetail("page_id", pageID)
	}

	return &page, nil
}

func (c *Client) queryURL(databaseID string) string {
	return c.baseURL + "/v1/databases/" + databaseID + "/query"
}
