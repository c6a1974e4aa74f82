package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ajitpratap0/pagesync/pkg/clients"
	"github.com/ajitpratap0/pagesync/pkg/config"
	"github.com/ajitpratap0/pagesync/pkg/notion"
	"github.com/ajitpratap0/pagesync/pkg/testutil"
)

func testHTTP(t *testing.T) *clients.HTTPClient {
	t.Helper()
	httpClient := clients.NewHTTPClient(&clients.HTTPConfig{
		RequestTimeout: 5 * time.Second,
	}, testutil.TestLogger(t))
	t.Cleanup(httpClient.Close)
	return httpClient
}

func testNotion(t *testing.T, baseURL string) *notion.Client {
	t.Helper()
	return notion.NewClient(config.NotionConfig{
		Token:   "notion-key",
		BaseURL: baseURL,
	}, testHTTP(t), testutil.TestLogger(t))
}

// searchBody and queryBody build the wire shapes the fake Notion upstream
// returns for database search and page queries.
func searchBody(dbs ...notion.Database) map[string]interface{} {
	return map[string]interface{}{"results": dbs, "has_more": false}
}

func queryBody(pages ...notion.Page) map[string]interface{} {
	return map[string]interface{}{"results": pages, "has_more": false}
}

func titleValue(s string) notion.PropertyValue {
	return notion.PropertyValue{Title: []notion.RichText{{PlainText: s}}}
}

func richTextValue(s string) notion.PropertyValue {
	return notion.PropertyValue{RichText: []notion.RichText{{PlainText: s}}}
}

func numberValue(n float64) notion.PropertyValue {
	return notion.PropertyValue{Number: &n}
}

func TestHasText(t *testing.T) {
	assert.True(t, hasText(notion.KindRichText, richTextValue("synopsis")))
	assert.True(t, hasText(notion.KindTitle, titleValue("name")))
	assert.False(t, hasText(notion.KindRichText, notion.PropertyValue{}))
	assert.False(t, hasText(notion.KindRichText, richTextValue("")))
}

func TestHasFiles(t *testing.T) {
	assert.True(t, hasFiles(notion.ExternalFileValue("poster", "https://example.com/p.jpg")))
	assert.False(t, hasFiles(notion.PropertyValue{}))
}
