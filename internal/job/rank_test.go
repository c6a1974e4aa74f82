package job

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/pagesync/pkg/notion"
	"github.com/ajitpratap0/pagesync/pkg/testutil"
)

func rankedDatabase() notion.Database {
	return notion.Database{
		ID:    "db-1",
		Title: []notion.RichText{{PlainText: "Books"}},
		Properties: map[string]notion.PropertySchema{
			"Name": {Type: "title"},
			"Rank": {Type: "number"},
		},
	}
}

func rankedPages() []notion.Page {
	return []notion.Page{
		{ID: "page-a", Properties: map[string]notion.PropertyValue{
			"Name": titleValue("A"), "Rank": numberValue(3.5),
		}},
		{ID: "page-b", Properties: map[string]notion.PropertyValue{
			"Name": titleValue("B"), "Rank": numberValue(1),
		}},
		{ID: "page-c", Properties: map[string]notion.PropertyValue{
			"Name": titleValue("C"),
		}},
		{ID: "page-d", Properties: map[string]notion.PropertyValue{
			"Name": titleValue("D"), "Rank": numberValue(2),
		}},
	}
}

func TestRankJobDryRunWritesNothing(t *testing.T) {
	// No PATCH route registered: any write would fail the test as an
	// unexpected request
	server := testutil.FakeUpstream(t, map[string]http.HandlerFunc{
		"POST /v1/search": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSONResponse(t, w, searchBody(rankedDatabase()))
		},
		"POST /v1/databases/db-1/query": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSONResponse(t, w, queryBody(rankedPages()...))
		},
	})

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	job := &RankJob{
		Notion:       testNotion(t, server.URL),
		Database:     "Books",
		RankProperty: "Rank",
		Logger:       testutil.TestLogger(t),
	}

	summary, err := job.Run(ctx)
	require.NoError(t, err)

	// Only A's rank (3.5 -> 3) needs a write; dry run reports it as skipped
	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
}

func TestRankJobApplyPatchesOnlyChangedRows(t *testing.T) {
	var patched map[string]notion.PropertyValue

	server := testutil.FakeUpstream(t, map[string]http.HandlerFunc{
		"POST /v1/search": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSONResponse(t, w, searchBody(rankedDatabase()))
		},
		"POST /v1/databases/db-1/query": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSONResponse(t, w, queryBody(rankedPages()...))
		},
		// B, C and D keep their values; patching them would be an
		// unexpected request
		"PATCH /v1/pages/page-a": func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Properties map[string]notion.PropertyValue `json:"properties"`
			}
			testutil.JSONRequest(t, r, &req)
			patched = req.Properties
			testutil.JSONResponse(t, w, notion.Page{ID: "page-a"})
		},
	})

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	job := &RankJob{
		Notion:       testNotion(t, server.URL),
		Database:     "Books",
		RankProperty: "Rank",
		Apply:        true,
		Logger:       testutil.TestLogger(t),
	}

	summary, err := job.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)

	require.NotNil(t, patched["Rank"].Number)
	assert.Equal(t, float64(3), *patched["Rank"].Number)
}

func TestRankJobAlreadyDense(t *testing.T) {
	pages := []notion.Page{
		{ID: "page-a", Properties: map[string]notion.PropertyValue{
			"Name": titleValue("A"), "Rank": numberValue(1),
		}},
		{ID: "page-b", Properties: map[string]notion.PropertyValue{
			"Name": titleValue("B"), "Rank": numberValue(2),
		}},
	}

	server := testutil.FakeUpstream(t, map[string]http.HandlerFunc{
		"POST /v1/search": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSONResponse(t, w, searchBody(rankedDatabase()))
		},
		"POST /v1/databases/db-1/query": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSONResponse(t, w, queryBody(pages...))
		},
	})

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	job := &RankJob{
		Notion:       testNotion(t, server.URL),
		Database:     "Books",
		RankProperty: "Rank",
		Apply:        true,
		Logger:       testutil.TestLogger(t),
	}

	summary, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
}
