package job

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/pagesync/pkg/config"
	"github.com/ajitpratap0/pagesync/pkg/errors"
	"github.com/ajitpratap0/pagesync/pkg/notion"
	"github.com/ajitpratap0/pagesync/pkg/testutil"
)

func addDatabase() notion.Database {
	return notion.Database{
		ID:    "db-1",
		Title: []notion.RichText{{PlainText: "Movies"}},
		Properties: map[string]notion.PropertySchema{
			"Name": {Type: "title"},
			"Year": {Type: "number"},
		},
	}
}

func TestAddJobGeneratesAndCreatesRow(t *testing.T) {
	t.Setenv("MOVIES_PROMPT_ID", "pmpt_123")
	t.Setenv("MOVIES_PROMPT_VERSION", "2")

	var createdProps map[string]notion.PropertyValue

	server := testutil.FakeUpstream(t, map[string]http.HandlerFunc{
		"POST /v1/search": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSONResponse(t, w, searchBody(addDatabase()))
		},
		"POST /v1/responses": func(w http.ResponseWriter, r *http.Request) {
			var req map[string]interface{}
			testutil.JSONRequest(t, r, &req)
			assert.Equal(t, "pmpt_123", req["prompt_id"])
			assert.Equal(t, "2", req["prompt_version"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"output":{"Name":"Gattaca","Year":1997}}`))
		},
		"POST /v1/databases/db-1/query": func(w http.ResponseWriter, r *http.Request) {
			// No existing row with this key
			testutil.JSONResponse(t, w, queryBody())
		},
		"POST /v1/pages": func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Parent struct {
					DatabaseID string `json:"database_id"`
				} `json:"parent"`
				Properties map[string]notion.PropertyValue `json:"properties"`
			}
			testutil.JSONRequest(t, r, &req)
			assert.Equal(t, "db-1", req.Parent.DatabaseID)
			createdProps = req.Properties
			testutil.JSONResponse(t, w, notion.Page{ID: "page-new"})
		},
	})

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)

	job := &AddJob{
		Notion:      testNotion(t, server.URL),
		OpenAI:      testOpenAI(t, server.URL),
		Config:      cfg,
		Database:    "Movies",
		KeyProperty: "Name",
		InputText:   "the 1997 film about genetic discrimination",
		Logger:      testutil.TestLogger(t),
	}

	result, err := job.Run(ctx)
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Equal(t, "page-new", result.PageID)

	require.Len(t, createdProps["Name"].Title, 1)
	assert.Equal(t, "Gattaca", createdProps["Name"].Title[0].Text.Content)
	require.NotNil(t, createdProps["Year"].Number)
	assert.Equal(t, float64(1997), *createdProps["Year"].Number)
}

func TestAddJobMissingPromptConfig(t *testing.T) {
	server := testutil.FakeUpstream(t, map[string]http.HandlerFunc{})

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)

	job := &AddJob{
		Notion:      testNotion(t, server.URL),
		OpenAI:      testOpenAI(t, server.URL),
		Config:      cfg,
		Database:    "Unconfigured DB",
		KeyProperty: "Name",
		InputText:   "anything",
		Logger:      testutil.TestLogger(t),
	}

	_, err = job.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestAddJobKeyMissingFromGeneratedData(t *testing.T) {
	t.Setenv("MOVIES_PROMPT_ID", "pmpt_123")
	t.Setenv("MOVIES_PROMPT_VERSION", "2")

	server := testutil.FakeUpstream(t, map[string]http.HandlerFunc{
		"POST /v1/search": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSONResponse(t, w, searchBody(addDatabase()))
		},
		"POST /v1/responses": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"output":{"Year":1997}}`))
		},
	})

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)

	job := &AddJob{
		Notion:      testNotion(t, server.URL),
		OpenAI:      testOpenAI(t, server.URL),
		Config:      cfg,
		Database:    "Movies",
		KeyProperty: "Name",
		InputText:   "anything",
		Logger:      testutil.TestLogger(t),
	}

	_, err = job.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestAddJobKeyNotInSchema(t *testing.T) {
	t.Setenv("MOVIES_PROMPT_ID", "pmpt_123")
	t.Setenv("MOVIES_PROMPT_VERSION", "2")

	server := testutil.FakeUpstream(t, map[string]http.HandlerFunc{
		"POST /v1/search": func(w http.ResponseWriter, r *http.Request) {
			testutil.JSONResponse(t, w, searchBody(addDatabase()))
		},
	})

	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)

	job := &AddJob{
		Notion:      testNotion(t, server.URL),
		OpenAI:      testOpenAI(t, server.URL),
		Config:      cfg,
		Database:    "Movies",
		KeyProperty: "Title",
		InputText:   "anything",
		Logger:      testutil.TestLogger(t),
	}

	_, err = job.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}
