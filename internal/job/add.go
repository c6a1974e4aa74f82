package job

import (
	"context"

	"go.uber.org/zap"

	"github.com/ajitpratap0/pagesync/pkg/config"
	"github.com/ajitpratap0/pagesync/pkg/enrich/openai"
	"github.com/ajitpratap0/pagesync/pkg/errors"
	"github.com/ajitpratap0/pagesync/pkg/notion"
)

// AddJob turns free text into a structured row: the database's saved
// prompt template generates a JSON object, which is upserted keyed on
// KeyProperty. An existing row with the same key value is patched, never
// duplicated.
type AddJob struct {
	Notion      *notion.Client
	OpenAI      *openai.Client
	Config      *config.Config
	Database    string
	KeyProperty string
	InputText   string
	Logger      *zap.Logger
}

// Run generates and upserts one row.
func (j *AddJob) Run(ctx context.Context) (*notion.UpsertResult, error) {
	prompt, err := j.Config.PromptFor(j.Database)
	if err != nil {
		return nil, err
	}

	db, err := j.Notion.FindDatabaseByName(ctx, j.Database)
	if err != nil {
		return nil, err
	}
	schema := notion.SchemaOf(db)

	if _, ok := schema.Kind(j.KeyProperty); !ok {
		return nil, errors.New(errors.ErrorTypeValidation, "key property not found in database").
			WithDetail("property", j.KeyProperty).
			WithDetail("available", schema.PropertyNames())
	}

	data, err := j.OpenAI.GenerateJSON(ctx, prompt, j.InputText)
	if err != nil {
		return nil, err
	}

	if _, ok := data[j.KeyProperty]; !ok {
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		return nil, errors.New(errors.ErrorTypeData, "key property missing from generated data").
			WithDetail("property", j.KeyProperty).
			WithDetail("generated_keys", keys)
	}

	result, err := j.Notion.Upsert(ctx, db, schema, j.KeyProperty, data)
	if err != nil {
		return nil, err
	}

	action := "updated"
	if result.Created {
		action = "created"
	}
	j.Logger.Info("upsert complete",
		zap.String("action", action),
		zap.String("page_id", result.PageID),
		zap.Int("written", len(result.Written)),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}
