package job

import (
	"context"

	"go.uber.org/zap"

	"github.com/ajitpratap0/pagesync/pkg/enrich/openai"
	"github.com/ajitpratap0/pagesync/pkg/notion"
)

// TextJob enriches a database with generated text: each row's input
// property is combined with the run's prompt and sent to the chat model,
// and the result lands in the output property.
type TextJob struct {
	Notion         *notion.Client
	OpenAI         *openai.Client
	Database       string
	InputProperty  string
	OutputProperty string
	Prompt         string
	MaxTokens      int
	SkipExisting   bool
	Logger         *zap.Logger
}

// Run performs one pass over the database.
func (j *TextJob) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	db, err := j.Notion.FindDatabaseByName(ctx, j.Database)
	if err != nil {
		return summary, err
	}
	schema := notion.SchemaOf(db)

	outputKind, ok := schema.Kind(j.OutputProperty)
	if !ok {
		j.Logger.Warn("output property not in schema, assuming rich text",
			zap.String("property", j.OutputProperty))
		outputKind = notion.KindRichText
	}

	pages, err := j.Notion.QueryAllPages(ctx, db.ID)
	if err != nil {
		return summary, err
	}
	j.Logger.Info("fetched rows", zap.Int("count", len(pages)))

	for i := range pages {
		page := &pages[i]
		title := page.Title("Untitled")
		log := j.Logger.With(zap.String("title", title))
		log.Info("processing row")

		if j.SkipExisting && hasText(outputKind, page.Properties[j.OutputProperty]) {
			log.Info("already has text, skipping", zap.String("property", j.OutputProperty))
			summary.Skipped++
			continue
		}

		inputKind, _ := schema.Kind(j.InputProperty)
		input, ok := notion.PlainText(inputKind, page.Properties[j.InputProperty])
		if !ok || input == "" {
			log.Warn("no text in input property", zap.String("property", j.InputProperty))
			summary.Skipped++
			continue
		}

		generated, err := j.OpenAI.Generate(ctx, j.Prompt, input, j.MaxTokens)
		if err != nil {
			log.Error("generation failed", zap.Error(err))
			summary.Failed++
			continue
		}
		if generated == "" {
			log.Warn("no text generated")
			summary.Failed++
			continue
		}

		value, err := notion.FormatValue(outputKind, generated)
		if err != nil {
			log.Warn("skipping property",
				zap.String("property", j.OutputProperty),
				zap.String("reason", err.Error()))
			summary.Failed++
			continue
		}

		patch := map[string]notion.PropertyValue{j.OutputProperty: value}
		if _, err := j.Notion.UpdatePage(ctx, page.ID, patch); err != nil {
			log.Error("update failed", zap.Error(err))
			summary.Failed++
			continue
		}

		log.Info("text updated")
		summary.Processed++
	}

	summary.log(j.Logger)
	return summary, nil
}
