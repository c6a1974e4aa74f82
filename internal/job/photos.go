package job

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ajitpratap0/pagesync/pkg/enrich/unsplash"
	"github.com/ajitpratap0/pagesync/pkg/notion"
)

// PhotosJob enriches a database with image search results: the input
// property's text becomes the search query, the first hit is written to
// the output files property with photographer attribution in the name.
type PhotosJob struct {
	Notion         *notion.Client
	Unsplash       *unsplash.Client
	Database       string
	InputProperty  string
	OutputProperty string
	SkipExisting   bool
	Logger         *zap.Logger
}

// Run performs one pass over the database.
func (j *PhotosJob) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	db, err := j.Notion.FindDatabaseByName(ctx, j.Database)
	if err != nil {
		return summary, err
	}
	schema := notion.SchemaOf(db)

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

		if j.SkipExisting && hasFiles(page.Properties[j.OutputProperty]) {
			log.Info("already has images, skipping", zap.String("property", j.OutputProperty))
			summary.Skipped++
			continue
		}

		inputKind, _ := schema.Kind(j.InputProperty)
		query, ok := notion.PlainText(inputKind, page.Properties[j.InputProperty])
		if !ok || query == "" {
			log.Warn("no text in input property", zap.String("property", j.InputProperty))
			summary.Skipped++
			continue
		}

		photo, err := j.Unsplash.SearchPhoto(ctx, query)
		if err != nil {
			log.Error("image search failed", zap.Error(err))
			summary.Failed++
			continue
		}
		if photo == nil {
			log.Warn("no image found", zap.String("query", query))
			summary.Failed++
			continue
		}

		name := fmt.Sprintf("%s - Photo by %s", title, photo.Photographer)
		patch := map[string]notion.PropertyValue{
			j.OutputProperty: notion.ExternalFileValue(name, photo.URL),
		}
		if _, err := j.Notion.UpdatePage(ctx, page.ID, patch); err != nil {
			log.Error("update failed", zap.Error(err))
			summary.Failed++
			continue
		}

		log.Info("image updated", zap.String("photographer", photo.Photographer))
		summary.Processed++
	}

	summary.log(j.Logger)
	return summary, nil
}
