package job

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/pagesync/pkg/enrich/tmdb"
	"github.com/ajitpratap0/pagesync/pkg/notion"
)

// Default property names for a movie/TV database, matching the layout
// the command was built around.
const (
	defaultTitleProperty    = "Name"
	defaultYearProperty     = "Year"
	defaultPosterProperty   = "Poster"
	defaultRuntimeProperty  = "Runtime"
	defaultSynopsisProperty = "Synopsis"
)

// MoviesJob enriches a movie or TV database from the metadata service:
// poster, synopsis, and runtime (movies) or first-air year (TV shows).
// Fields already populated on a row are never overwritten.
type MoviesJob struct {
	Notion   *notion.Client
	TMDB     *tmdb.Client
	Database string
	TV       bool
	Logger   *zap.Logger
}

// Run performs one pass over the database.
func (j *MoviesJob) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	db, err := j.Notion.FindDatabaseByName(ctx, j.Database)
	if err != nil {
		return summary, err
	}

	pages, err := j.Notion.QueryAllPages(ctx, db.ID)
	if err != nil {
		return summary, err
	}
	j.Logger.Info("fetched rows", zap.Int("count", len(pages)))

	for i := range pages {
		page := &pages[i]

		title, ok := notion.PlainText(notion.KindTitle, page.Properties[defaultTitleProperty])
		if !ok {
			j.Logger.Warn("skipping row without a title", zap.String("page_id", page.ID))
			summary.Skipped++
			continue
		}

		log := j.Logger.With(zap.String("title", title))
		log.Info("processing row")

		patch, err := j.buildPatch(ctx, page, title, log)
		if err != nil {
			log.Error("enrichment failed", zap.Error(err))
			summary.Failed++
			continue
		}

		if len(patch) == 0 {
			log.Info("nothing to update")
			summary.Skipped++
			continue
		}

		if _, err := j.Notion.UpdatePage(ctx, page.ID, patch); err != nil {
			log.Error("update failed", zap.Error(err))
			summary.Failed++
			continue
		}

		log.Info("row updated", zap.Int("fields", len(patch)))
		summary.Processed++
	}

	summary.log(j.Logger)
	return summary, nil
}

// buildPatch assembles the partial update for one row, fetching metadata
// only for the fields the row is missing.
func (j *MoviesJob) buildPatch(ctx context.Context, page *notion.Page, title string, log *zap.Logger) (map[string]notion.PropertyValue, error) {
	needPoster := !hasFiles(page.Properties[defaultPosterProperty])
	needSynopsis := !hasText(notion.KindRichText, page.Properties[defaultSynopsisProperty])

	var needDetail bool
	if j.TV {
		needDetail = page.Properties[defaultYearProperty].Number == nil
	} else {
		needDetail = page.Properties[defaultRuntimeProperty].Number == nil
	}

	if !needPoster && !needSynopsis && !needDetail {
		return nil, nil
	}

	patch := make(map[string]notion.PropertyValue)

	var posterURL, synopsis *string
	var detail *float64
	detailProperty := defaultRuntimeProperty

	if j.TV {
		details, err := j.TMDB.LookupTV(ctx, title)
		if err != nil {
			return nil, err
		}
		posterURL, synopsis, detail = details.PosterURL, details.Synopsis, details.Year
		detailProperty = defaultYearProperty
	} else {
		year := 0
		if n := page.Properties[defaultYearProperty].Number; n != nil {
			year = int(*n)
		}
		details, err := j.TMDB.LookupMovie(ctx, title, year)
		if err != nil {
			return nil, err
		}
		posterURL, synopsis, detail = details.PosterURL, details.Synopsis, details.Runtime
	}

	if needPoster && posterURL != nil {
		patch[defaultPosterProperty] = notion.ExternalFileValue(title+" poster", *posterURL)
	} else if needPoster {
		log.Info("no poster found")
	}

	if needDetail && detail != nil {
		patch[detailProperty] = notion.PropertyValue{Number: detail}
	} else if needDetail {
		log.Info("no " + strings.ToLower(detailProperty) + " data available")
	}

	if needSynopsis && synopsis != nil {
		value, err := notion.FormatValue(notion.KindRichText, *synopsis)
		if err == nil {
			patch[defaultSynopsisProperty] = value
		}
	} else if needSynopsis {
		log.Info("no synopsis available")
	}

	return patch, nil
}
