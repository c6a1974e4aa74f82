package job

import (
	"context"

	"go.uber.org/zap"

	"github.com/ajitpratap0/pagesync/pkg/notion"
	"github.com/ajitpratap0/pagesync/pkg/rank"
)

// RankJob renumbers a numeric ranking property to dense integers 1..N
// while preserving the existing order. Dry-run by default; Apply writes
// only the rows whose rank actually changes.
type RankJob struct {
	Notion       *notion.Client
	Database     string
	RankProperty string
	Apply        bool
	Logger       *zap.Logger
}

// Run performs the renumbering pass.
func (j *RankJob) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	db, err := j.Notion.FindDatabaseByName(ctx, j.Database)
	if err != nil {
		return summary, err
	}

	pages, err := j.Notion.QueryAllPages(ctx, db.ID)
	if err != nil {
		return summary, err
	}

	entries := make([]rank.Entry, 0, len(pages))
	unranked := 0
	for i := range pages {
		page := &pages[i]
		entry := rank.Entry{
			ID:    page.ID,
			Title: page.Title("Untitled"),
			Rank:  page.Properties[j.RankProperty].Number,
		}
		if entry.Rank == nil {
			unranked++
		}
		entries = append(entries, entry)
	}
	j.Logger.Info("fetched rows",
		zap.Int("ranked", len(entries)-unranked),
		zap.Int("unranked", unranked))

	changes := rank.Renumber(entries)
	pending := rank.Pending(changes)

	j.Logger.Info("renumbering computed",
		zap.Int("changes", len(pending)),
		zap.Int("unchanged", len(changes)-len(pending)))

	for _, c := range pending {
		j.Logger.Info("rank change",
			zap.String("title", c.Entry.Title),
			zap.Float64("old", c.OldRank),
			zap.Int("new", c.NewRank))
	}

	if !j.Apply {
		j.Logger.Info("dry run, no changes written; re-run with --apply to write")
		summary.Skipped = len(pending)
		return summary, nil
	}

	for _, c := range pending {
		newRank := float64(c.NewRank)
		patch := map[string]notion.PropertyValue{
			j.RankProperty: {Number: &newRank},
		}
		if _, err := j.Notion.UpdatePage(ctx, c.Entry.ID, patch); err != nil {
			j.Logger.Error("rank update failed",
				zap.String("title", c.Entry.Title),
				zap.Error(err))
			summary.Failed++
			continue
		}
		summary.Processed++
	}

	summary.log(j.Logger)
	return summary, nil
}
