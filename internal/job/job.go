// Package job contains the per-command batch runners. Each runner is a
// single sequential pass over one database: resolve the database by name,
// fetch its schema once, iterate every row, call the enrichment API the
// command needs, and patch the row. A failure on one row is logged and
// counted; the loop always proceeds to the next row.
package job

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/pagesync/pkg/notion"
)

// Summary is the per-run outcome tally reported after the final row.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
}

func (s Summary) log(logger *zap.Logger) {
	logger.Info("processing complete",
		zap.Int("processed", s.Processed),
		zap.Int("skipped", s.Skipped),
		zap.Int("failed", s.Failed))
}

// hasText reports whether a text property already holds a non-blank run.
func hasText(kind notion.PropertyKind, v notion.PropertyValue) bool {
	text, ok := notion.PlainText(kind, v)
	return ok && text != ""
}

// hasFiles reports whether a files property already holds attachments.
func hasFiles(v notion.PropertyValue) bool {
	return len(v.Files) > 0
}
