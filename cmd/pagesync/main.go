package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/pagesync/internal/job"
	"github.com/ajitpratap0/pagesync/pkg/clients"
	"github.com/ajitpratap0/pagesync/pkg/config"
	"github.com/ajitpratap0/pagesync/pkg/enrich/openai"
	"github.com/ajitpratap0/pagesync/pkg/enrich/tmdb"
	"github.com/ajitpratap0/pagesync/pkg/enrich/unsplash"
	"github.com/ajitpratap0/pagesync/pkg/logger"
	"github.com/ajitpratap0/pagesync/pkg/notion"
)

var version = "0.1.0"

// deps bundles everything a job runner needs. Constructed once per
// invocation after the logger is up; nothing here is a package global.
type deps struct {
	cfg    *config.Config
	http   *clients.HTTPClient
	notion *notion.Client
	log    *zap.Logger
}

func buildDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireNotion(); err != nil {
		return nil, err
	}

	log := logger.Get()
	httpClient := clients.NewHTTPClient(clients.DefaultHTTPConfig(), log)

	return &deps{
		cfg:    cfg,
		http:   httpClient,
		notion: notion.NewClient(cfg.Notion, httpClient, log),
		log:    log,
	}, nil
}

func main() {
	var logLevel string

	root := &cobra.Command{
		Use:   "pagesync",
		Short: "pagesync - Notion database enrichment toolkit",
		Long: `pagesync synchronizes rows of a Notion database with external
enrichment APIs: movie/TV metadata, image search, and text generation.
Each subcommand is one sequential pass over the database; rows that fail
are logged and skipped, never abort the run.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Config{Level: logLevel, Encoding: "console"})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pagesync v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newMoviesCmd())
	root.AddCommand(newPhotosCmd())
	root.AddCommand(newTextCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newRankCmd())

	if err := root.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func newMoviesCmd() *cobra.Command {
	var tv bool

	cmd := &cobra.Command{
		Use:   "movies <database>",
		Short: "Fill posters, synopses and runtimes from the metadata service",
		Long: `Enrich a movie database from the metadata lookup service. For each
row the title (and year, if set) drives a search; missing posters,
runtimes and synopses are filled in. Populated fields are never
overwritten. With --tv the lookup switches to TV shows and fills the
first-air year instead of the runtime.

Example:
  pagesync movies "My Movies"
  pagesync movies "Watched Shows" --tv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.http.Close()
			if err := d.cfg.RequireTMDB(); err != nil {
				return err
			}

			j := &job.MoviesJob{
				Notion:   d.notion,
				TMDB:     tmdb.NewClient(d.cfg.TMDB, d.http, d.log),
				Database: args[0],
				TV:       tv,
				Logger:   d.log.With(zap.String("command", "movies")),
			}
			_, err = j.Run(context.Background())
			return err
		},
	}
	cmd.Flags().BoolVar(&tv, "tv", false, "Treat the database as TV shows")

	return cmd
}

func newPhotosCmd() *cobra.Command {
	var skipExisting bool

	cmd := &cobra.Command{
		Use:   "photos <database> <input-prop> <output-prop>",
		Short: "Fill a files property from the image search service",
		Long: `Search the image service with each row's input property text and
write the first result to the output files property. The file name
carries photographer attribution.

Example:
  pagesync photos "Travel Plans" Destination Photo --skip-existing`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.http.Close()
			if err := d.cfg.RequireUnsplash(); err != nil {
				return err
			}

			j := &job.PhotosJob{
				Notion:         d.notion,
				Unsplash:       unsplash.NewClient(d.cfg.Unsplash, d.http, d.log),
				Database:       args[0],
				InputProperty:  args[1],
				OutputProperty: args[2],
				SkipExisting:   skipExisting,
				Logger:         d.log.With(zap.String("command", "photos")),
			}
			_, err = j.Run(context.Background())
			return err
		},
	}
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Skip rows that already have images")

	return cmd
}

func newTextCmd() *cobra.Command {
	var skipExisting bool
	var maxTokens int

	cmd := &cobra.Command{
		Use:   "text <database> <input-prop> <output-prop> <prompt>",
		Short: "Fill a text property from the text-generation service",
		Long: `Send each row's input property text, prefixed with the prompt, to
the chat model and write the generated text to the output property.

Example:
  pagesync text "My Movies" Name Review "Write a one-line review of"`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.http.Close()
			if err := d.cfg.RequireOpenAI(); err != nil {
				return err
			}

			j := &job.TextJob{
				Notion:         d.notion,
				OpenAI:         openai.NewClient(d.cfg.OpenAI, d.http, d.log),
				Database:       args[0],
				InputProperty:  args[1],
				OutputProperty: args[2],
				Prompt:         args[3],
				MaxTokens:      maxTokens,
				SkipExisting:   skipExisting,
				Logger:         d.log.With(zap.String("command", "text")),
			}
			_, err = j.Run(context.Background())
			return err
		},
	}
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Skip rows that already have text")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", openai.DefaultMaxTokens, "Maximum tokens for the generated text")

	return cmd
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <database> <key-prop> <input-text>",
		Short: "Generate a structured row from free text and upsert it",
		Long: `Run the database's saved prompt template (resolved from the
environment by database name) against the input text, then create or
update the row whose key property matches the generated key value.
Fields the schema cannot hold are reported and skipped, not fatal.

Example:
  pagesync add "My Movies" Name "The 1997 film Gattaca"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.http.Close()
			if err := d.cfg.RequireOpenAI(); err != nil {
				return err
			}

			j := &job.AddJob{
				Notion:      d.notion,
				OpenAI:      openai.NewClient(d.cfg.OpenAI, d.http, d.log),
				Config:      d.cfg,
				Database:    args[0],
				KeyProperty: args[1],
				InputText:   args[2],
				Logger:      d.log.With(zap.String("command", "add")),
			}
			_, err = j.Run(context.Background())
			return err
		},
	}

	return cmd
}

func newRankCmd() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "rank <database> <rank-prop>",
		Short: "Renumber a ranking property to dense integers",
		Long: `Renumber the rows that have a value in the rank property to dense
integers 1..N, preserving the current order. Rows without a rank are
left untouched. Without --apply the diff is only reported.

Example:
  pagesync rank "My Movies" "Saleem Ranking" --apply`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps()
			if err != nil {
				return err
			}
			defer d.http.Close()

			j := &job.RankJob{
				Notion:       d.notion,
				Database:     args[0],
				RankProperty: args[1],
				Apply:        apply,
				Logger:       d.log.With(zap.String("command", "rank")),
			}
			_, err = j.Run(context.Background())
			return err
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "Write the changes (default is dry run)")

	return cmd
}
