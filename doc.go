// Package pagesync provides a command-line toolkit for enriching Notion
// databases from external APIs: movie and TV metadata from TMDB, photo
// search from Unsplash, and text generation from OpenAI.
//
// Each command is a single sequential pass over one database, resolved by
// its human-readable name. Rows are enriched in place with partial patches;
// a field that already holds a value is never overwritten, so every command
// is safe to re-run.
//
// # Commands
//
//	pagesync movies "My Movies"           # poster, runtime, synopsis
//	pagesync movies --tv "Shows"          # poster, first-air year, synopsis
//	pagesync photos "Recipes" Name Photo  # image search with attribution
//	pagesync text "Reviews" Name Summary "Write a one-line review"
//	pagesync add "Movies" Name "the 1997 film about genetic discrimination"
//	pagesync rank "Books" Rank --apply    # renumber to dense 1..N
//
// # Key Packages
//
//	pkg/notion    - Notion API client: search, query, upsert, typed properties
//	pkg/enrich    - TMDB, Unsplash and OpenAI API wrappers
//	pkg/rank      - order-preserving dense renumbering
//	pkg/clients   - shared rate-limited HTTP client
//	pkg/config    - environment-based configuration
//	pkg/errors    - structured error handling
//	pkg/logger    - structured logging
//	internal/job  - per-command batch runners
//
// # Configuration
//
// Configuration comes from the environment, optionally via a .env file in
// the working directory:
//
//	NOTION_KEY            Notion integration token (always required)
//	TMDB_KEY              TMDB API key (movies command)
//	UNSPLASH_ACCESS_KEY   Unsplash access key (photos command)
//	OPENAI_API_KEY        OpenAI API key (text and add commands)
//	OPENAI_MODEL          chat model, default gpt-4o-mini
//
// The add command additionally reads a saved prompt template per database:
// for a database named "My Movies" it expects MY_MOVIES_PROMPT_ID and
// MY_MOVIES_PROMPT_VERSION.
//
// # Error Handling
//
// A failure on one row is logged and counted; the pass always continues to
// the next row and reports a processed/skipped/failed summary at the end.
// Requests are rate limited client-side (3 requests/second by default) and
// there is deliberately no retry layer.
package pagesync
