// Package config provides the unified configuration system for pagesync.
// It defines a single Config structure that is constructed once at process
// start and passed by reference into every component. No package in this
// module reads credentials from ambient globals.
//
// Credentials are resolved from the environment (a .env file is loaded
// first when present), with per-database prompt template settings derived
// deterministically from the human-readable database name.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.RequireNotion(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ajitpratap0/pagesync/pkg/errors"
)

// Default endpoints and models. Each can be overridden via environment.
const (
	DefaultOpenAIChatEndpoint   = "https://api.openai.com/v1/chat/completions"
	DefaultOpenAIPromptEndpoint = "https://api.openai.com/v1/responses"
	DefaultOpenAIModel          = "gpt-4o-mini"
	DefaultTMDBBaseURL          = "https://api.themoviedb.org/3"
	DefaultUnsplashBaseURL      = "https://api.unsplash.com"
	DefaultNotionBaseURL        = "https://api.notion.com"
)

// Config holds every credential and endpoint pagesync can use. Commands
// validate only the sections they need, so a movies run does not require
// an OpenAI key.
type Config struct {
	Notion   NotionConfig
	TMDB     TMDBConfig
	Unsplash UnsplashConfig
	OpenAI   OpenAIConfig

	// viper instance kept for derived per-database lookups
	v *viper.Viper
}

// NotionConfig contains Notion API settings.
type NotionConfig struct {
	// Token is the integration bearer token (NOTION_KEY)
	Token string
	// BaseURL allows pointing at a test server
	BaseURL string
}

// TMDBConfig contains movie/TV metadata service settings.
type TMDBConfig struct {
	// APIKey is sent as a query parameter (TMDB_KEY)
	APIKey string
	// BaseURL allows pointing at a test server
	BaseURL string
}

// UnsplashConfig contains image search service settings.
type UnsplashConfig struct {
	// AccessKey is sent as a Client-ID header (UNSPLASH_ACCESS_KEY)
	AccessKey string
	// BaseURL allows pointing at a test server
	BaseURL string
}

// OpenAIConfig contains text-generation service settings.
type OpenAIConfig struct {
	// APIKey is the bearer token (OPENAI_API_KEY)
	APIKey string
	// Model is the chat model name (OPENAI_MODEL)
	Model string
	// ChatEndpoint is the chat-completions URL (OPENAI_ENDPOINT override)
	ChatEndpoint string
	// PromptEndpoint is the saved-prompt-template URL
	PromptEndpoint string
}

// PromptConfig identifies a saved prompt template for one database.
type PromptConfig struct {
	ID      string
	Version string
}

// Load resolves configuration from the environment. A .env file in the
// working directory is loaded first if present.
func Load() (*Config, error) {
	// Ignore error if .env doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("OPENAI_MODEL", DefaultOpenAIModel)
	v.SetDefault("OPENAI_ENDPOINT", DefaultOpenAIChatEndpoint)

	cfg := &Config{
		Notion: NotionConfig{
			Token:   v.GetString("NOTION_KEY"),
			BaseURL: DefaultNotionBaseURL,
		},
		TMDB: TMDBConfig{
			APIKey:  v.GetString("TMDB_KEY"),
			BaseURL: DefaultTMDBBaseURL,
		},
		Unsplash: UnsplashConfig{
			AccessKey: v.GetString("UNSPLASH_ACCESS_KEY"),
			BaseURL:   DefaultUnsplashBaseURL,
		},
		OpenAI: OpenAIConfig{
			APIKey:         v.GetString("OPENAI_API_KEY"),
			Model:          v.GetString("OPENAI_MODEL"),
			ChatEndpoint:   v.GetString("OPENAI_ENDPOINT"),
			PromptEndpoint: DefaultOpenAIPromptEndpoint,
		},
		v: v,
	}

	return cfg, nil
}

// RequireNotion returns a config error if the Notion token is missing.
func (c *Config) RequireNotion() error {
	if c.Notion.Token == "" {
		return errors.New(errors.ErrorTypeConfig, "NOTION_KEY not set").
			WithDetail("hint", "add your Notion integration token to .env")
	}
	return nil
}

// RequireTMDB returns a config error if the TMDB key is missing.
func (c *Config) RequireTMDB() error {
	if c.TMDB.APIKey == "" {
		return errors.New(errors.ErrorTypeConfig, "TMDB_KEY not set")
	}
	return nil
}

// RequireUnsplash returns a config error if the Unsplash key is missing.
func (c *Config) RequireUnsplash() error {
	if c.Unsplash.AccessKey == "" {
		return errors.New(errors.ErrorTypeConfig, "UNSPLASH_ACCESS_KEY not set").
			WithDetail("hint", "sign up at https://unsplash.com/developers")
	}
	return nil
}

// RequireOpenAI returns a config error if the OpenAI key is missing.
func (c *Config) RequireOpenAI() error {
	if c.OpenAI.APIKey == "" {
		return errors.New(errors.ErrorTypeConfig, "OPENAI_API_KEY not set")
	}
	return nil
}

// PromptFor resolves the saved prompt template for a database. The
// environment variable prefix is derived from the database name with
// EnvPrefix, e.g. "My Movies" reads MY_MOVIES_PROMPT_ID and
// MY_MOVIES_PROMPT_VERSION.
func (c *Config) PromptFor(databaseName string) (PromptConfig, error) {
	prefix := EnvPrefix(databaseName)
	prompt := PromptConfig{
		ID:      c.v.GetString(prefix + "_PROMPT_ID"),
		Version: c.v.GetString(prefix + "_PROMPT_VERSION"),
	}

	if prompt.ID == "" || prompt.Version == "" {
		return PromptConfig{}, errors.New(errors.ErrorTypeConfig,
			"custom prompt configuration not found for database").
			WithDetail("database", databaseName).
			WithDetail("expected_env", prefix+"_PROMPT_ID, "+prefix+"_PROMPT_VERSION")
	}

	return prompt, nil
}

// EnvPrefix derives the environment variable prefix for a database name:
// uppercase, non-alphanumeric runs collapse to a single underscore, edges
// trimmed. "Book Reviews (2024)" becomes "BOOK_REVIEWS_2024".
func EnvPrefix(databaseName string) string {
	upper := strings.ToUpper(databaseName)

	var b strings.Builder
	b.Grow(len(upper))
	lastUnderscore := false
	for _, r := range upper {
		switch {
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	return strings.Trim(b.String(), "_")
}
