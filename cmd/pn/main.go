// Package main provides the pn CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/matsen/papernet/internal/config"
	"github.com/matsen/papernet/internal/httpapi"
	"github.com/matsen/papernet/internal/logging"
	"github.com/matsen/papernet/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// logLevel overrides log.level from the config file when set
var logLevel string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pn",
	Short: "Paper network CLI",
	Long: `pn collects papers from arXiv, expands their citation network through
Semantic Scholar, and renders co-authorship and citation graphs.

Data lives in a CSV papers table and a JSON citation snapshot, with an
ephemeral SQLite index for search. All commands output JSON by default;
logs go to stderr.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.Version = Version
}

// mustFindRepository finds the repository enclosing the working directory,
// exits on error.
func mustFindRepository() string {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	repoRoot, err := config.FindRepository(cwd)
	if err != nil {
		exitWithError(ExitConfigError, "%v\n\nRun 'pn init' to create one.", err)
	}
	return repoRoot
}

// mustLoadConfig loads .env files and the config file, applies environment
// and flag overrides, and validates the result. Exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	config.LoadEnv(repoRoot)

	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	cfg.ApplyEnv()
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "invalid config: %v", err)
	}
	return cfg
}

// newLogger builds the stderr logger for a command.
func newLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// newHTTPClient builds a rate-limited API client from config.
func newHTTPClient(cfg *config.Config, perSecond float64, logger zerolog.Logger, opts ...httpapi.Option) *httpapi.Client {
	base := []httpapi.Option{
		httpapi.WithRateLimit(perSecond, 1),
		httpapi.WithUserAgent(cfg.UserAgent),
		httpapi.WithRetries(cfg.Retries(), httpapi.DefaultRetryDelay),
		httpapi.WithLogger(logger),
	}
	return httpapi.New(append(base, opts...)...)
}

// mustOpenDatabase opens the SQLite database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// apiExitCode maps an API error to an exit code.
func apiExitCode(err error) int {
	switch {
	case httpapi.IsNotFound(err):
		return ExitNotFound
	case httpapi.IsAuthError(err):
		return ExitConfigError
	default:
		return ExitAPIError
	}
}
