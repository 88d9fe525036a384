package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/matsen/papernet/internal/arxiv"
	"github.com/matsen/papernet/internal/config"
	"github.com/matsen/papernet/internal/fetch"
	"github.com/matsen/papernet/internal/logging"
	"github.com/matsen/papernet/internal/paper"
	"github.com/matsen/papernet/internal/storage"
)

var (
	arxivMax    int
	arxivStart  int
	arxivNoSeed bool
)

var arxivCmd = &cobra.Command{
	Use:   "arxiv",
	Short: "Fetch papers from the arXiv API",
	Long: `Commands for collecting papers from arXiv by keyword.

Fetched papers are deduplicated by id within a session and against the
papers table, which is stored as CSV (papers_file in config.yml).

The keyword defaults to arxiv.keyword from config.yml.`,
}

var arxivFetchCmd = &cobra.Command{
	Use:   "fetch [keyword]",
	Short: "Fetch one page of results and print the unseen papers",
	Long: `Fetch one page of search results and print the papers not already in
the papers table. The table is not modified.

Examples:
  pn arxiv fetch PyTorch
  pn arxiv fetch "graph neural networks" --max 20 --start 40 --human`,
	Args: cobra.MaximumNArgs(1),
	RunE: runArxivFetch,
}

var arxivUpdateCmd = &cobra.Command{
	Use:   "update [keyword]",
	Short: "Fetch new papers and append them to the papers table",
	Long: `Load the papers table, fetch one page of results, and write the existing
rows followed by the new ones back to the table.

Examples:
  pn arxiv update
  pn arxiv update PyTorch --max 200`,
	Args: cobra.MaximumNArgs(1),
	RunE: runArxivUpdate,
}

var arxivAuthorsCmd = &cobra.Command{
	Use:   "authors",
	Short: "List the distinct authors of the papers table",
	Args:  cobra.NoArgs,
	RunE:  runArxivAuthors,
}

func init() {
	for _, c := range []*cobra.Command{arxivFetchCmd, arxivUpdateCmd} {
		c.Flags().IntVarP(&arxivMax, "max", "n", 0, "Maximum results to request (default: arxiv.max_results)")
	}
	arxivFetchCmd.Flags().IntVar(&arxivStart, "start", 0, "Result offset")
	arxivFetchCmd.Flags().BoolVar(&arxivNoSeed, "all", false, "Print every result, including papers already in the table")

	arxivCmd.AddCommand(arxivFetchCmd)
	arxivCmd.AddCommand(arxivUpdateCmd)
	arxivCmd.AddCommand(arxivAuthorsCmd)
	rootCmd.AddCommand(arxivCmd)
}

// FetchResult is the response for the fetch command.
type FetchResult struct {
	Session string         `json:"session"`
	Keyword string         `json:"keyword"`
	Papers  []PaperSummary `json:"papers"`
	Count   int            `json:"count"`
}

// UpdateResult is the response for the update command.
type UpdateResult struct {
	Status  string `json:"status"`
	Session string `json:"session"`
	Keyword string `json:"keyword"`
	Path    string `json:"path"`
	fetch.UpdateResult
}

// AuthorsResult is the response for the authors command.
type AuthorsResult struct {
	Authors []string `json:"authors"`
	Count   int      `json:"count"`
}

// newFetcher wires an arXiv client into a Fetcher.
func newFetcher(cfg *config.Config, logger zerolog.Logger, keyword string) *fetch.Fetcher {
	logger = logging.WithSearchContext(logger, keyword, "arxiv")
	client := arxiv.NewClient(cfg.Arxiv.BaseURL, newHTTPClient(cfg, cfg.Arxiv.RateLimit, logger))
	return fetch.New(client, fetch.WithLogger(logger))
}

func keywordArg(cfg *config.Config, args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return cfg.Arxiv.Keyword
}

func maxResults(cfg *config.Config) int {
	if arxivMax > 0 {
		return arxivMax
	}
	return cfg.Arxiv.MaxResults
}

func runArxivFetch(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	keyword := keywordArg(cfg, args)
	f := newFetcher(cfg, newLogger(cfg), keyword)

	if !arxivNoSeed {
		if _, err := f.Load(cfg.PapersPath(repoRoot)); err != nil {
			exitWithError(ExitDataError, "reading papers table: %v", err)
		}
	}

	records, err := f.FetchFrom(context.Background(), keyword, arxivStart, maxResults(cfg))
	if err != nil {
		exitWithError(apiExitCode(err), "fetching %q: %v", keyword, err)
	}

	if humanOutput {
		fmt.Printf("%d new papers for %q\n\n", len(records), keyword)
		printPapersHuman(records, ListTitleMaxLen)
	} else {
		outputJSON(FetchResult{
			Session: f.Session(),
			Keyword: keyword,
			Papers:  summarize(records),
			Count:   len(records),
		})
	}
	return nil
}

func runArxivUpdate(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	keyword := keywordArg(cfg, args)
	f := newFetcher(cfg, newLogger(cfg), keyword)
	path := cfg.PapersPath(repoRoot)

	res, err := f.Update(context.Background(), path, keyword, maxResults(cfg))
	if err != nil {
		exitWithError(updateExitCode(err), "%v", err)
	}

	if humanOutput {
		fmt.Printf("Added %d papers for %q (%d existing, %d total) to %s\n",
			res.Added, keyword, res.Existing, res.Total, path)
	} else {
		outputJSON(UpdateResult{
			Status:       "updated",
			Session:      f.Session(),
			Keyword:      keyword,
			Path:         path,
			UpdateResult: res,
		})
	}
	return nil
}

func runArxivAuthors(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	records, err := storage.ReadRecords(cfg.PapersPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "reading papers table: %v", err)
	}
	authors := paper.UniqueAuthors(records)
	if authors == nil {
		authors = []string{}
	}

	if humanOutput {
		for _, a := range authors {
			fmt.Println(a)
		}
	} else {
		outputJSON(AuthorsResult{Authors: authors, Count: len(authors)})
	}
	return nil
}

// updateExitCode separates papers table failures from API failures.
func updateExitCode(err error) int {
	if errors.Is(err, fetch.ErrPapersFile) {
		return ExitDataError
	}
	return apiExitCode(err)
}
