package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/matsen/papernet/internal/citation"
	"github.com/matsen/papernet/internal/config"
	"github.com/matsen/papernet/internal/httpapi"
	"github.com/matsen/papernet/internal/logging"
	"github.com/matsen/papernet/internal/paper"
	"github.com/matsen/papernet/internal/s2"
	"github.com/matsen/papernet/internal/storage"
)

var (
	s2Depth    int
	s2Filter   string
	s2PageSize int
	s2MaxPages int
	s2Resume   bool
)

var s2Cmd = &cobra.Command{
	Use:   "s2",
	Short: "Semantic Scholar (S2) citation commands",
	Long: `Commands for exploring citation networks through Semantic Scholar's
Academic Graph API.

Paper ids may be S2 ids, prefixed ids (DOI:..., ARXIV:..., PMID:...),
arXiv URLs, or bare arXiv ids of papers in the papers table.

Set S2_API_KEY (environment or .env) or s2.api_key for higher rate limits.`,
}

var s2ExpandCmd = &cobra.Command{
	Use:   "expand <root-id>",
	Short: "Expand the citation network of a paper",
	Long: `Expand the citation network breadth-first from a root paper and write
the result to the citation snapshot (snapshot_file in config.yml).

Level 0 is the root. Each level fetches every unvisited paper once, with
all its citation pages, and the citing papers become the next level.

Filter policies:
  root  keep only influential citations of the root (default)
  all   keep only influential citations at every level
  none  keep every citation

Examples:
  pn s2 expand ARXIV:1912.01703
  pn s2 expand 1912.01703 --depth 3 --filter all
  pn s2 expand 1912.01703 --resume`,
	Args: cobra.ExactArgs(1),
	RunE: runS2Expand,
}

var s2PaperCmd = &cobra.Command{
	Use:   "paper <paper-id>",
	Short: "Look up one paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runS2Paper,
}

func init() {
	s2ExpandCmd.Flags().IntVarP(&s2Depth, "depth", "d", 0, "Number of levels to expand (default: s2.depth)")
	s2ExpandCmd.Flags().StringVar(&s2Filter, "filter", "", "Influential filter policy: root, all, none (default: s2.filter)")
	s2ExpandCmd.Flags().IntVar(&s2PageSize, "page-size", 0, "Citations per request (default: s2.page_size)")
	s2ExpandCmd.Flags().IntVar(&s2MaxPages, "max-pages", 0, "Page cap per paper (default: s2.max_pages)")
	s2ExpandCmd.Flags().BoolVar(&s2Resume, "resume", false, "Keep the existing snapshot and skip papers already in it")

	s2Cmd.AddCommand(s2ExpandCmd)
	s2Cmd.AddCommand(s2PaperCmd)
	rootCmd.AddCommand(s2Cmd)
}

// ExpandResult is the response for the expand command.
type ExpandResult struct {
	Status string         `json:"status"`
	Root   string         `json:"root"`
	Depth  int            `json:"depth"`
	Filter string         `json:"filter"`
	Path   string         `json:"path"`
	Stats  citation.Stats `json:"stats"`
	Papers int            `json:"papers"`
}

// S2PaperResult is the response for the paper command.
type S2PaperResult struct {
	PaperID       string       `json:"paperId"`
	Record        paper.Record `json:"record"`
	CitationCount int          `json:"citationCount"`
	InTable       bool         `json:"inTable"`
}

func newS2Client(cfg *config.Config, logger zerolog.Logger) *s2.Client {
	var opts []httpapi.Option
	if cfg.S2.APIKey != "" {
		opts = append(opts, httpapi.WithAPIKey(s2.APIKeyHeader, cfg.S2.APIKey))
	}
	return s2.NewClient(cfg.S2.BaseURL, newHTTPClient(cfg, cfg.S2.RateLimit, logger, opts...))
}

// mustLoadResolver indexes the papers table for bare arXiv ids.
func mustLoadResolver(cfg *config.Config, repoRoot string) *s2.LocalResolver {
	records, err := storage.ReadRecords(cfg.PapersPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "reading papers table: %v", err)
	}
	return s2.NewLocalResolver(records)
}

// mustResolve maps a user-supplied id to an API identifier.
func mustResolve(resolver *s2.LocalResolver, id string) string {
	resolved, err := resolver.Resolve(id)
	if err != nil {
		if errors.Is(err, s2.ErrUnresolved) {
			exitWithError(ExitNotFound, "cannot resolve %q: not an S2 id, prefixed id, arXiv URL, or arXiv id in the papers table", id)
		}
		exitWithError(ExitError, "resolving %q: %v", id, err)
	}
	return resolved
}

func runS2Expand(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	logger := newLogger(cfg)
	path := cfg.SnapshotPath(repoRoot)

	var existing citation.Snapshot
	if s2Resume {
		var err error
		existing, err = storage.ReadSnapshot(path)
		if err != nil {
			exitWithError(ExitDataError, "reading snapshot: %v", err)
		}
	}

	root := mustResolve(mustLoadResolver(cfg, repoRoot), args[0])

	depth := cfg.S2.Depth
	if cmd.Flags().Changed("depth") {
		depth = s2Depth
	}
	if depth < 0 {
		exitWithError(ExitError, "--depth must not be negative")
	}
	filterName := cfg.S2.Filter
	if s2Filter != "" {
		filterName = s2Filter
	}
	filter, err := citation.ParseFilterPolicy(filterName)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	pageSize := cfg.S2.PageSize
	if s2PageSize > 0 {
		pageSize = s2PageSize
	}
	maxPages := cfg.S2.MaxPages
	if s2MaxPages > 0 {
		maxPages = s2MaxPages
	}

	logger = logging.WithPaperContext(logger, root)
	expander := citation.NewExpander(newS2Client(cfg, logger),
		citation.WithPageSize(pageSize),
		citation.WithMaxPages(maxPages),
		citation.WithFilter(filter),
		citation.WithLogger(logger),
	)
	expander.Seed(existing)

	expandErr := expander.Expand(context.Background(), root, depth)

	// Completed entries are written even when expansion stopped early so a
	// later --resume can pick up from them.
	snap := expander.Snapshot()
	if err := storage.WriteSnapshot(path, snap); err != nil {
		exitWithError(ExitError, "writing snapshot: %v", err)
	}
	if expandErr != nil {
		exitWithError(apiExitCode(expandErr), "expanding %s: %v (partial snapshot written to %s)", root, expandErr, path)
	}

	stats := expander.Stats()
	if humanOutput {
		fmt.Printf("Expanded %s to depth %d (%s filter): %d papers fetched, %d citations, %d pages\n",
			root, depth, filter, stats.Papers, stats.Citations, stats.Pages)
		if stats.Truncated > 0 {
			fmt.Printf("Warning: %d citation lists hit the %d page cap\n", stats.Truncated, maxPages)
		}
		fmt.Printf("Snapshot with %d papers written to %s\n", len(snap), path)
	} else {
		outputJSON(ExpandResult{
			Status: "expanded",
			Root:   root,
			Depth:  depth,
			Filter: string(filter),
			Path:   path,
			Stats:  stats,
			Papers: len(snap),
		})
	}
	return nil
}

func runS2Paper(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	resolver := mustLoadResolver(cfg, repoRoot)
	id := mustResolve(resolver, args[0])

	p, err := newS2Client(cfg, newLogger(cfg)).GetPaper(context.Background(), id)
	if err != nil {
		exitWithError(apiExitCode(err), "fetching %s: %v", id, err)
	}

	result := S2PaperResult{
		PaperID:       p.PaperID,
		Record:        s2.ToRecord(*p),
		CitationCount: p.CitationCount,
	}
	if p.ExternalIDs.ArXiv != "" {
		_, result.InTable = resolver.Find(p.ExternalIDs.ArXiv)
	}

	if humanOutput {
		fmt.Printf("%s\n", result.PaperID)
		fmt.Printf("  %s\n", result.Record.Title)
		fmt.Printf("  %s (%d)\n", formatAuthorsShort(result.Record.Authors, 3), result.Record.PublicationYear())
		fmt.Printf("  Citations: %d\n", result.CitationCount)
		if result.InTable {
			fmt.Println("  In papers table")
		}
	} else {
		outputJSON(result)
	}
	return nil
}
