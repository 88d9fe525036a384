package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matsen/papernet/internal/citation"
	"github.com/matsen/papernet/internal/config"
	papergraph "github.com/matsen/papernet/internal/graph"
	"github.com/matsen/papernet/internal/paper"
	"github.com/matsen/papernet/internal/storage"
)

var (
	graphUntil int
	graphTop   int
	graphRoot  string
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Summarize co-authorship and citation graphs",
}

var graphCoauthorsCmd = &cobra.Command{
	Use:   "coauthors",
	Short: "Summarize the co-authorship graph of the papers table",
	Long: `Build the co-authorship graph of the papers table: one node per author,
one weighted edge per pair of authors sharing at least one paper.

Examples:
  pn graph coauthors
  pn graph coauthors --until 2019 --top 20 --human`,
	Args: cobra.NoArgs,
	RunE: runGraphCoauthors,
}

var graphCitationsCmd = &cobra.Command{
	Use:   "citations",
	Short: "Summarize the citation graph of the snapshot",
	Long: `Build the directed citation graph of the citation snapshot, assign
breadth-first levels from the root, and rank papers by PageRank.

Examples:
  pn graph citations --root ARXIV:1912.01703
  pn graph citations --root 1912.01703 --top 5 --human`,
	Args: cobra.NoArgs,
	RunE: runGraphCitations,
}

func init() {
	graphCoauthorsCmd.Flags().IntVar(&graphUntil, "until", 0, "Only include papers published up to this year")
	for _, c := range []*cobra.Command{graphCoauthorsCmd, graphCitationsCmd} {
		c.Flags().IntVarP(&graphTop, "top", "n", DefaultTopAuthors, "Number of entries in ranked lists")
	}
	graphCitationsCmd.Flags().StringVar(&graphRoot, "root", "", "Root paper id of the expansion (required)")
	graphCitationsCmd.MarkFlagRequired("root")

	graphCmd.AddCommand(graphCoauthorsCmd)
	graphCmd.AddCommand(graphCitationsCmd)
	rootCmd.AddCommand(graphCmd)
}

// CoauthorsSummary is the response for the coauthors command.
type CoauthorsSummary struct {
	Papers           int                     `json:"papers"`
	Until            int                     `json:"until,omitempty"`
	Authors          int                     `json:"authors"`
	Edges            int                     `json:"edges"`
	Components       int                     `json:"components"`
	LargestComponent int                     `json:"largest_component"`
	TopAuthors       []papergraph.AuthorStat `json:"top_authors"`
	Heaviest         []papergraph.Edge       `json:"heaviest_edges"`
}

// CitationsSummary is the response for the citations graph command.
type CitationsSummary struct {
	Root        string                  `json:"root"`
	Nodes       int                     `json:"nodes"`
	Edges       int                     `json:"edges"`
	Levels      map[int]int             `json:"levels"`
	Unreachable int                     `json:"unreachable"`
	Influence   []papergraph.PaperScore `json:"influence"`
}

// mustLoadRecords reads the papers table, optionally cut at a year.
func mustLoadRecords(cfg *config.Config, repoRoot string, until int) []paper.Record {
	records, err := storage.ReadRecords(cfg.PapersPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "reading papers table: %v", err)
	}
	if until > 0 {
		records = papergraph.UpToYear(records, until)
	}
	return records
}

// mustLoadSnapshot reads the citation snapshot.
func mustLoadSnapshot(cfg *config.Config, repoRoot string) citation.Snapshot {
	snap, err := storage.ReadSnapshot(cfg.SnapshotPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "reading snapshot: %v", err)
	}
	return snap
}

// mustSnapshotRoot maps id to a snapshot key. Keys are matched directly,
// anything else goes through the local resolver.
func mustSnapshotRoot(cfg *config.Config, repoRoot string, snap citation.Snapshot, id string) string {
	if _, ok := snap[id]; ok {
		return id
	}
	root := mustResolve(mustLoadResolver(cfg, repoRoot), id)
	if _, ok := snap[root]; !ok {
		exitWithError(ExitNotFound, "%s is not in the citation snapshot\n  Hint: Run 'pn s2 expand %s' first", root, id)
	}
	return root
}

// heaviestEdges returns the n edges with the largest weight, ties kept in
// insertion order.
func heaviestEdges(edges []papergraph.Edge, n int) []papergraph.Edge {
	sorted := make([]papergraph.Edge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Weight > sorted[j].Weight })
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

func runGraphCoauthors(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	records := mustLoadRecords(cfg, repoRoot, graphUntil)

	g := papergraph.BuildCoauthorship(records)
	components := g.Components()
	summary := CoauthorsSummary{
		Papers:     len(records),
		Until:      graphUntil,
		Authors:    g.NodeCount(),
		Edges:      g.EdgeCount(),
		Components: len(components),
		TopAuthors: papergraph.TopAuthors(g, graphTop),
		Heaviest:   heaviestEdges(g.Edges(), graphTop),
	}
	if len(components) > 0 {
		summary.LargestComponent = len(components[0])
	}

	if humanOutput {
		outputHuman("%d papers, %d authors, %d co-author pairs\n", summary.Papers, summary.Authors, summary.Edges)
		outputHuman("%d components, largest has %d authors\n\n", summary.Components, summary.LargestComponent)
		outputHuman("Top authors:\n")
		for i, a := range summary.TopAuthors {
			outputHuman("  %2d. %s (%d papers, %d co-authors)\n", i+1, a.Name, a.Papers, a.Coauthors)
		}
		if len(summary.Heaviest) > 0 {
			outputHuman("\nStrongest collaborations:\n")
			for _, e := range summary.Heaviest {
				outputHuman("  %s - %s (%d)\n", e.A, e.B, e.Weight)
			}
		}
	} else {
		outputJSON(summary)
	}
	return nil
}

func runGraphCitations(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	snap := mustLoadSnapshot(cfg, repoRoot)
	root := mustSnapshotRoot(cfg, repoRoot, snap, graphRoot)

	g := papergraph.BuildCitation(snap, root)
	levels := g.LevelCounts()
	unreachable := levels[papergraph.NoLevel]
	delete(levels, papergraph.NoLevel)

	influence := papergraph.Influence(g)
	if graphTop > 0 && graphTop < len(influence) {
		influence = influence[:graphTop]
	}

	summary := CitationsSummary{
		Root:        root,
		Nodes:       g.NodeCount(),
		Edges:       g.EdgeCount(),
		Levels:      levels,
		Unreachable: unreachable,
		Influence:   influence,
	}

	if humanOutput {
		outputHuman("Citation graph of %s: %d papers, %d citations\n\n", root, summary.Nodes, summary.Edges)
		lvls := make([]int, 0, len(levels))
		for l := range levels {
			lvls = append(lvls, l)
		}
		sort.Ints(lvls)
		for _, l := range lvls {
			outputHuman("  level %d: %d papers\n", l, levels[l])
		}
		if unreachable > 0 {
			outputHuman("  unreachable: %d papers\n", unreachable)
		}
		outputHuman("\nMost influential:\n")
		for i, s := range influence {
			outputHuman("  %2d. [%.4f] %s\n", i+1, s.Score, truncateString(fmt.Sprintf("%s %s", s.ID, s.Title), SearchTitleMaxLen))
		}
	} else {
		outputJSON(summary)
	}
	return nil
}
