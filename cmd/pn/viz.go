package main

import (
	"fmt"

	"github.com/spf13/cobra"

	papergraph "github.com/matsen/papernet/internal/graph"
	"github.com/matsen/papernet/internal/viz"
)

var (
	vizOutput  string
	vizTitle   string
	vizUntil   int
	vizRoot    string
	vizSeed    uint64
	vizUpdates int
)

var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Generate network visualizations",
	Long: `Generate HTML drawings of the co-authorship and citation graphs.

Nodes are positioned with a force-directed layout. Co-authorship nodes are
colored by connection count on the YlGnBu scale; citation nodes are colored
by level.`,
}

var vizCoauthorsCmd = &cobra.Command{
	Use:   "coauthors",
	Short: "Draw the co-authorship network",
	Long: `Draw the co-authorship network of the papers table as a static page.

Examples:
  pn viz coauthors > coauthors.html
  pn viz coauthors --until 2019 -o coauthors-2019.html`,
	Args: cobra.NoArgs,
	RunE: runVizCoauthors,
}

var vizCitationsCmd = &cobra.Command{
	Use:   "citations",
	Short: "Draw the citation network",
	Long: `Draw the directed citation network of the snapshot as a static page.

Examples:
  pn viz citations --root ARXIV:1912.01703 -o citations.html`,
	Args: cobra.NoArgs,
	RunE: runVizCitations,
}

var vizTimelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Draw the co-authorship network year by year",
	Long: `Draw one cumulative co-authorship network per publication year with a
year slider and a Play button. Hovering a node shows its connection count.

Examples:
  pn viz timeline -o timeline.html`,
	Args: cobra.NoArgs,
	RunE: runVizTimeline,
}

func init() {
	for _, c := range []*cobra.Command{vizCoauthorsCmd, vizCitationsCmd, vizTimelineCmd} {
		c.Flags().StringVarP(&vizOutput, "output", "o", "", "Output file path (default: stdout)")
		c.Flags().StringVar(&vizTitle, "title", "", "Page title")
		c.Flags().Uint64Var(&vizSeed, "seed", viz.DefaultLayoutOptions().Seed, "Layout random seed")
		c.Flags().IntVar(&vizUpdates, "iterations", viz.DefaultLayoutOptions().Updates, "Layout iterations")
	}
	vizCoauthorsCmd.Flags().IntVar(&vizUntil, "until", 0, "Only include papers published up to this year")
	vizCitationsCmd.Flags().StringVar(&vizRoot, "root", "", "Root paper id of the expansion (required)")
	vizCitationsCmd.MarkFlagRequired("root")

	vizCmd.AddCommand(vizCoauthorsCmd)
	vizCmd.AddCommand(vizCitationsCmd)
	vizCmd.AddCommand(vizTimelineCmd)
	rootCmd.AddCommand(vizCmd)
}

func layoutOptions() viz.LayoutOptions {
	opts := viz.DefaultLayoutOptions()
	opts.Seed = vizSeed
	if vizUpdates > 0 {
		opts.Updates = vizUpdates
	}
	return opts
}

func runVizCoauthors(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	records := mustLoadRecords(cfg, repoRoot, vizUntil)

	title := vizTitle
	if title == "" && vizUntil > 0 {
		title = fmt.Sprintf("Co-authorship Network up to %d", vizUntil)
	}

	data := viz.FromCoauthorship(papergraph.BuildCoauthorship(records), layoutOptions())
	html, err := viz.GenerateStaticHTML(data, viz.HTMLOptions{Title: title})
	if err != nil {
		return fmt.Errorf("generating HTML: %w", err)
	}
	return writeOutput(vizOutput, html)
}

func runVizCitations(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	snap := mustLoadSnapshot(cfg, repoRoot)
	root := mustSnapshotRoot(cfg, repoRoot, snap, vizRoot)

	title := vizTitle
	if title == "" {
		title = "Citation Network of " + root
	}

	data := viz.FromCitation(papergraph.BuildCitation(snap, root), layoutOptions())
	html, err := viz.GenerateStaticHTML(data, viz.HTMLOptions{Title: title})
	if err != nil {
		return fmt.Errorf("generating HTML: %w", err)
	}
	return writeOutput(vizOutput, html)
}

func runVizTimeline(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	records := mustLoadRecords(cfg, repoRoot, 0)

	frames := viz.FromYearly(papergraph.BuildYearly(records), layoutOptions())
	html, err := viz.GenerateTimelineHTML(frames, viz.HTMLOptions{Title: vizTitle})
	if err != nil {
		return fmt.Errorf("generating HTML: %w", err)
	}
	return writeOutput(vizOutput, html)
}
