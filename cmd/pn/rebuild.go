package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query layer from source data",
	Long: `Rebuild the SQLite query database from the papers table and the citation
snapshot.

Use this after 'pn arxiv update' or 'pn s2 expand', or if the database
becomes corrupted.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status    string `json:"status"`
	Papers    int    `json:"papers"`
	Citations int    `json:"citations"`
	Indexed   int    `json:"indexed_papers"`
	Relations int    `json:"indexed_citations"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	papers, err := db.RebuildPapers(cfg.PapersPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding papers: %v", err)
	}

	citations, err := db.RebuildCitations(cfg.SnapshotPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding citations: %v", err)
	}

	indexed, err := db.CountPapers()
	if err != nil {
		exitWithError(ExitError, "counting papers: %v", err)
	}

	relations, err := db.CountCitations()
	if err != nil {
		exitWithError(ExitError, "counting citations: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt query database from %d table papers and %d citations (%d papers, %d citations indexed)\n",
			papers, citations, indexed, relations)
	} else {
		outputJSON(RebuildResult{
			Status:    "rebuilt",
			Papers:    papers,
			Citations: citations,
			Indexed:   indexed,
			Relations: relations,
		})
	}
	return nil
}
