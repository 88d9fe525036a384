package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/papernet/internal/paper"
	"github.com/matsen/papernet/internal/storage"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show an indexed paper and the papers citing it",
	Long: `Show one paper from the SQLite index together with its indexed citing
papers. Ids are arXiv entry URLs for fetched papers and snapshot keys or S2
ids for papers from the citation snapshot.

Examples:
  pn get http://arxiv.org/abs/1912.01703v1
  pn get ARXIV:1912.01703 --human`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

// GetResult is the response for the get command.
type GetResult struct {
	Paper    paper.Record          `json:"paper"`
	CitedBy  []storage.CitingPaper `json:"cited_by"`
	Citation int                   `json:"citation_count"`
}

func runGet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	rec, err := db.GetByID(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if rec == nil {
		exitWithError(ExitNotFound, "paper not found: %s\n  Hint: Run 'pn rebuild' after updating the papers table or snapshot", args[0])
	}

	citing, err := db.CitingPapers(rec.ID)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if citing == nil {
		citing = []storage.CitingPaper{}
	}

	if humanOutput {
		fmt.Printf("%s\n", rec.ID)
		fmt.Printf("  Title:   %s\n", rec.Title)
		fmt.Printf("  Authors: %s\n", formatAuthorsShort(rec.Authors, 5))
		if y := rec.PublicationYear(); y != 0 {
			fmt.Printf("  Year:    %d\n", y)
		}
		if rec.Categories != "" {
			fmt.Printf("  Category: %s\n", rec.Categories)
		}
		fmt.Printf("\nCited by %d indexed papers\n", len(citing))
		for _, c := range citing {
			marker := " "
			if c.IsInfluential {
				marker = "*"
			}
			fmt.Printf("  %s %s (%d)\n", marker, truncateString(c.Paper.Title, ListTitleMaxLen), c.Paper.PublicationYear())
		}
	} else {
		outputJSON(GetResult{
			Paper:    *rec,
			CitedBy:  citing,
			Citation: len(citing),
		})
	}
	return nil
}
