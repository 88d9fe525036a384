package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/papernet/internal/author"
	"github.com/matsen/papernet/internal/paper"
)

var (
	searchLimit  int
	searchAuthor string
	searchExact  bool
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	searchCmd.Flags().StringVarP(&searchAuthor, "author", "a", "", "List papers by an author (\"Last\", \"First Last\" or \"Last, First\")")
	searchCmd.Flags().BoolVar(&searchExact, "exact", false, "Match --author against the full stored name")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed papers by keyword or author",
	Long: `Search the SQLite index built by 'pn rebuild'.

A query matches titles, abstracts and author names (full-text, all terms
must match). Queries with punctuation are matched as a phrase.

Author matching requires an exact last name and treats the first name as
a prefix, so "Tim Yu" matches "Timothy C Yu" but "Yu" does not match
"Yujia Chan".

Examples:
  pn search "graph neural"
  pn search transformer --limit 10 --human
  pn search --author LeCun
  pn search --author "Y LeCun"
  pn search --author "Yann LeCun" --exact`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

// SearchResult is the response for the search command.
type SearchResult struct {
	Query  string         `json:"query,omitempty"`
	Author string         `json:"author,omitempty"`
	Papers []PaperSummary `json:"papers"`
	Count  int            `json:"count"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = strings.TrimSpace(args[0])
	}
	if query == "" && searchAuthor == "" {
		exitWithError(ExitError, "query or --author required\n  Hint: Use 'pn search <query>' or 'pn search --author <name>'")
	}
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}

	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	var records []paper.Record
	var err error
	switch {
	case searchAuthor != "" && searchExact:
		records, err = db.PapersByAuthor(searchAuthor, searchLimit)
	case searchAuthor != "":
		records, err = db.PapersMatchingAuthor(author.ParseQuery(searchAuthor), searchLimit)
	default:
		records, err = db.Search(query, searchLimit)
	}
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		if len(records) == 0 {
			fmt.Println("No papers found.")
			return nil
		}
		printPapersHuman(records, SearchTitleMaxLen)
	} else {
		outputJSON(SearchResult{
			Query:  query,
			Author: searchAuthor,
			Papers: summarize(records),
			Count:  len(records),
		})
	}
	return nil
}
