package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/papernet/internal/export"
)

var (
	exportOutput string
	exportUntil  int
)

func init() {
	exportBibtexCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: stdout)")
	exportBibtexCmd.Flags().IntVar(&exportUntil, "until", 0, "Only include papers published up to this year")
	exportCmd.AddCommand(exportBibtexCmd)
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the papers table to other formats",
}

var exportBibtexCmd = &cobra.Command{
	Use:   "bibtex",
	Short: "Export the papers table as BibTeX",
	Long: `Export the papers table as BibTeX entries. arXiv papers are written as
@misc entries with eprint, archivePrefix and primaryClass fields.

Examples:
  pn export bibtex > papers.bib
  pn export bibtex --until 2020 -o papers.bib`,
	Args: cobra.NoArgs,
	RunE: runExportBibtex,
}

func runExportBibtex(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	records := mustLoadRecords(cfg, repoRoot, exportUntil)

	bib := export.ToBibTeXList(records)
	if exportOutput == "" {
		fmt.Print(bib)
		return nil
	}
	if err := os.WriteFile(exportOutput, []byte(bib), 0644); err != nil {
		exitWithError(ExitError, "writing %s: %v", exportOutput, err)
	}
	if humanOutput {
		fmt.Printf("Exported %d papers to %s\n", len(records), exportOutput)
	} else {
		outputJSON(struct {
			Status string `json:"status"`
			Path   string `json:"path"`
			Count  int    `json:"count"`
		}{"exported", exportOutput, len(records)})
	}
	return nil
}
