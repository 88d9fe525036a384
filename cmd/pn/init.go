package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/papernet/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new papernet repository",
	Long: `Initialize a new papernet repository in the current directory.

Creates:
  .papernet/
  ├── config.yml      # Default config
  └── cache/          # SQLite index (safe to delete)

The papers table (papers.csv) and citation snapshot (citations.json) are
created in the repository root by 'pn arxiv update' and 'pn s2 expand'.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a papernet repository")
	}
	if err := config.Init(root); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized papernet repository in %s\n", config.PapernetPath(root))
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: root})
	}
	return nil
}
