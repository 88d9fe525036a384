package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/papernet/internal/paper"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search/list commands
	DefaultTopAuthors  = 10 // Default number of authors in graph summaries

	SearchTitleMaxLen = 70 // Used in search result summaries
	ListTitleMaxLen   = 60 // Used in fetch/list output
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...any) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// PaperSummary is the JSON form of a paper in list output.
type PaperSummary struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Year       int      `json:"year,omitempty"`
	Categories string   `json:"categories,omitempty"`
}

func summarize(records []paper.Record) []PaperSummary {
	out := make([]PaperSummary, len(records))
	for i, r := range records {
		out[i] = PaperSummary{
			ID:         r.ID,
			Title:      r.Title,
			Authors:    r.Authors,
			Year:       r.PublicationYear(),
			Categories: r.Categories,
		}
	}
	return out
}

// printPapersHuman prints one numbered entry per paper.
func printPapersHuman(records []paper.Record, titleLen int) {
	for i, r := range records {
		fmt.Printf("%d. %s\n", i+1, r.ID)
		fmt.Printf("   %s\n", truncateString(r.Title, titleLen))
		fmt.Printf("   %s (%d)\n\n", formatAuthorsShort(r.Authors, 3), r.PublicationYear())
	}
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatAuthorsShort joins up to maxCount names, adding "et al." beyond that.
func formatAuthorsShort(authors []string, maxCount int) string {
	if len(authors) <= maxCount {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:maxCount], ", ") + ", et al."
}

// writeOutput writes content to path, or to stdout when path is empty.
func writeOutput(path, content string) error {
	if path == "" {
		fmt.Print(content)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if humanOutput {
		fmt.Printf("Visualization written to %s\n", path)
	} else {
		outputJSON(StatusResponse{Status: "written", Path: path})
	}
	return nil
}
