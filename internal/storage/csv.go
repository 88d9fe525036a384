// Package storage persists paper records as a CSV table, citation snapshots
// as JSON, and rebuilds a SQLite query index from both.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matsen/papernet/internal/paper"
)

// Columns is the header of the papers table, in write order.
var Columns = []string{"id", "title", "authors", "published_date", "abstract", "categories"}

// YearColumn is appended to Columns when any record carries a year override.
const YearColumn = "year"

// requiredColumns must be present in a table being read.
var requiredColumns = []string{"id", "title", "authors"}

// ReadRecords reads all records from a papers table. Columns are located by
// header name; published_date, abstract and categories are optional, as is
// a year column. A missing file returns nil, nil.
func ReadRecords(path string) ([]paper.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening papers file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("papers file %s: missing column %q", path, name)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []paper.Record
	for rowNum := 2; ; rowNum++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", rowNum, err)
		}

		authors, err := paper.ParseList(field(row, "authors"))
		if err != nil {
			return nil, fmt.Errorf("row %d: authors: %w", rowNum, err)
		}

		rec := paper.Record{
			ID:            field(row, "id"),
			Title:         field(row, "title"),
			Authors:       authors,
			PublishedDate: field(row, "published_date"),
			Abstract:      field(row, "abstract"),
			Categories:    field(row, "categories"),
		}
		if y := field(row, YearColumn); y != "" {
			year, err := strconv.Atoi(y)
			if err != nil {
				return nil, fmt.Errorf("row %d: year %q: %w", rowNum, y, err)
			}
			rec.Year = year
		}
		records = append(records, rec)
	}

	return records, nil
}

// WriteRecords writes records to a papers table, replacing existing content.
// The year column is written only when some record sets Year.
func WriteRecords(path string, records []paper.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating papers file: %w", err)
	}
	defer f.Close()

	withYear := false
	for _, rec := range records {
		if rec.Year != 0 {
			withYear = true
			break
		}
	}
	header := Columns
	if withYear {
		header = append(append([]string{}, Columns...), YearColumn)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, rec := range records {
		row := []string{
			rec.ID,
			rec.Title,
			paper.FormatList(rec.Authors),
			rec.PublishedDate,
			rec.Abstract,
			rec.Categories,
		}
		if withYear {
			year := ""
			if rec.Year != 0 {
				year = strconv.Itoa(rec.Year)
			}
			row = append(row, year)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing papers file: %w", err)
	}
	return f.Close()
}
