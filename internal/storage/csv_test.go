package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matsen/papernet/internal/paper"
)

func testRecords() []paper.Record {
	return []paper.Record{
		{
			ID:            "http://arxiv.org/abs/1912.01703v1",
			Title:         "PyTorch: An Imperative Style, High-Performance Deep Learning Library",
			Authors:       []string{"Adam Paszke", "Sam Gross", "Francisco Massa"},
			PublishedDate: "2019-12-03T18:30:00Z",
			Abstract:      "Deep learning frameworks have often focused on either usability or speed.",
			Categories:    "cs.LG",
		},
		{
			ID:            "http://arxiv.org/abs/2002.00001v2",
			Title:         "A paper with \"quotes\", commas\nand newlines",
			Authors:       []string{"Conan O'Brien", `Back\slash`},
			PublishedDate: "2020-02-01T00:00:00Z",
			Abstract:      "",
			Categories:    "cs.DC",
		},
		{
			ID:      "http://arxiv.org/abs/2101.00001v1",
			Title:   "No authors",
			Authors: []string{},
		},
	}
}

func TestWriteReadRecords_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.csv")
	want := testRecords()

	if err := WriteRecords(path, want); err != nil {
		t.Fatalf("WriteRecords() error = %v", err)
	}

	got, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %#v\nwant %#v", got, want)
	}
}

func TestWriteRecords_Header(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.csv")
	if err := WriteRecords(path, testRecords()[:1]); err != nil {
		t.Fatalf("WriteRecords() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(string(data), "\n")
	if lines[0] != "id,title,authors,published_date,abstract,categories" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], `"['Adam Paszke', 'Sam Gross', 'Francisco Massa']"`) {
		t.Errorf("authors cell not written as list literal: %q", lines[1])
	}
}

func TestWriteRecords_YearOverrideSurvives(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.csv")
	content := "id,title,authors,year\n" +
		"p1,First,['Ann'],2018\n" +
		"p2,Second,['Bob'],\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords() error = %v", err)
	}
	records = append(records, paper.Record{ID: "p3", Title: "Third", Authors: []string{"Cy"}})
	if err := WriteRecords(path, records); err != nil {
		t.Fatalf("WriteRecords() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if header := strings.SplitN(string(data), "\n", 2)[0]; header != "id,title,authors,published_date,abstract,categories,year" {
		t.Errorf("header = %q", header)
	}

	got, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords() error = %v", err)
	}
	years := []int{got[0].Year, got[1].Year, got[2].Year}
	if !reflect.DeepEqual(years, []int{2018, 0, 0}) {
		t.Errorf("years = %v, want [2018 0 0]", years)
	}
	if got[0].PublicationYear() != 2018 {
		t.Errorf("PublicationYear() = %d, want 2018", got[0].PublicationYear())
	}
}

func TestReadRecords_NonExistentFile(t *testing.T) {
	records, err := ReadRecords(filepath.Join(t.TempDir(), "missing.csv"))
	if err != nil {
		t.Fatalf("ReadRecords() error = %v (should return nil for nonexistent file)", err)
	}
	if len(records) != 0 {
		t.Errorf("ReadRecords() returned %d records, want 0", len(records))
	}
}

func TestReadRecords_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.csv")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	records, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("ReadRecords() returned %d records, want 0", len(records))
	}
}

func TestReadRecords_ColumnsByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.csv")
	content := "authors,id,year,title\n" +
		"\"['A', \"\"B'C\"\"]\",p1,2018,First\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.ID != "p1" || rec.Title != "First" || rec.Year != 2018 {
		t.Errorf("unexpected record %+v", rec)
	}
	if !reflect.DeepEqual(rec.Authors, []string{"A", "B'C"}) {
		t.Errorf("Authors = %#v", rec.Authors)
	}
}

func TestReadRecords_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing authors column",
			content: "id,title\np1,T\n",
			wantErr: `missing column "authors"`,
		},
		{
			name:    "bad authors cell",
			content: "id,title,authors\np1,T,not a list\n",
			wantErr: "row 2: authors",
		},
		{
			name:    "code in authors cell",
			content: "id,title,authors\np1,T,__import__('os')\n",
			wantErr: "row 2: authors",
		},
		{
			name:    "bad year",
			content: "id,title,authors,year\np1,T,[],soon\n",
			wantErr: "row 2: year",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "papers.csv")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := ReadRecords(path)
			if err == nil {
				t.Fatal("ReadRecords() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
