package storage

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matsen/papernet/internal/author"
)

// setupTestDB creates a test database populated from a papers table and a snapshot.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir := t.TempDir()
	csvPath := filepath.Join(tmpDir, "papers.csv")
	snapPath := filepath.Join(tmpDir, "citations.json")

	if err := WriteRecords(csvPath, testRecords()); err != nil {
		t.Fatalf("Failed to write test papers: %v", err)
	}
	if err := WriteSnapshot(snapPath, testSnapshot()); err != nil {
		t.Fatalf("Failed to write test snapshot: %v", err)
	}

	db, err := OpenDB(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	n, err := db.RebuildPapers(csvPath)
	if err != nil {
		t.Fatalf("RebuildPapers() error = %v", err)
	}
	if n != 3 {
		t.Fatalf("RebuildPapers() = %d, want 3", n)
	}

	n, err = db.RebuildCitations(snapPath)
	if err != nil {
		t.Fatalf("RebuildCitations() error = %v", err)
	}
	if n != 3 {
		t.Fatalf("RebuildCitations() = %d, want 3", n)
	}

	return db
}

func TestDB_Counts(t *testing.T) {
	db := setupTestDB(t)

	papers, err := db.CountPapers()
	if err != nil {
		t.Fatalf("CountPapers() error = %v", err)
	}
	// 3 arXiv records + root + c1 + c2 + c3
	if papers != 7 {
		t.Errorf("CountPapers() = %d, want 7", papers)
	}

	citations, err := db.CountCitations()
	if err != nil {
		t.Fatalf("CountCitations() error = %v", err)
	}
	if citations != 3 {
		t.Errorf("CountCitations() = %d, want 3", citations)
	}
}

func TestDB_Search(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		query   string
		wantIDs []string
	}{
		{"imperative", []string{"http://arxiv.org/abs/1912.01703v1"}},
		{"Paszke", []string{"http://arxiv.org/abs/1912.01703v1"}},
		{"Citer Three", []string{"c3"}},
		{"nomatchanywhere", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := db.Search(tt.query, 10)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", tt.query, err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Search(%q) returned %d results, want %d", tt.query, len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("result %d = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestDB_SearchSpecialCharacters(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.Search("High-Performance", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Search() returned %d results, want 1", len(got))
	}
}

func TestDB_PapersByAuthor(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.PapersByAuthor("Sam Gross", 10)
	if err != nil {
		t.Fatalf("PapersByAuthor() error = %v", err)
	}
	if len(got) != 1 || got[0].Year != 2019 {
		t.Errorf("PapersByAuthor() = %+v", got)
	}
	if len(got[0].Authors) != 3 {
		t.Errorf("authors not restored: %v", got[0].Authors)
	}

	got, err = db.PapersByAuthor("Ada", 10)
	if err != nil {
		t.Fatalf("PapersByAuthor() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "c1" {
		t.Errorf("PapersByAuthor(Ada) = %+v", got)
	}

	got, err = db.PapersByAuthor("Sam", 10)
	if err != nil {
		t.Fatalf("PapersByAuthor() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("partial names must not match, got %d", len(got))
	}
}

func TestDB_PapersMatchingAuthor(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		query   string
		wantIDs []string
	}{
		{"Gross", []string{"http://arxiv.org/abs/1912.01703v1"}},
		{"gross", []string{"http://arxiv.org/abs/1912.01703v1"}},
		{"Sam Gross", []string{"http://arxiv.org/abs/1912.01703v1"}},
		{"S Gross", []string{"http://arxiv.org/abs/1912.01703v1"}},
		{"Gross, Sam", []string{"http://arxiv.org/abs/1912.01703v1"}},
		{"Tom Gross", nil},
		{"Gro", nil},
		{"Ada", []string{"c1"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := db.PapersMatchingAuthor(author.ParseQuery(tt.query), 10)
			if err != nil {
				t.Fatalf("PapersMatchingAuthor(%q) error = %v", tt.query, err)
			}
			var ids []string
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("PapersMatchingAuthor(%q) = %v, want %v", tt.query, ids, tt.wantIDs)
			}
		})
	}
}

func TestDB_CitingPapers(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.CitingPapers("ARXIV:1912.01703")
	if err != nil {
		t.Fatalf("CitingPapers() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("CitingPapers() returned %d, want 2", len(got))
	}
	if got[0].Paper.ID != "c1" || !got[0].IsInfluential {
		t.Errorf("first citer = %+v", got[0])
	}
	if len(got[0].Intents) != 1 || got[0].Intents[0] != "methodology" {
		t.Errorf("intents = %v", got[0].Intents)
	}
	if got[1].Paper.ID != "c2" || got[1].IsInfluential {
		t.Errorf("second citer = %+v", got[1])
	}
}

func TestDB_GetByID(t *testing.T) {
	db := setupTestDB(t)

	rec, err := db.GetByID("ARXIV:1912.01703")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if rec == nil || rec.Title != "Root" || rec.Year != 2019 {
		t.Errorf("GetByID() = %+v", rec)
	}

	rec, err = db.GetByID("missing")
	if err != nil {
		t.Fatalf("GetByID(missing) error = %v", err)
	}
	if rec != nil {
		t.Errorf("GetByID(missing) = %+v, want nil", rec)
	}
}

func TestDB_RebuildIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	csvPath := filepath.Join(tmpDir, "papers.csv")
	snapPath := filepath.Join(tmpDir, "citations.json")
	if err := WriteRecords(csvPath, testRecords()); err != nil {
		t.Fatal(err)
	}
	if err := WriteSnapshot(snapPath, testSnapshot()); err != nil {
		t.Fatal(err)
	}

	db, err := OpenDB(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if _, err := db.RebuildPapers(csvPath); err != nil {
			t.Fatalf("RebuildPapers() pass %d error = %v", i, err)
		}
		if _, err := db.RebuildCitations(snapPath); err != nil {
			t.Fatalf("RebuildCitations() pass %d error = %v", i, err)
		}
	}

	count, err := db.CountPapers()
	if err != nil {
		t.Fatal(err)
	}
	if count != 7 {
		t.Errorf("CountPapers() after two rebuilds = %d, want 7", count)
	}
}

func TestPrepareFTSQuery(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple query", "simple query"},
		{"  spaced  ", "spaced"},
		{"", ""},
		{"High-Performance", `"High-Performance"`},
		{`say "hi"`, `"say ""hi"""`},
	}
	for _, tt := range tests {
		if got := prepareFTSQuery(tt.input); got != tt.want {
			t.Errorf("prepareFTSQuery(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
