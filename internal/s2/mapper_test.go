package s2

import (
	"errors"
	"testing"

	"github.com/matsen/papernet/internal/paper"
)

func TestToRecord(t *testing.T) {
	p := Paper{
		PaperID:         "abc",
		Title:           "  A   Title ",
		Abstract:        "Line one\nline two",
		Authors:         []Author{{Name: "Ada"}, {Name: " "}, {Name: "Grace"}},
		PublicationDate: "2020-05-01",
		FieldsOfStudy:   []string{"Computer Science", "Biology"},
	}

	rec := ToRecord(p)
	if rec.ID != "abc" {
		t.Errorf("ID = %q", rec.ID)
	}
	if rec.Title != "A Title" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.Abstract != "Line one line two" {
		t.Errorf("Abstract = %q", rec.Abstract)
	}
	if len(rec.Authors) != 2 || rec.Authors[0] != "Ada" || rec.Authors[1] != "Grace" {
		t.Errorf("Authors = %v", rec.Authors)
	}
	if rec.Year != 2020 {
		t.Errorf("Year = %d, want 2020", rec.Year)
	}
	if rec.Categories != "Computer Science" {
		t.Errorf("Categories = %q", rec.Categories)
	}
}

func TestPublicationYear(t *testing.T) {
	tests := []struct {
		year int
		date string
		want int
	}{
		{2019, "2020-01-01", 2019},
		{0, "2020-01-01", 2020},
		{0, "", 0},
		{0, "bad", 0},
	}
	for _, tt := range tests {
		if got := publicationYear(tt.year, tt.date); got != tt.want {
			t.Errorf("publicationYear(%d, %q) = %d, want %d", tt.year, tt.date, got, tt.want)
		}
	}
}

func TestLocalResolver(t *testing.T) {
	r := NewLocalResolver([]paper.Record{
		{ID: "http://arxiv.org/abs/1912.01703v1"},
		{ID: "not-an-arxiv-url"},
	})

	if r.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", r.Count())
	}

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"1912.01703", "ARXIV:1912.01703", false},
		{"DOI:10.1/x", "DOI:10.1/x", false},
		{"http://arxiv.org/abs/2002.00001v1", "ARXIV:2002.00001", false},
		{"unknown", "", true},
	}
	for _, tt := range tests {
		got, err := r.Resolve(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrUnresolved) {
				t.Errorf("Resolve(%q) error = %v, want ErrUnresolved", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Resolve(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}

	if _, ok := r.Find("1912.01703"); !ok {
		t.Error("Find(1912.01703) not found")
	}
}
