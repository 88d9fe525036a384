package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/matsen/papernet/internal/author"
	"github.com/matsen/papernet/internal/paper"
	"github.com/matsen/papernet/internal/s2"
)

// Paper sources recorded in the papers table.
const (
	SourceArxiv = "arxiv"
	SourceS2    = "s2"
)

// DB wraps the SQLite query index.
type DB struct {
	db *sql.DB
}

// CitingPaper is a row of CitingPapers.
type CitingPaper struct {
	Paper         paper.Record `json:"paper"`
	IsInfluential bool         `json:"is_influential"`
	Intents       []string     `json:"intents,omitempty"`
}

const selectPaperFields = `id, title, abstract, published_date, year, categories, authors_json`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			abstract TEXT,
			published_date TEXT,
			year INTEGER NOT NULL,
			categories TEXT,
			authors_json TEXT NOT NULL,
			source TEXT NOT NULL
		);

		CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts USING fts5(
			id,
			title,
			abstract,
			authors_text
		);

		CREATE TABLE IF NOT EXISTS authorships (
			paper_id TEXT NOT NULL,
			author TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (paper_id, author)
		);
		CREATE INDEX IF NOT EXISTS idx_authorships_author ON authorships(author);

		CREATE TABLE IF NOT EXISTS citations (
			citing_id TEXT NOT NULL,
			cited_id TEXT NOT NULL,
			is_influential INTEGER NOT NULL,
			intents_json TEXT,
			PRIMARY KEY (citing_id, cited_id)
		);
		CREATE INDEX IF NOT EXISTS idx_citations_cited ON citations(cited_id);
	`

	_, err := db.Exec(schema)
	return err
}

// paperWriter inserts papers into papers, papers_fts and authorships within
// one transaction.
type paperWriter struct {
	papers      *sql.Stmt
	fts         *sql.Stmt
	authorships *sql.Stmt
}

func newPaperWriter(tx *sql.Tx) (*paperWriter, error) {
	papers, err := tx.Prepare(`
		INSERT OR IGNORE INTO papers (id, title, abstract, published_date, year, categories, authors_json, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing papers insert: %w", err)
	}
	fts, err := tx.Prepare(`INSERT INTO papers_fts (id, title, abstract, authors_text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing fts insert: %w", err)
	}
	authorships, err := tx.Prepare(`INSERT OR IGNORE INTO authorships (paper_id, author, position) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing authorships insert: %w", err)
	}
	return &paperWriter{papers: papers, fts: fts, authorships: authorships}, nil
}

// insert adds rec unless a paper with the same id exists. It reports whether
// a row was added.
func (w *paperWriter) insert(rec paper.Record, source string) (bool, error) {
	authors := rec.Authors
	if authors == nil {
		authors = []string{}
	}
	authorsJSON, err := json.Marshal(authors)
	if err != nil {
		return false, fmt.Errorf("marshaling authors for %s: %w", rec.ID, err)
	}

	res, err := w.papers.Exec(
		rec.ID, rec.Title, nullableString(rec.Abstract), nullableString(rec.PublishedDate),
		rec.PublicationYear(), nullableString(rec.Categories), string(authorsJSON), source,
	)
	if err != nil {
		return false, fmt.Errorf("inserting paper %s: %w", rec.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	if _, err := w.fts.Exec(rec.ID, rec.Title, rec.Abstract, strings.Join(authors, ", ")); err != nil {
		return false, fmt.Errorf("inserting fts for %s: %w", rec.ID, err)
	}
	for i, name := range authors {
		if _, err := w.authorships.Exec(rec.ID, name, i); err != nil {
			return false, fmt.Errorf("inserting authorship for %s: %w", rec.ID, err)
		}
	}
	return true, nil
}

func (w *paperWriter) close() {
	w.papers.Close()
	w.fts.Close()
	w.authorships.Close()
}

// RebuildPapers clears every paper and rebuilds the index from a papers
// table. Citations must be rebuilt afterwards.
func (d *DB) RebuildPapers(csvPath string) (int, error) {
	records, err := ReadRecords(csvPath)
	if err != nil {
		return 0, fmt.Errorf("reading papers: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"papers", "papers_fts", "authorships", "citations"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return 0, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	w, err := newPaperWriter(tx)
	if err != nil {
		return 0, err
	}
	defer w.close()

	count := 0
	for _, rec := range records {
		added, err := w.insert(rec, SourceArxiv)
		if err != nil {
			return 0, err
		}
		if added {
			count++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing papers: %w", err)
	}
	return count, nil
}

// RebuildCitations clears the citations table and reloads it from a
// snapshot. Snapshot papers and citing papers not yet indexed are added to
// the papers table. Cited ids are the snapshot keys.
func (d *DB) RebuildCitations(snapshotPath string) (int, error) {
	snap, err := ReadSnapshot(snapshotPath)
	if err != nil {
		return 0, fmt.Errorf("reading snapshot: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM citations"); err != nil {
		return 0, fmt.Errorf("clearing citations table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM papers_fts WHERE id IN (SELECT id FROM papers WHERE source = ?)", SourceS2); err != nil {
		return 0, fmt.Errorf("clearing s2 fts rows: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM authorships WHERE paper_id IN (SELECT id FROM papers WHERE source = ?)", SourceS2); err != nil {
		return 0, fmt.Errorf("clearing s2 authorships: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM papers WHERE source = ?", SourceS2); err != nil {
		return 0, fmt.Errorf("clearing s2 papers: %w", err)
	}

	w, err := newPaperWriter(tx)
	if err != nil {
		return 0, err
	}
	defer w.close()

	citeStmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO citations (citing_id, cited_id, is_influential, intents_json)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing citations insert: %w", err)
	}
	defer citeStmt.Close()

	count := 0
	for _, id := range snap.IDs() {
		entry := snap[id]
		rec := s2.ToRecord(entry.Paper)
		rec.ID = id
		if _, err := w.insert(rec, SourceS2); err != nil {
			return 0, err
		}

		for _, c := range entry.Citations {
			citingID := c.CitingPaper.PaperID
			if citingID == "" || citingID == id {
				continue
			}
			if _, err := w.insert(s2.ToRecord(c.CitingPaper), SourceS2); err != nil {
				return 0, err
			}

			var intentsJSON sql.NullString
			if len(c.Intents) > 0 {
				b, err := json.Marshal(c.Intents)
				if err != nil {
					return 0, fmt.Errorf("marshaling intents for %s: %w", citingID, err)
				}
				intentsJSON = sql.NullString{String: string(b), Valid: true}
			}

			res, err := citeStmt.Exec(citingID, id, boolToInt(c.IsInfluential), intentsJSON)
			if err != nil {
				return 0, fmt.Errorf("inserting citation %s -> %s: %w", citingID, id, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				count++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing citations: %w", err)
	}
	return count, nil
}

// Search performs a full-text search over titles, abstracts and authors.
func (d *DB) Search(query string, limit int) ([]paper.Record, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`
		SELECT `+selectPaperFields+`
		FROM papers
		WHERE id IN (SELECT id FROM papers_fts WHERE papers_fts MATCH ?)
		ORDER BY year DESC, id
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// PapersByAuthor returns papers whose author list contains name exactly.
func (d *DB) PapersByAuthor(name string, limit int) ([]paper.Record, error) {
	rows, err := d.db.Query(`
		SELECT `+selectPaperFields+`
		FROM papers
		WHERE id IN (SELECT paper_id FROM authorships WHERE author = ?)
		ORDER BY year, id
		LIMIT ?`, name, limit)
	if err != nil {
		return nil, fmt.Errorf("listing papers by %s: %w", name, err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// PapersMatchingAuthor returns papers with at least one author matched by
// q: exact last name, prefix of the first name, both case-insensitive.
func (d *DB) PapersMatchingAuthor(q author.Query, limit int) ([]paper.Record, error) {
	if q.Last == "" {
		return nil, nil
	}

	// LIKE narrows candidates; Matches applies the name rules.
	rows, err := d.db.Query(`SELECT DISTINCT author FROM authorships WHERE author LIKE ?`, "%"+q.Last+"%")
	if err != nil {
		return nil, fmt.Errorf("listing authors: %w", err)
	}
	var names []any
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning author: %w", err)
		}
		if q.MatchesName(name) {
			names = append(names, name)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	args := append(names, limit)
	rows, err = d.db.Query(`
		SELECT `+selectPaperFields+`
		FROM papers
		WHERE id IN (SELECT paper_id FROM authorships WHERE author IN (`+placeholders+`))
		ORDER BY year, id
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing papers by author: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// CitingPapers returns the indexed papers citing id.
func (d *DB) CitingPapers(id string) ([]CitingPaper, error) {
	rows, err := d.db.Query(`
		SELECT p.id, p.title, p.abstract, p.published_date, p.year, p.categories, p.authors_json,
			c.is_influential, c.intents_json
		FROM citations c
		JOIN papers p ON p.id = c.citing_id
		WHERE c.cited_id = ?
		ORDER BY p.year, p.id`, id)
	if err != nil {
		return nil, fmt.Errorf("listing citations of %s: %w", id, err)
	}
	defer rows.Close()

	var result []CitingPaper
	for rows.Next() {
		var cp CitingPaper
		var influential int
		var intentsJSON sql.NullString
		rec, err := scanPaper(rows, &influential, &intentsJSON)
		if err != nil {
			return nil, err
		}
		cp.Paper = *rec
		cp.IsInfluential = influential != 0
		if intentsJSON.Valid && intentsJSON.String != "" {
			if err := json.Unmarshal([]byte(intentsJSON.String), &cp.Intents); err != nil {
				return nil, fmt.Errorf("parsing intents for %s: %w", rec.ID, err)
			}
		}
		result = append(result, cp)
	}
	return result, rows.Err()
}

// GetByID retrieves a paper by id. A missing paper returns nil, nil.
func (d *DB) GetByID(id string) (*paper.Record, error) {
	row := d.db.QueryRow(`SELECT `+selectPaperFields+` FROM papers WHERE id = ?`, id)
	rec, err := scanPaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// CountPapers returns the number of indexed papers.
func (d *DB) CountPapers() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM papers").Scan(&count)
	return count, err
}

// CountCitations returns the number of indexed citation relations.
func (d *DB) CountCitations() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM citations").Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// scanPaper scans the selectPaperFields columns followed by any extra
// destinations.
func scanPaper(s scanner, extra ...any) (*paper.Record, error) {
	var rec paper.Record
	var abstract, published, categories sql.NullString
	var authorsJSON string

	dest := []any{&rec.ID, &rec.Title, &abstract, &published, &rec.Year, &categories, &authorsJSON}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	rec.Abstract = abstract.String
	rec.PublishedDate = published.String
	rec.Categories = categories.String
	if err := json.Unmarshal([]byte(authorsJSON), &rec.Authors); err != nil {
		return nil, fmt.Errorf("parsing authors JSON for %s: %w", rec.ID, err)
	}
	return &rec, nil
}

func scanPapers(rows *sql.Rows) ([]paper.Record, error) {
	var records []paper.Record
	for rows.Next() {
		rec, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// nullableString converts a string to sql.NullString, treating empty as NULL.
func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// FTS5 uses double quotes for phrase matching
	if strings.ContainsAny(query, "\"*+-:(){}[]^~.,/'") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
