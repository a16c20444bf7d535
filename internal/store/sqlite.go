package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/kodhane/mevra/internal/model"
	"github.com/kodhane/mevra/internal/util"
)

// SQLiteStore implements LocalStore over a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		number      TEXT,
		kind        TEXT NOT NULL DEFAULT 'statute',
		origin_url  TEXT,
		preview     TEXT,
		search_text TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_number ON documents(number);

	CREATE TABLE IF NOT EXISTS sections (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id INTEGER NOT NULL REFERENCES documents(id),
		kind        TEXT NOT NULL,
		title       TEXT NOT NULL,
		paragraphs  TEXT NOT NULL,
		ord         INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sections_document ON sections(document_id, ord);
	`
	_, err := s.db.Exec(schema)
	return err
}

// FindByText returns items whose pre-folded search text matches any of the
// words, ranked by the weighted score, best first.
func (s *SQLiteStore) FindByText(ctx context.Context, words []string, filters model.Filters) ([]model.CatalogItem, error) {
	if len(words) == 0 {
		return nil, nil
	}

	// Candidate selection via LIKE on the Turkish-folded search_text column;
	// precise weighting happens in Go where casing rules are correct.
	var clauses []string
	var args []any
	for _, w := range words {
		clauses = append(clauses, "search_text LIKE ?")
		args = append(args, "%"+w+"%")
	}
	query := "SELECT id, title, number, kind, origin_url, preview FROM documents WHERE (" +
		strings.Join(clauses, " OR ") + ")"
	if filters.Kind != "" {
		query += " AND kind = ?"
		args = append(args, string(filters.Kind))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var items []model.CatalogItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	for i := range items {
		sections, err := s.loadSections(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Sections = sections
	}

	scores := make(map[string]int, len(items))
	ranked := items[:0]
	for _, item := range items {
		score := scoreItem(item, words)
		if score == 0 {
			continue
		}
		scores[item.ID] = score
		ranked = append(ranked, item)
	}
	rankItems(ranked, scores)

	return ranked, nil
}

// FindByNumber returns the document with the given official number, sections
// populated, or nil when absent.
func (s *SQLiteStore) FindByNumber(ctx context.Context, number string) (*model.CatalogItem, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, number, kind, origin_url, preview FROM documents WHERE number = ? LIMIT 1", number)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sections, err := s.loadSections(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	item.Sections = sections

	return &item, nil
}

// FindByID returns the document with the given local id, sections populated,
// or nil when absent.
func (s *SQLiteStore) FindByID(ctx context.Context, id string) (*model.CatalogItem, error) {
	numeric, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, number, kind, origin_url, preview FROM documents WHERE id = ? LIMIT 1", numeric)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sections, err := s.loadSections(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	item.Sections = sections

	return &item, nil
}

// Insert adds a document with its sections. Used by seeding and tests; the
// live pipeline never writes here.
func (s *SQLiteStore) Insert(ctx context.Context, item model.CatalogItem) (string, error) {
	searchText := util.NormalizeTitle(item.Title) + " " + util.LowerTurkish(item.PreviewText)

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO documents (title, number, kind, origin_url, preview, search_text) VALUES (?, ?, ?, ?, ?, ?)",
		item.Title, item.Number, string(item.Kind), item.OriginURL, item.PreviewText, searchText)
	if err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	for _, section := range item.Sections {
		paragraphs, err := json.Marshal(section.Paragraphs)
		if err != nil {
			return "", fmt.Errorf("marshal paragraphs: %w", err)
		}
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO sections (document_id, kind, title, paragraphs, ord) VALUES (?, ?, ?, ?, ?)",
			id, string(section.Kind), section.Title, string(paragraphs), section.Order)
		if err != nil {
			return "", fmt.Errorf("insert section: %w", err)
		}
	}

	return strconv.FormatInt(id, 10), nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) loadSections(ctx context.Context, docID string) ([]model.Section, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT kind, title, paragraphs, ord FROM sections WHERE document_id = ? ORDER BY ord", docID)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	defer rows.Close()

	var sections []model.Section
	for rows.Next() {
		var section model.Section
		var kind, paragraphs string
		if err := rows.Scan(&kind, &section.Title, &paragraphs, &section.Order); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		section.Kind = model.SectionKind(kind)
		if err := json.Unmarshal([]byte(paragraphs), &section.Paragraphs); err != nil {
			return nil, fmt.Errorf("unmarshal paragraphs: %w", err)
		}
		sections = append(sections, section)
	}
	return sections, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (model.CatalogItem, error) {
	var item model.CatalogItem
	var id int64
	var number, originURL, preview sql.NullString
	var kind string

	if err := row.Scan(&id, &item.Title, &number, &kind, &originURL, &preview); err != nil {
		return item, err
	}

	item.ID = strconv.FormatInt(id, 10)
	item.Number = number.String
	item.Kind = model.Kind(kind)
	item.OriginURL = originURL.String
	item.PreviewText = preview.String
	item.Origin = model.OriginLocal

	return item, nil
}
