// Package store indexes parsed documents in SQLite.
//
// Documents are content-addressed by the SHA-256 of their source text, so
// saving the same text twice returns the existing record. Every content
// node is stored with its clean text for search.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/OpenITI/oimdp/core/errors"
	"github.com/OpenITI/oimdp/core/ir"
	"github.com/OpenITI/oimdp/core/parser"
	"github.com/OpenITI/oimdp/core/sqlite"
	"github.com/OpenITI/oimdp/internal/validation"
)

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		sha256 TEXT NOT NULL UNIQUE,
		blake3 TEXT NOT NULL,
		source TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS metadata (
		document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (document_id, seq)
	);
	CREATE TABLE IF NOT EXISTS nodes (
		document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		text TEXT NOT NULL,
		PRIMARY KEY (document_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_nodes_kind ON nodes(kind);
`

// Store is a SQLite-backed document index. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Record describes one stored document.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SHA256    string    `json:"sha256"`
	BLAKE3    string    `json:"blake3"`
	CreatedAt time.Time `json:"created_at"`
	Nodes     int       `json:"nodes"`
}

// Hit is one search match.
type Hit struct {
	DocumentID string         `json:"document_id"`
	Name       string         `json:"name"`
	Seq        int            `json:"seq"`
	Kind       ir.ContentKind `json:"kind"`
	Text       string         `json:"text"`
}

// Open opens or creates the index at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores doc under name and returns its record. If a document with the
// same source text already exists, that record is returned and created is
// false.
func (s *Store) Save(ctx context.Context, name string, doc *ir.Document) (rec Record, created bool, err error) {
	if err := validation.ValidateName(name); err != nil {
		return Record{}, false, &errors.ValidationError{Field: "name", Value: name, Message: err.Error(), Err: err}
	}
	digest := ir.Digest(doc)

	existing, err := s.bySHA(ctx, digest.SHA256)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return Record{}, false, err
	}

	rec = Record{
		ID:        uuid.New().String(),
		Name:      name,
		SHA256:    digest.SHA256,
		BLAKE3:    digest.BLAKE3,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Nodes:     len(doc.Content),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, false, errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (id, name, sha256, blake3, source, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.SHA256, rec.BLAKE3, doc.OrigText, rec.CreatedAt.Format(time.RFC3339)); err != nil {
		return Record{}, false, errors.Wrapf(err, "insert document %s", name)
	}

	meta, err := tx.PrepareContext(ctx, `INSERT INTO metadata (document_id, seq, key, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return Record{}, false, errors.Wrap(err, "prepare metadata")
	}
	defer meta.Close()
	for i, m := range doc.Metadata {
		if _, err := meta.ExecContext(ctx, rec.ID, i, m.Key, m.Value); err != nil {
			return Record{}, false, errors.Wrapf(err, "insert metadata %d", i)
		}
	}

	nodes, err := tx.PrepareContext(ctx, `INSERT INTO nodes (document_id, seq, kind, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return Record{}, false, errors.Wrap(err, "prepare nodes")
	}
	defer nodes.Close()
	for i, c := range doc.Content {
		if _, err := nodes.ExecContext(ctx, rec.ID, i, string(c.Kind()), c.String()); err != nil {
			return Record{}, false, errors.Wrapf(err, "insert node %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return Record{}, false, errors.Wrap(err, "commit")
	}
	return rec, true, nil
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	return s.one(ctx, `d.id = ?`, id)
}

// Document re-parses the stored source text of id.
func (s *Store) Document(ctx context.Context, id string, opts ...parser.Option) (*ir.Document, error) {
	var src string
	err := s.db.QueryRowContext(ctx, `SELECT source FROM documents WHERE id = ?`, id).Scan(&src)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("document", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load document %s", id)
	}
	return parser.Parse(src, opts...)
}

// List returns all records ordered by name.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, recordQuery+` GROUP BY d.id ORDER BY d.name, d.id`)
	if err != nil {
		return nil, errors.Wrap(err, "list documents")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Search returns up to limit nodes whose clean text contains term,
// case-insensitively for ASCII. A limit of zero or less means no limit.
func (s *Store) Search(ctx context.Context, term string, limit int) ([]Hit, error) {
	if strings.TrimSpace(term) == "" {
		return nil, errors.NewValidation("term", "search term is empty")
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT n.document_id, d.name, n.seq, n.kind, n.text
		FROM nodes n JOIN documents d ON d.id = n.document_id
		WHERE n.text LIKE ? ESCAPE '\'
		ORDER BY d.name, n.document_id, n.seq
		LIMIT ?`, "%"+escapeLike(term)+"%", limit)
	if err != nil {
		return nil, errors.Wrapf(err, "search %q", term)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var kind string
		if err := rows.Scan(&h.DocumentID, &h.Name, &h.Seq, &kind, &h.Text); err != nil {
			return nil, errors.Wrap(err, "scan hit")
		}
		h.Kind = ir.ContentKind(kind)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// KindCounts returns how many nodes of each kind are indexed.
func (s *Store) KindCounts(ctx context.Context) (map[ir.ContentKind]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, count(*) FROM nodes GROUP BY kind`)
	if err != nil {
		return nil, errors.Wrap(err, "count kinds")
	}
	defer rows.Close()

	counts := make(map[ir.ContentKind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, errors.Wrap(err, "scan count")
		}
		counts[ir.ContentKind(kind)] = n
	}
	return counts, rows.Err()
}

// Delete removes a document and its nodes.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "delete %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NewNotFound("document", id)
	}
	return nil
}

const recordQuery = `
	SELECT d.id, d.name, d.sha256, d.blake3, d.created_at, count(n.seq)
	FROM documents d LEFT JOIN nodes n ON n.document_id = d.id`

func (s *Store) bySHA(ctx context.Context, sha string) (Record, error) {
	return s.one(ctx, `d.sha256 = ?`, sha)
}

func (s *Store) one(ctx context.Context, where string, arg any) (Record, error) {
	row := s.db.QueryRowContext(ctx, recordQuery+` WHERE `+where+` GROUP BY d.id`, arg)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, errors.NewNotFound("document", fmt.Sprint(arg))
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var created string
	if err := row.Scan(&rec.ID, &rec.Name, &rec.SHA256, &rec.BLAKE3, &created, &rec.Nodes); err != nil {
		if err == sql.ErrNoRows {
			return Record{}, err
		}
		return Record{}, errors.Wrap(err, "scan record")
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return Record{}, &errors.ParseError{Format: "timestamp", Message: created, Err: err}
	}
	rec.CreatedAt = t
	return rec, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
