// Package sqlite provides a store.Store backed by an SQLite database through
// the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"docmapper/internal/mapping"
	"docmapper/internal/store"
	"docmapper/internal/transform"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS clients (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS mapping_rules (
	client_id        TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
	id               TEXT NOT NULL,
	position         INTEGER NOT NULL,
	source_path      TEXT NOT NULL,
	destination_path TEXT NOT NULL,
	transform_type   TEXT NOT NULL,
	transform_logic  TEXT NOT NULL DEFAULT '',
	default_value    TEXT,
	required         INTEGER NOT NULL DEFAULT 0,
	created_at       TEXT NOT NULL,
	PRIMARY KEY (client_id, id)
);

CREATE INDEX IF NOT EXISTS idx_mapping_rules_position ON mapping_rules(client_id, position);
`

// Store is an SQLite-backed rule store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection serializes writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) CreateClient(ctx context.Context, name string) (*mapping.Client, error) {
	c, err := store.NewClient(name, s.now())
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var taken int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients WHERE name = ?`, name).Scan(&taken); err != nil {
		return nil, fmt.Errorf("failed to check client name: %w", err)
	}

	if taken > 0 {
		return nil, fmt.Errorf("%w: %q", store.ErrDuplicateName, name)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO clients (id, name, created_at) VALUES (?, ?, ?)`,
		c.ID, c.Name, formatTime(c.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert client: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Store) GetClient(ctx context.Context, id string) (*mapping.Client, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM clients WHERE id = ?`, id)

	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %q: %w", id, store.ErrNotFound)
	}

	if err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]mapping.Client, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM clients ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var out []mapping.Client

	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *c)
	}

	return out, rows.Err()
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM mapping_rules WHERE client_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete rules: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("client %q: %w", id, store.ErrNotFound)
	}

	return tx.Commit()
}

func (s *Store) CreateRules(ctx context.Context, clientID string, rules []mapping.MappingRule) ([]mapping.MappingRule, error) {
	prepared, err := store.PrepareRules(clientID, rules, s.now())
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := clientExists(ctx, tx, clientID); err != nil {
		return nil, err
	}

	var position int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) FROM mapping_rules WHERE client_id = ?`, clientID).Scan(&position)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule position: %w", err)
	}

	for _, r := range prepared {
		var n int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM mapping_rules WHERE client_id = ? AND id = ?`, clientID, r.ID).Scan(&n)
		if err != nil {
			return nil, fmt.Errorf("failed to check rule id: %w", err)
		}

		if n > 0 {
			return nil, fmt.Errorf("%w: %q", store.ErrDuplicateRule, r.ID)
		}

		position++

		if err := insertRule(ctx, tx, position, r); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return prepared, nil
}

func (s *Store) ListRules(ctx context.Context, clientID string) ([]mapping.MappingRule, error) {
	if err := clientExists(ctx, s.db, clientID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT client_id, id, source_path, destination_path, transform_type,
		       transform_logic, default_value, required, created_at
		FROM mapping_rules
		WHERE client_id = ?
		ORDER BY position`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	out := []mapping.MappingRule{}

	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, r)
	}

	return out, rows.Err()
}

func (s *Store) DeleteRule(ctx context.Context, clientID, ruleID string) error {
	if err := clientExists(ctx, s.db, clientID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM mapping_rules WHERE client_id = ? AND id = ?`, clientID, ruleID)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("rule %q: %w", ruleID, store.ErrNotFound)
	}

	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func clientExists(ctx context.Context, q queryer, id string) error {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients WHERE id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("failed to look up client: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("client %q: %w", id, store.ErrNotFound)
	}

	return nil
}

func scanClient(row scanner) (*mapping.Client, error) {
	var (
		c       mapping.Client
		created string
	)

	if err := row.Scan(&c.ID, &c.Name, &created); err != nil {
		return nil, err
	}

	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}

	c.CreatedAt = t

	return &c, nil
}

func insertRule(ctx context.Context, tx *sql.Tx, position int, r mapping.MappingRule) error {
	src, err := json.Marshal(r.SourcePath)
	if err != nil {
		return err
	}

	dst, err := json.Marshal(r.DestinationPath)
	if err != nil {
		return err
	}

	var def sql.NullString
	if r.DefaultValue != nil {
		def = sql.NullString{String: *r.DefaultValue, Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO mapping_rules (
			client_id, id, position, source_path, destination_path, transform_type,
			transform_logic, default_value, required, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ClientID, r.ID, position, string(src), string(dst), r.TransformType.String(),
		r.TransformLogic, def, r.Required, formatTime(r.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert rule %q: %w", r.ID, err)
	}

	return nil
}

func scanRule(row scanner) (mapping.MappingRule, error) {
	var (
		r        mapping.MappingRule
		src, dst string
		kind     string
		def      sql.NullString
		created  string
	)

	err := row.Scan(&r.ClientID, &r.ID, &src, &dst, &kind, &r.TransformLogic, &def, &r.Required, &created)
	if err != nil {
		return r, err
	}

	if err := json.Unmarshal([]byte(src), &r.SourcePath); err != nil {
		return r, fmt.Errorf("rule %q: source path: %w", r.ID, err)
	}

	if err := json.Unmarshal([]byte(dst), &r.DestinationPath); err != nil {
		return r, fmt.Errorf("rule %q: destination path: %w", r.ID, err)
	}

	if r.TransformType, err = transform.ParseKind(kind); err != nil {
		return r, fmt.Errorf("rule %q: %w", r.ID, err)
	}

	if def.Valid {
		r.DefaultValue = mapping.Default(def.String)
	}

	if r.CreatedAt, err = parseTime(created); err != nil {
		return r, err
	}

	return r, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}

	return t, nil
}
