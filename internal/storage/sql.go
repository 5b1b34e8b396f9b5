package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/garrettladley/whoopy/internal/migrations"
	"github.com/garrettladley/whoopy/internal/oauth"
)

const DefaultName = "default"

type Dialect = migrations.Dialect

const (
	DialectSQLite   = migrations.DialectSQLite
	DialectPostgres = migrations.DialectPostgres
)

type queries struct {
	load   string
	save   string
	delete string
}

var dialectQueries = map[Dialect]queries{
	DialectSQLite: {
		load: `SELECT payload FROM oauth_token WHERE name = ?`,
		save: `INSERT INTO oauth_token (name, payload, updated_at) VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		delete: `DELETE FROM oauth_token WHERE name = ?`,
	},
	DialectPostgres: {
		load: `SELECT payload FROM oauth_token WHERE name = $1`,
		save: `INSERT INTO oauth_token (name, payload, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		delete: `DELETE FROM oauth_token WHERE name = $1`,
	},
}

var _ Store = (*SQLStore)(nil)

// SQLStore keeps tokens as rows of the oauth_token table, one per name.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	name    string
	queries queries
	closer  func() error
	now     func() time.Time
}

// NewSQLStore uses an already migrated db. Close closes db.
func NewSQLStore(db *sql.DB, dialect Dialect, name string) (*SQLStore, error) {
	q, ok := dialectQueries[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	if name == "" {
		name = DefaultName
	}
	return &SQLStore{
		db:      db,
		dialect: dialect,
		name:    name,
		queries: q,
		closer:  db.Close,
		now:     time.Now,
	}, nil
}

func (s *SQLStore) Load(ctx context.Context) (*oauth.Token, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, s.queries.load, s.name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.fail(OpLoad, ErrNotFound)
	}
	if err != nil {
		return nil, s.fail(OpLoad, err)
	}

	token, err := Unmarshal([]byte(payload))
	if err != nil {
		return nil, s.fail(OpLoad, err)
	}
	return token, nil
}

func (s *SQLStore) Save(ctx context.Context, token *oauth.Token) error {
	data, err := Marshal(token)
	if err != nil {
		return s.fail(OpSave, err)
	}
	if _, err := s.db.ExecContext(ctx, s.queries.save, s.name, string(data), s.now().UTC()); err != nil {
		return s.fail(OpSave, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.queries.delete, s.name); err != nil {
		return s.fail(OpDelete, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.closer()
}

func (s *SQLStore) fail(op Op, err error) *StorageError {
	return &StorageError{Op: op, Backend: string(s.dialect), Location: s.name, Err: err}
}
