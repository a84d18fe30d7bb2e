package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/etymograph/pkg/errors"
	"github.com/matzehuels/etymograph/pkg/etym"
	etymio "github.com/matzehuels/etymograph/pkg/io"
)

// Build describes one saved forest.
type Build struct {
	ID        string
	CreatedAt time.Time
	TermCount int
}

// SQLiteStore keeps the forest in a SQLite database, one row per term.
// Each Save writes a new build and drops the previous one in the same
// transaction, so readers never see a partial forest.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) the database at path and migrates it. Use
// ":memory:" for a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "open sqlite %s", path)
	}
	if path == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping sqlite %s", path)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "migrate sqlite %s", path)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Save stores terms as a new build and removes older builds.
func (s *SQLiteStore) Save(ctx context.Context, terms []*etym.Term) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "begin")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	id := uuid.New().String()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO builds (id, created_at, term_count) VALUES (?, ?, ?)`,
		id, time.Now().UTC(), len(terms)); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "insert build")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO terms (build_id, seq, term_id, term, term_lower, lang, data) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "prepare insert")
	}
	defer stmt.Close()

	for i, t := range terms {
		data, merr := etymio.MarshalTerm(t)
		if merr != nil {
			return errors.Wrap(errors.ErrCodeStore, merr, "encode term %s", t.ID)
		}
		if _, err = stmt.ExecContext(ctx, id, i, t.ID, t.Term, strings.ToLower(t.Term), t.Lang, data); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "insert term %s", t.ID)
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM terms WHERE build_id != ?`, id); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "drop old terms")
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM builds WHERE id != ?`, id); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "drop old builds")
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "commit")
	}
	return nil
}

// LatestBuild returns the current build. sql.ErrNoRows is wrapped in a
// NOT_FOUND error when nothing was saved yet.
func (s *SQLiteStore) LatestBuild(ctx context.Context) (Build, error) {
	var b Build
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, term_count FROM builds ORDER BY created_at DESC LIMIT 1`).
		Scan(&b.ID, &b.CreatedAt, &b.TermCount)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Build{}, errors.Wrap(errors.ErrCodeNotFound, err, "no build in %s", s.path)
	}
	if err != nil {
		return Build{}, errors.Wrap(errors.ErrCodeStore, err, "query build")
	}
	return b, nil
}

// Load returns the terms of the latest build.
func (s *SQLiteStore) Load(ctx context.Context) ([]*etym.Term, error) {
	return s.query(ctx, `SELECT data FROM terms ORDER BY seq`)
}

// Get returns the first term with id. Ids that only occur as ancestors are
// resolved by scanning the whole forest.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*etym.Term, error) {
	terms, err := s.query(ctx, `SELECT data FROM terms WHERE term_id = ? ORDER BY seq LIMIT 1`, id)
	if err != nil {
		return nil, err
	}
	if len(terms) > 0 {
		return terms[0], nil
	}
	all, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return nested(all, id)
}

// Find matches term text case-insensitively. Case folding is done in Go
// before insert since SQLite's lower() only folds ASCII.
func (s *SQLiteStore) Find(ctx context.Context, text, lang string) ([]*etym.Term, error) {
	return s.query(ctx,
		`SELECT data FROM terms WHERE term_lower = ? AND (? = '' OR lang = ?) ORDER BY seq`,
		strings.ToLower(text), lang, lang)
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]*etym.Term, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "query terms")
	}
	defer rows.Close()

	terms := []*etym.Term{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "scan term")
		}
		t, err := etymio.UnmarshalTerm(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "decode term")
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "iterate terms")
	}
	return terms, nil
}

// SchemaVersion returns the applied migration version.
func (s *SQLiteStore) SchemaVersion() (int64, error) {
	return schemaVersion(s.db)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
