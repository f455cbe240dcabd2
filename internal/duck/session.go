// Package duck owns the lifecycle of the embedded DuckDB engine: one
// in-memory database per session, bulk-loaded once from a Parquet
// buffer and queried read-only until teardown.
package duck

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/sirupsen/logrus"
)

// State is the session lifecycle phase. Queries are only legal in Ready.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// TableName is the table the dataset is materialized into.
const TableName = "matches"

// Session wraps one connection to an in-memory DuckDB instance.
// All methods are safe for concurrent use; two racing Initialize calls
// resolve with the first caller performing the setup and the second
// observing the already-ready engine.
type Session struct {
	mu    sync.Mutex
	state State
	db    *sql.DB
	// parquetPath is the on-disk source the matches table was read
	// from. Kept until teardown so a repeated LoadDataset can re-read
	// it if the table does not exist yet.
	parquetPath string
	tmpDir      string
	loaded      bool
	log         *logrus.Logger
}

// NewSession returns an uninitialized session. Call Initialize before
// anything else.
func NewSession(log *logrus.Logger) *Session {
	return &Session{state: StateUninitialized, log: log}
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ready reports whether queries may be issued.
func (s *Session) Ready() bool {
	return s.State() == StateReady
}

// Loaded reports whether the matches table has been materialized.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateReady && s.loaded
}

// Initialize opens the engine and its single connection. Idempotent:
// calling it on a Ready session is a no-op.
func (s *Session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateReady:
		return nil
	case StateInitializing:
		// The mutex serializes initializers, so observing this state
		// means a previous attempt failed mid-flight.
		return &InitError{Err: fmt.Errorf("session left initializing by a failed attempt")}
	}

	s.state = StateInitializing
	s.log.Info("Initializing DuckDB engine...")

	db, err := sql.Open("duckdb", "")
	if err != nil {
		s.state = StateUninitialized
		return &InitError{Err: err}
	}
	// DuckDB session settings do not propagate across pooled
	// connections; one connection keeps them consistent.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		s.state = StateUninitialized
		return &InitError{Err: err}
	}

	s.db = db
	s.state = StateReady
	s.log.Info("DuckDB engine initialized successfully")
	return nil
}

// LoadDataset registers data as the Parquet source and materializes it
// into the matches table with CREATE TABLE IF NOT EXISTS semantics, so
// a repeated call is a no-op on an already-built table.
func (s *Session) LoadDataset(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return &LoadError{Err: fmt.Errorf("%w (state=%s)", ErrNotReady, s.state)}
	}
	if len(data) == 0 {
		return &LoadError{Err: fmt.Errorf("empty dataset buffer")}
	}

	if s.tmpDir == "" {
		dir, err := os.MkdirTemp("", "sf6chapter-dataset-")
		if err != nil {
			return &LoadError{Err: fmt.Errorf("create dataset dir: %w", err)}
		}
		s.tmpDir = dir
	}
	s.parquetPath = filepath.Join(s.tmpDir, "matches.parquet")
	if err := os.WriteFile(s.parquetPath, data, 0o600); err != nil {
		return &LoadError{Err: fmt.Errorf("write dataset file: %w", err)}
	}

	// Single quotes in the path are escaped; the path is ours, but the
	// statement text must stay well-formed regardless of TMPDIR.
	escaped := strings.ReplaceAll(s.parquetPath, "'", "''")
	create := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s AS SELECT * FROM read_parquet('%s')",
		TableName, escaped,
	)
	if _, err := s.db.ExecContext(ctx, create); err != nil {
		return &LoadError{Err: fmt.Errorf("materialize %s: %w", TableName, err)}
	}

	s.loaded = true
	s.log.WithField("bytes", len(data)).Info("Dataset loaded into matches table")
	return nil
}

// PrepareContext prepares a statement on the live connection. The
// caller must close the returned statement on every exit path.
func (s *Session) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return nil, &QueryError{Err: err}
	}
	return stmt, nil
}

// QueryContext executes a parameterized statement and returns its rows.
func (s *Session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &QueryError{Err: err}
	}
	return rows, nil
}

func (s *Session) handle() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return nil, &QueryError{Err: fmt.Errorf("%w (state=%s)", ErrNotReady, s.state)}
	}
	return s.db, nil
}

// Teardown releases the connection, terminates the engine and removes
// the on-disk dataset source. After Teardown the session can be
// initialized again.
func (s *Session) Teardown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return nil
	}

	var firstErr error
	if err := s.db.Close(); err != nil {
		firstErr = err
	}
	s.db = nil

	if s.tmpDir != "" {
		if err := os.RemoveAll(s.tmpDir); err != nil && firstErr == nil {
			firstErr = err
		}
		s.tmpDir = ""
		s.parquetPath = ""
	}

	s.loaded = false
	s.state = StateUninitialized
	s.log.Info("DuckDB session closed")
	return firstErr
}
