// Package storage persists the notepad's note in an embedded SQLite
// database. The schema is managed by goose migrations compiled into the
// binary.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultKey is the key of the single note the notepad edits.
const DefaultKey = "default"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: notes store is closed")

// Notes is a key/value note store. It is safe for concurrent use.
type Notes struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	logger *log.Logger
}

// Option configures a Notes store.
type Option func(*Notes)

// WithLogger sets the store's logger.
func WithLogger(l *log.Logger) Option {
	return func(n *Notes) {
		if l != nil {
			n.logger = l
		}
	}
}

// Open opens (creating if needed) the database at path and migrates it.
// The path ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string, opts ...Option) (*Notes, error) {
	n := &Notes{path: path, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(n)
	}

	dsn := "file::memory:?_busy_timeout=5000"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		dsn = "file:" + path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps an in-memory
	// database alive for the store's lifetime.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := migrate(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	n.db = db
	n.logger.Debug("note store opened", "path", path, "schema", version)
	return n, nil
}

// Path returns the database path the store was opened with.
func (n *Notes) Path() string {
	return n.path
}

// Save overwrites the default note.
func (n *Notes) Save(ctx context.Context, content string) error {
	return n.Put(ctx, DefaultKey, content)
}

// Load returns the default note, or "" when nothing was saved.
func (n *Notes) Load(ctx context.Context) (string, error) {
	return n.Get(ctx, DefaultKey)
}

// Clear deletes the default note.
func (n *Notes) Clear(ctx context.Context) error {
	return n.Delete(ctx, DefaultKey)
}

// Put stores content under key, replacing any previous value.
func (n *Notes) Put(ctx context.Context, key, content string) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.db == nil {
		return ErrClosed
	}

	_, err := n.db.ExecContext(ctx, `
		INSERT INTO notes (key, content, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		key, content, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save note %q: %w", key, err)
	}
	n.logger.Debug("note saved", "key", key, "bytes", len(content))
	return nil
}

// Get returns the note stored under key, or "" when there is none.
func (n *Notes) Get(ctx context.Context, key string) (string, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.db == nil {
		return "", ErrClosed
	}

	var content string
	err := n.db.QueryRowContext(ctx, `SELECT content FROM notes WHERE key = ?`, key).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load note %q: %w", key, err)
	}
	return content, nil
}

// UpdatedAt returns when the note under key was last saved.
func (n *Notes) UpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.db == nil {
		return time.Time{}, false, ErrClosed
	}

	var ts time.Time
	err := n.db.QueryRowContext(ctx, `SELECT updated_at FROM notes WHERE key = ?`, key).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("load note %q: %w", key, err)
	}
	return ts, true, nil
}

// Delete removes the note under key. Deleting a missing note is not an error.
func (n *Notes) Delete(ctx context.Context, key string) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.db == nil {
		return ErrClosed
	}

	if _, err := n.db.ExecContext(ctx, `DELETE FROM notes WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clear note %q: %w", key, err)
	}
	return nil
}

// Close releases the database. Closing twice is a no-op.
func (n *Notes) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.db == nil {
		return nil
	}
	err := n.db.Close()
	n.db = nil
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
