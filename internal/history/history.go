// Package history keeps a SQLite log of classified and failed files.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/brianly1003/autosort/internal/domain/events"
	"github.com/brianly1003/autosort/internal/hub"
)

// Status of a history entry.
const (
	StatusClassified = "classified"
	StatusFailed     = "failed"
)

// schemaVersion is incremented when the entries table changes. Older
// tables are dropped; history is a convenience, not a record of truth.
const schemaVersion = 1

// Entry is one recorded outcome.
type Entry struct {
	ID           int64     `json:"id"`
	Time         time.Time `json:"time"`
	SessionID    string    `json:"session_id,omitempty"`
	Status       string    `json:"status"`
	SourcePath   string    `json:"source_path"`
	FinalPath    string    `json:"final_path,omitempty"`
	TargetFolder string    `json:"target_folder,omitempty"`
	Category     string    `json:"category,omitempty"`
	Code         string    `json:"code,omitempty"`
	Message      string    `json:"message,omitempty"`
}

// Store is the history database.
type Store struct {
	db         *sql.DB
	path       string
	maxEntries int
}

// Open opens (creating if needed) the history database at path. When
// maxEntries is positive older entries are pruned past that count.
func Open(path string, maxEntries int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps writes serialized and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, path: path, maxEntries: maxEntries}, nil
}

func createSchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS metadata (key TEXT PRIMARY KEY, value TEXT)`); err != nil {
		return err
	}

	var currentVersion int
	if err := db.QueryRow("SELECT value FROM metadata WHERE key = 'schema_version'").Scan(&currentVersion); err != nil {
		currentVersion = 0
	}
	if currentVersion != 0 && currentVersion < schemaVersion {
		log.Info().
			Int("old_version", currentVersion).
			Int("new_version", schemaVersion).
			Msg("history schema changed, discarding old entries")
		_, _ = db.Exec("DROP TABLE IF EXISTS entries")
	}

	schema := `
		CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at TEXT NOT NULL,
			session_id TEXT,
			status TEXT NOT NULL,
			source_path TEXT NOT NULL,
			final_path TEXT,
			target_folder TEXT,
			category TEXT,
			code TEXT,
			message TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_entries_status ON entries(status, id DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		return err
	}

	_, err := db.Exec("INSERT OR REPLACE INTO metadata (key, value) VALUES ('schema_version', ?)", schemaVersion)
	return err
}

// Path returns the database file.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts e and prunes old entries. ID is assigned by the database.
func (s *Store) Record(e Entry) error {
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO entries (recorded_at, session_id, status, source_path, final_path, target_folder, category, code, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Time.UTC().Format(time.RFC3339Nano), e.SessionID, e.Status, e.SourcePath,
		e.FinalPath, e.TargetFolder, e.Category, e.Code, e.Message)
	if err != nil {
		return fmt.Errorf("record history entry: %w", err)
	}
	return s.prune()
}

func (s *Store) prune() error {
	if s.maxEntries <= 0 {
		return nil
	}
	_, err := s.db.Exec(`
		DELETE FROM entries WHERE id <= (
			SELECT id FROM entries ORDER BY id DESC LIMIT 1 OFFSET ?
		)`, s.maxEntries)
	return err
}

// Recent returns up to limit entries, newest first. A limit of zero or less
// returns everything.
func (s *Store) Recent(limit int) ([]Entry, error) {
	query := `SELECT id, recorded_at, session_id, status, source_path, final_path, target_folder, category, code, message
		FROM entries ORDER BY id DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LastClassified returns the most recently classified file, or nil when
// there is none.
func (s *Store) LastClassified() (*Entry, error) {
	row := s.db.QueryRow(`SELECT id, recorded_at, session_id, status, source_path, final_path, target_folder, category, code, message
		FROM entries WHERE status = ? ORDER BY id DESC LIMIT 1`, StatusClassified)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e          Entry
		recordedAt string
		sessionID  sql.NullString
		finalPath  sql.NullString
		target     sql.NullString
		category   sql.NullString
		code       sql.NullString
		message    sql.NullString
	)
	if err := row.Scan(&e.ID, &recordedAt, &sessionID, &e.Status, &e.SourcePath,
		&finalPath, &target, &category, &code, &message); err != nil {
		return Entry{}, err
	}
	e.Time, _ = time.Parse(time.RFC3339Nano, recordedAt)
	e.SessionID = sessionID.String
	e.FinalPath = finalPath.String
	e.TargetFolder = target.String
	e.Category = category.String
	e.Code = code.String
	e.Message = message.String
	return e, nil
}

// Subscriber returns a hub subscriber that records classification events.
// Write errors are logged and do not detach the subscriber.
func (s *Store) Subscriber() *hub.FuncSubscriber {
	return hub.NewFuncSubscriber("history", func(ev events.Event) error {
		entry, ok := entryFromEvent(ev)
		if !ok {
			return nil
		}
		if err := s.Record(entry); err != nil {
			log.Error().Err(err).Str("path", entry.SourcePath).Msg("failed to record history")
		}
		return nil
	})
}

func entryFromEvent(ev events.Event) (Entry, bool) {
	base, ok := ev.(*events.BaseEvent)
	if !ok {
		return Entry{}, false
	}
	switch p := base.Payload.(type) {
	case events.FileClassifiedPayload:
		return Entry{
			Time:         base.Timestamp(),
			SessionID:    base.GetSessionID(),
			Status:       StatusClassified,
			SourcePath:   p.SourcePath,
			FinalPath:    p.FinalPath,
			TargetFolder: p.TargetFolder,
			Category:     p.Category,
		}, true
	case events.FileFailedPayload:
		return Entry{
			Time:       base.Timestamp(),
			SessionID:  base.GetSessionID(),
			Status:     StatusFailed,
			SourcePath: p.Path,
			Code:       p.Code,
			Message:    p.Message,
		}, true
	}
	return Entry{}, false
}
