package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Backend stores catalog entries in SQLite with catalog.jsonl as the
// source of truth. Every mutation is persisted back to the JSONL file
// before it returns.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   Config
	db       *sql.DB
}

// NewBackend creates an unattached backend; call Attach with a Config to
// initialize it.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens the catalog in config.DataDir, creating the directory and
// an empty catalog.jsonl on first use, and loads the JSONL records into
// a fresh SQLite database. Returns ErrAlreadyAttached when called twice.
func (b *Backend) Attach(config Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// The database is a rebuildable cache of catalog.jsonl; start from a
	// fresh schema on every attach.
	dbPath := filepath.Join(dataDir, "catalog.db")
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening catalog db: %w", err)
	}
	if _, err := db.Exec(createDiagrams); err != nil {
		db.Close()
		return fmt.Errorf("creating schema: %w", err)
	}

	jsonlPath := filepath.Join(dataDir, catalogFile)
	if _, err := os.Stat(jsonlPath); os.IsNotExist(err) {
		if err := writeJSONL(jsonlPath, nil); err != nil {
			db.Close()
			return err
		}
	}

	if err := loadJSONL(db, jsonlPath); err != nil {
		db.Close()
		return fmt.Errorf("loading %s: %w", catalogFile, err)
	}

	b.db = db
	b.config = Config{Backend: config.Backend, DataDir: dataDir}
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent: detaching an unattached
// backend succeeds.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("closing catalog db: %w", err)
	}
	b.db = nil
	return nil
}

// Record inserts or updates the entry for e.Path. A new entry gets a
// UUID v7 diagram ID; re-recording a known path keeps its ID. Returns
// the ID used.
func (b *Backend) Record(e *Entry) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return "", ErrDetached
	}
	if e == nil || e.Path == "" {
		return "", ErrInvalidEntry
	}

	id := e.DiagramID
	if id == "" {
		var existing string
		err := b.db.QueryRow("SELECT diagram_id FROM diagrams WHERE path = ?", e.Path).Scan(&existing)
		switch {
		case err == sql.ErrNoRows:
			newID, err := uuid.NewV7()
			if err != nil {
				return "", fmt.Errorf("generating UUID v7: %w", err)
			}
			id = newID.String()
		case err != nil:
			return "", fmt.Errorf("looking up path %s: %w", e.Path, err)
		default:
			id = existing
		}
	}

	recordedAt := e.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	_, err := b.db.Exec(
		`INSERT INTO diagrams (diagram_id, path, diagram_type, declared_version, migrated, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
		   diagram_type = excluded.diagram_type,
		   declared_version = excluded.declared_version,
		   migrated = excluded.migrated,
		   recorded_at = excluded.recorded_at`,
		id, e.Path, e.DiagramType, e.DeclaredVersion, boolToInt(e.Migrated), recordedAt.Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("recording %s: %w", e.Path, err)
	}

	e.DiagramID = id
	e.RecordedAt = recordedAt
	return id, b.persist()
}

// Get retrieves the entry with the given diagram ID.
func (b *Backend) Get(id string) (*Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, ErrDetached
	}
	if id == "" {
		return nil, ErrInvalidEntry
	}
	row := b.db.QueryRow(
		"SELECT diagram_id, path, diagram_type, declared_version, migrated, recorded_at FROM diagrams WHERE diagram_id = ?",
		id,
	)
	return hydrateEntry(row)
}

// FindByPath retrieves the entry recorded for the given path.
func (b *Backend) FindByPath(path string) (*Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, ErrDetached
	}
	row := b.db.QueryRow(
		"SELECT diagram_id, path, diagram_type, declared_version, migrated, recorded_at FROM diagrams WHERE path = ?",
		path,
	)
	return hydrateEntry(row)
}

// List returns all entries ordered by path.
func (b *Backend) List() ([]*Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, ErrDetached
	}
	rows, err := b.db.Query(
		"SELECT diagram_id, path, diagram_type, declared_version, migrated, recorded_at FROM diagrams ORDER BY path",
	)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Remove deletes the entry with the given diagram ID.
func (b *Backend) Remove(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return ErrDetached
	}
	res, err := b.db.Exec("DELETE FROM diagrams WHERE diagram_id = ?", id)
	if err != nil {
		return fmt.Errorf("removing %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return b.persist()
}

// persist writes every row back to catalog.jsonl atomically. Callers must
// hold the write lock.
func (b *Backend) persist() error {
	rows, err := b.db.Query(
		"SELECT diagram_id, path, diagram_type, declared_version, migrated, recorded_at FROM diagrams ORDER BY recorded_at, diagram_id",
	)
	if err != nil {
		return fmt.Errorf("reading entries for persist: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return err
		}
		rec, err := json.Marshal(entryJSON{
			DiagramID:       e.DiagramID,
			Path:            e.Path,
			DiagramType:     e.DiagramType,
			DeclaredVersion: e.DeclaredVersion,
			Migrated:        e.Migrated,
			RecordedAt:      e.RecordedAt.Format(time.RFC3339),
		})
		if err != nil {
			return fmt.Errorf("encoding entry %s: %w", e.DiagramID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(b.config.DataDir, catalogFile), records)
}

// loadJSONL inserts catalog.jsonl records into the diagrams table.
// Loading is transactional; malformed lines were already skipped by
// readJSONL and records missing required fields are skipped here.
func loadJSONL(db *sql.DB, path string) error {
	records, err := readJSONL(path)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT INTO diagrams (diagram_id, path, diagram_type, declared_version, migrated, recorded_at) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var e entryJSON
		if err := json.Unmarshal(rec, &e); err != nil {
			continue
		}
		if e.DiagramID == "" || e.Path == "" {
			continue
		}
		if _, err := stmt.Exec(e.DiagramID, e.Path, e.DiagramType, e.DeclaredVersion, boolToInt(e.Migrated), e.RecordedAt); err != nil {
			return fmt.Errorf("inserting entry %s: %w", e.DiagramID, err)
		}
	}

	return tx.Commit()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func hydrateEntry(row *sql.Row) (*Entry, error) {
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return e, err
}

func scanEntry(row rowScanner) (*Entry, error) {
	var e Entry
	var migrated int
	var recordedAt string
	if err := row.Scan(&e.DiagramID, &e.Path, &e.DiagramType, &e.DeclaredVersion, &migrated, &recordedAt); err != nil {
		return nil, err
	}
	e.Migrated = migrated != 0
	ts, err := time.Parse(time.RFC3339, recordedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing recorded_at %q: %w", recordedAt, err)
	}
	e.RecordedAt = ts
	return &e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
