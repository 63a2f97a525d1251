// Package catalog tracks the diagram files known to this workspace: where
// they live, what schema version they declared, and whether loading them
// upgraded the document. The catalog is queried through an embedded SQLite
// database whose source of truth is a catalog.jsonl file in the data
// directory.
package catalog

import (
	"errors"
	"time"
)

// Supported backend names.
const BackendSQLite = "sqlite"

// Config selects and parameterizes the catalog backend.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// Validate checks that the Config is well-formed, returning a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if c.Backend != BackendSQLite {
		return ErrBackendUnknown
	}
	return nil
}

// Lifecycle and lookup errors.
var (
	ErrDetached        = errors.New("catalog is detached")
	ErrAlreadyAttached = errors.New("catalog is already attached")
	ErrNotFound        = errors.New("entry not found")
	ErrInvalidEntry    = errors.New("invalid entry")
)

// Entry records one known diagram file.
type Entry struct {
	DiagramID       string    // UUID v7, generated on first record.
	Path            string    // Absolute path of the diagram file; unique.
	DiagramType     string    // e.g. "ClassDiagram"; may be empty for old files.
	DeclaredVersion string    // Version the file declared when last loaded.
	Migrated        bool      // Whether the last load rewrote the document.
	RecordedAt      time.Time // Timestamp of the last record.
}
