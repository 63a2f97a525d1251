// Package persistence reads and writes diagram files. Loading parses the
// raw text into a document tree and runs it through the migration engine;
// saving writes single-line JSON atomically.
package persistence

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/inkforge/vellum/pkg/document"
	"github.com/inkforge/vellum/pkg/migration"
	"github.com/inkforge/vellum/pkg/version"
)

// BackupSuffix is appended to the original file name when MigrateFile
// keeps a pre-migration copy.
const BackupSuffix = ".bak"

// Load reads the diagram file at path, parses it, and migrates it to the
// current schema as needed. Parse failures, malformed versions, and
// decode failures all abort the load.
func Load(path string) (*migration.Result, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	result, err := migration.Migrate(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, nil
}

// LoadDocument reads and parses the file at path into a document tree
// without migrating or decoding it.
func LoadDocument(path string) (*document.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Save writes doc to path as single-line JSON using the temp-file, fsync,
// rename pattern so a crash never leaves a half-written diagram behind.
func Save(path string, doc *document.Object) error {
	data, err := document.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return writeAtomic(path, append(data, '\n'))
}

// MigrateOptions controls where MigrateFile writes its output.
type MigrateOptions struct {
	// OutPath, when non-empty, receives the migrated document instead of
	// overwriting the input file.
	OutPath string

	// Backup keeps a copy of the original file at path+BackupSuffix
	// before overwriting it. Ignored when OutPath is set.
	Backup bool
}

// MigrateFile upgrades the diagram file at path to the current schema.
// A file already at a compatible version is decoded for validation but
// not rewritten. Otherwise the rewritten document is stamped with the
// current version and written out per opts.
func MigrateFile(path string, opts MigrateOptions) (*migration.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	result, err := migration.Migrate(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if result.Version.Compatible(version.Current) {
		return result, nil
	}

	doc.Put("version", version.Current.String())

	out := opts.OutPath
	if out == "" {
		out = path
		if opts.Backup {
			if err := writeAtomic(path+BackupSuffix, data); err != nil {
				return nil, fmt.Errorf("writing backup: %w", err)
			}
		}
	}
	if err := Save(out, doc); err != nil {
		return nil, err
	}
	return result, nil
}

// writeAtomic writes data via a temp file in the target directory,
// fsyncs, and renames over the destination.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".vellum-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
