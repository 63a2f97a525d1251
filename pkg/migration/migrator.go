// Package migration implements the schema migration engine: the version
// gate deciding whether a loaded document needs rewriting, and the fixed
// ordered pipeline of rewrite rules that bring documents written by older
// releases into conformance with the current schema before decoding.
package migration

import (
	"fmt"

	"github.com/inkforge/vellum/pkg/diagram"
	"github.com/inkforge/vellum/pkg/document"
	"github.com/inkforge/vellum/pkg/version"
)

// Result is the outcome of one successful migration call.
type Result struct {
	// Diagram is the decoded domain model.
	Diagram *diagram.Diagram

	// Version is the version the document declared, before migration.
	Version version.Version

	// Migrated reports whether any rewrite rule changed the document.
	// Callers use it to tell the user the file was upgraded and should
	// be re-saved.
	Migrated bool
}

// Migrator runs the migration pipeline. The rule list and current version
// are fixed at construction, so a single Migrator is safe to share across
// concurrent loads; all per-call state lives on the stack.
type Migrator struct {
	current version.Version
	rules   []Rule
}

// New returns a Migrator targeting the build's current schema version
// with the standard rule sequence.
func New() *Migrator {
	return &Migrator{current: version.Current, rules: Rules()}
}

// NewWithRules returns a Migrator with a caller-supplied current version
// and rule sequence.
func NewWithRules(current version.Version, rules []Rule) *Migrator {
	return &Migrator{current: current, rules: rules}
}

// Migrate checks the document's declared version against the current one
// and, when needed, runs the rewrite pipeline before decoding. When the
// declared version is compatible the pipeline is skipped entirely and the
// document is decoded as-is with Migrated=false.
//
// Decode failures are not caught here: a document that violates a
// structural expectation after (or without) migration surfaces as a
// decode error to the caller.
func (m *Migrator) Migrate(doc *document.Object) (*Result, error) {
	declared, err := DeclaredVersion(doc)
	if err != nil {
		return nil, err
	}

	if declared.Compatible(m.current) {
		d, err := diagram.Decode(doc)
		if err != nil {
			return nil, err
		}
		return &Result{Diagram: d, Version: declared, Migrated: false}, nil
	}

	migrated, err := m.Apply(doc)
	if err != nil {
		return nil, err
	}

	d, err := diagram.Decode(doc)
	if err != nil {
		return nil, err
	}
	return &Result{Diagram: d, Version: declared, Migrated: migrated}, nil
}

// Apply runs the rewrite rules in order against doc, bypassing the
// version gate and decoding. It reports whether any rule changed the
// document.
func (m *Migrator) Apply(doc *document.Object) (bool, error) {
	migrated := false
	for _, rule := range m.rules {
		changed, err := rule.Apply(doc)
		if err != nil {
			return migrated, fmt.Errorf("rule %s: %w", rule.Name, err)
		}
		migrated = migrated || changed
	}
	return migrated, nil
}

// NeedsMigration reports whether doc's declared version requires the
// pipeline before decoding at the Migrator's current version.
func (m *Migrator) NeedsMigration(doc *document.Object) (bool, error) {
	declared, err := DeclaredVersion(doc)
	if err != nil {
		return false, err
	}
	return version.NeedsMigration(declared, m.current), nil
}

// DeclaredVersion reads and parses the document's version field. A
// missing or mistyped field is reported as a malformed version, since
// without it no compatibility decision is possible.
func DeclaredVersion(doc *document.Object) (version.Version, error) {
	raw, err := doc.String("version")
	if err != nil {
		return version.Version{}, fmt.Errorf("%w: %v", version.ErrMalformedVersion, err)
	}
	return version.Parse(raw)
}

// Migrate runs the standard pipeline against doc. It is shorthand for
// New().Migrate(doc).
func Migrate(doc *document.Object) (*Result, error) {
	return New().Migrate(doc)
}
