package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkforge/vellum/internal/paths"
)

const oldDiagram = `{"diagram":"ClassDiagram","version":"2.0",` +
	`"nodes":[{"type":"PackageNode","name":"util","contents":"helpers","x":0,"y":0}],` +
	`"edges":[]}`

// setupDirs points config and data resolution at isolated temp dirs.
func setupDirs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(paths.EnvConfigDir, filepath.Join(dir, "config"))
	t.Setenv(paths.EnvDataDir, filepath.Join(dir, "data"))
	return dir
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	out := runCommandErr(t, nil, args...)
	return out
}

func runCommandErr(t *testing.T, wantErr *bool, args ...string) string {
	t.Helper()
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	if wantErr == nil {
		require.NoError(t, err, "output: %s", buf.String())
	} else {
		*wantErr = err != nil
	}
	return buf.String()
}

func TestVersionCommand(t *testing.T) {
	setupDirs(t)
	out := runCommand(t, "version")
	assert.Contains(t, out, "vellum v")
	assert.Contains(t, out, "schema: 3.5")
}

func TestInitCommand(t *testing.T) {
	dir := setupDirs(t)
	out := runCommand(t, "init")
	assert.Contains(t, out, "initialized")

	_, err := os.Stat(filepath.Join(dir, "config", "config.yaml"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "data", "catalog.jsonl"))
	assert.NoError(t, err)
}

func TestCheckCommand(t *testing.T) {
	dir := setupDirs(t)
	path := filepath.Join(dir, "old.class.jet")
	require.NoError(t, os.WriteFile(path, []byte(oldDiagram), 0o644))

	out := runCommand(t, "check", path)
	assert.Contains(t, out, "needs migration")

	out = runCommand(t, "--json", "check", path)
	var report checkReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.NeedsMigration)
	assert.Equal(t, "2.0", report.DeclaredVersion)
	assert.Equal(t, "3.5", report.CurrentVersion)
}

func TestMigrateCommandRewritesAndRecords(t *testing.T) {
	dir := setupDirs(t)
	path := filepath.Join(dir, "old.class.jet")
	require.NoError(t, os.WriteFile(path, []byte(oldDiagram), 0o644))

	out := runCommand(t, "migrate", path)
	assert.Contains(t, out, "upgraded from 2.0 to 3.5")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version":"3.5"`)
	assert.Contains(t, string(data), `"PackageDescriptionNode"`)

	// Backup defaults on.
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)

	out = runCommand(t, "--json", "list")
	var entries []listEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "2.0", entries[0].DeclaredVersion)
	assert.True(t, entries[0].Migrated)
	assert.Equal(t, "ClassDiagram", entries[0].DiagramType)
}

func TestMigrateCommandCompatibleFile(t *testing.T) {
	dir := setupDirs(t)
	path := filepath.Join(dir, "current.class.jet")
	current := `{"diagram":"ClassDiagram","version":"3.5","nodes":[],"edges":[]}`
	require.NoError(t, os.WriteFile(path, []byte(current), 0o644))

	out := runCommand(t, "migrate", path)
	assert.Contains(t, out, "already compatible")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, current, string(data))
}

func TestShowCommand(t *testing.T) {
	dir := setupDirs(t)
	path := filepath.Join(dir, "old.class.jet")
	require.NoError(t, os.WriteFile(path, []byte(oldDiagram), 0o644))

	out := runCommand(t, "show", path)
	assert.Contains(t, out, "ClassDiagram")
	assert.Contains(t, out, "PackageDescriptionNode")
	assert.Contains(t, out, "upgraded in memory")

	// show must not rewrite the file.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, oldDiagram, string(data))
}

func TestCheckCommandMissingFile(t *testing.T) {
	setupDirs(t)
	failed := false
	runCommandErr(t, &failed, "check", "/no/such/file.jet")
	assert.True(t, failed)
}
