// Package cli implements the vellum command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkforge/vellum/internal/catalog"
	"github.com/inkforge/vellum/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

var flags rootFlags

// NewRootCmd creates the top-level "vellum" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vellum",
		Short: "Persist, inspect, and upgrade versioned diagram files",
		Long: "Vellum stores diagrams as versioned structured documents and\n" +
			"migrates files written by older releases to the current schema\n" +
			"when they are loaded.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .vellum-db)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newListCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}

// openCatalog resolves directories and configuration, then attaches the
// diagram catalog. The caller must Detach it.
func openCatalog() (*catalog.Backend, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, err
	}
	dataDir, err := paths.ResolveDataDir(flags.dataDir, cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	backend := catalog.NewBackend()
	if err := backend.Attach(catalog.Config{Backend: cfg.GetString(cfgKeyBackend), DataDir: dataDir}); err != nil {
		return nil, fmt.Errorf("attach catalog: %w", err)
	}
	return backend, nil
}
