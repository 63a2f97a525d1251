package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkforge/vellum/internal/paths"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize vellum configuration and catalog storage",
		Long:  "Create the configuration directory with a default config.yaml and initialize the diagram catalog.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if _, err := loadConfig(configDir); err != nil {
		return err
	}

	// Attach then Detach creates the data directory and catalog.jsonl.
	backend, err := openCatalog()
	if err != nil {
		return err
	}
	if err := backend.Detach(); err != nil {
		return fmt.Errorf("finalize catalog: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Vellum initialized successfully")
	return nil
}
