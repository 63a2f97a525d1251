package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/inkforge/vellum/internal/catalog"
	"github.com/inkforge/vellum/internal/paths"
	"github.com/inkforge/vellum/pkg/persistence"
	"github.com/inkforge/vellum/pkg/version"
)

// migrateReport is the JSON-mode output of the migrate command.
type migrateReport struct {
	Path            string `json:"path"`
	OutPath         string `json:"out_path"`
	DeclaredVersion string `json:"declared_version"`
	CurrentVersion  string `json:"current_version"`
	Migrated        bool   `json:"migrated"`
}

func newMigrateCmd() *cobra.Command {
	var (
		outPath  string
		backup   bool
		noRecord bool
	)

	cmd := &cobra.Command{
		Use:   "migrate <file>",
		Short: "Upgrade a diagram file to the current schema",
		Long: "Load a diagram file, rewrite it to the current schema when its\n" +
			"declared version is incompatible, and record it in the catalog.\n" +
			"A file already at a compatible version is left untouched.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			// The flag default comes from config.yaml unless set explicitly.
			if !cmd.Flags().Changed("backup") {
				configDir, err := paths.ResolveConfigDir(flags.configDir)
				if err != nil {
					return fmt.Errorf("resolve config dir: %w", err)
				}
				cfg, err := loadConfig(configDir)
				if err != nil {
					return err
				}
				backup = cfg.GetBool(cfgKeyBackup)
			}

			result, err := persistence.MigrateFile(path, persistence.MigrateOptions{
				OutPath: outPath,
				Backup:  backup,
			})
			if err != nil {
				return err
			}

			finalPath := path
			if outPath != "" {
				finalPath = outPath
			}

			if !noRecord {
				if err := recordInCatalog(finalPath, result.Diagram.Type, result.Version.String(), result.Migrated); err != nil {
					return err
				}
			}

			if flags.jsonMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(migrateReport{
					Path:            path,
					OutPath:         finalPath,
					DeclaredVersion: result.Version.String(),
					CurrentVersion:  version.Current.String(),
					Migrated:        result.Migrated,
				})
			}
			if result.Migrated {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: upgraded from %s to %s\n", finalPath, result.Version, version.Current)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: already compatible with %s, not rewritten\n", path, version.Current)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the migrated diagram to this path instead of in place")
	cmd.Flags().BoolVar(&backup, "backup", true, "keep a .bak copy when migrating in place")
	cmd.Flags().BoolVar(&noRecord, "no-record", false, "do not record the file in the catalog")

	return cmd
}

// recordInCatalog upserts the catalog entry for path.
func recordInCatalog(path, diagramType, declaredVersion string, migrated bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	backend, err := openCatalog()
	if err != nil {
		return err
	}
	defer backend.Detach()

	_, err = backend.Record(&catalog.Entry{
		Path:            abs,
		DiagramType:     diagramType,
		DeclaredVersion: declaredVersion,
		Migrated:        migrated,
	})
	if err != nil {
		return fmt.Errorf("record in catalog: %w", err)
	}
	return nil
}
