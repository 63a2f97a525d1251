package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkforge/vellum/pkg/migration"
	"github.com/inkforge/vellum/pkg/persistence"
	"github.com/inkforge/vellum/pkg/version"
)

// checkReport is the JSON-mode output of the check command.
type checkReport struct {
	Path            string `json:"path"`
	DeclaredVersion string `json:"declared_version"`
	CurrentVersion  string `json:"current_version"`
	NeedsMigration  bool   `json:"needs_migration"`
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Report whether a diagram file needs migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			doc, err := persistence.LoadDocument(path)
			if err != nil {
				return err
			}
			declared, err := migration.DeclaredVersion(doc)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			needs := version.NeedsMigration(declared, version.Current)

			if flags.jsonMode {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(checkReport{
					Path:            path,
					DeclaredVersion: declared.String(),
					CurrentVersion:  version.Current.String(),
					NeedsMigration:  needs,
				})
			}
			if needs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: version %s needs migration to %s\n", path, declared, version.Current)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: version %s is compatible with %s\n", path, declared, version.Current)
			}
			return nil
		},
	}
}
