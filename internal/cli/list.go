package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkforge/vellum/internal/catalog"
)

// listEntry is one element of the list command's JSON-mode output.
type listEntry struct {
	DiagramID       string `json:"diagram_id"`
	Path            string `json:"path"`
	DiagramType     string `json:"diagram_type,omitempty"`
	DeclaredVersion string `json:"declared_version"`
	Migrated        bool   `json:"migrated"`
	RecordedAt      string `json:"recorded_at"`
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the diagram files recorded in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := openCatalog()
			if err != nil {
				return err
			}
			defer backend.Detach()

			entries, err := backend.List()
			if err != nil {
				return err
			}

			if flags.jsonMode {
				out := make([]listEntry, 0, len(entries))
				for _, e := range entries {
					out = append(out, listEntry{
						DiagramID:       e.DiagramID,
						Path:            e.Path,
						DiagramType:     e.DiagramType,
						DeclaredVersion: e.DeclaredVersion,
						Migrated:        e.Migrated,
						RecordedAt:      e.RecordedAt.Format(time.RFC3339),
					})
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog is empty")
				return nil
			}
			for _, e := range entries {
				printEntry(cmd, e)
			}
			return nil
		},
	}
}

func printEntry(cmd *cobra.Command, e *catalog.Entry) {
	status := "current"
	if e.Migrated {
		status = "upgraded"
	}
	if e.DiagramType != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  v%s  %s\n", e.DiagramID, e.Path, e.DiagramType, e.DeclaredVersion, status)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  v%s  %s\n", e.DiagramID, e.Path, e.DeclaredVersion, status)
	}
}
