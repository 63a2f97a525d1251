package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkforge/vellum/pkg/persistence"
)

// showReport is the JSON-mode output of the show command.
type showReport struct {
	Path            string   `json:"path"`
	DiagramType     string   `json:"diagram_type"`
	DeclaredVersion string   `json:"declared_version"`
	Migrated        bool     `json:"migrated"`
	NodeTypes       []string `json:"node_types"`
	EdgeTypes       []string `json:"edge_types"`
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Load a diagram file and print a summary",
		Long:  "Load a diagram file, migrating it in memory as needed, and print the decoded elements. The file is not rewritten.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			result, err := persistence.Load(path)
			if err != nil {
				return err
			}
			d := result.Diagram

			if flags.jsonMode {
				report := showReport{
					Path:            path,
					DiagramType:     d.Type,
					DeclaredVersion: result.Version.String(),
					Migrated:        result.Migrated,
					NodeTypes:       make([]string, 0, len(d.Nodes)),
					EdgeTypes:       make([]string, 0, len(d.Edges)),
				}
				for _, n := range d.Nodes {
					report.NodeTypes = append(report.NodeTypes, n.Type)
				}
				for _, e := range d.Edges {
					report.EdgeTypes = append(report.EdgeTypes, e.Type)
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(report)
			}

			out := cmd.OutOrStdout()
			if d.Type != "" {
				fmt.Fprintf(out, "%s (%s, version %s)\n", path, d.Type, result.Version)
			} else {
				fmt.Fprintf(out, "%s (version %s)\n", path, result.Version)
			}
			if result.Migrated {
				fmt.Fprintln(out, "upgraded in memory; re-save to persist the current schema")
			}
			fmt.Fprintf(out, "nodes (%d):\n", len(d.Nodes))
			for i, n := range d.Nodes {
				if name, ok := n.Properties["name"].(string); ok && name != "" {
					fmt.Fprintf(out, "  %d: %s %q at (%d,%d)\n", i, n.Type, name, n.X, n.Y)
				} else {
					fmt.Fprintf(out, "  %d: %s at (%d,%d)\n", i, n.Type, n.X, n.Y)
				}
			}
			fmt.Fprintf(out, "edges (%d):\n", len(d.Edges))
			for i, e := range d.Edges {
				fmt.Fprintf(out, "  %d: %s %d -> %d\n", i, e.Type, e.Start, e.End)
			}
			return nil
		},
	}
}
