package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkforge/vellum/pkg/vellum"
	"github.com/inkforge/vellum/pkg/version"
)

const modulePath = "github.com/inkforge/vellum"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the vellum version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "vellum v%s\nschema: %s\nmodule: %s\n",
				vellum.Version, version.Current, modulePath)
			return nil
		},
	}
}
