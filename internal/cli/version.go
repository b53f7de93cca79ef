package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codemeta/pkg/buildinfo"
	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/config"
)

// versionCommand prints build information and the supported schemas.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(stdout, buildinfo.String())
			fmt.Fprintf(stdout, "schemas: %s, %s (default %s)\n", codemeta.V2, codemeta.V3, c.version())
			return nil
		},
	}
}

// configCommand inspects the effective configuration.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration as TOML (tokens masked)",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(stdout, c.Config.String())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the default config file path",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.flags.config
			if path == "" {
				path = config.DefaultPath()
			}
			fmt.Fprintln(stdout, path)
			return nil
		},
	})
	return cmd
}
