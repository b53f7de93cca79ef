package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codemeta/pkg/bulk"
	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/errors"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate <file-or-directory>...",
		Short: "Check CodeMeta documents against their schema version",
		Long: `Validate reports missing required fields, unexpected value types and
malformed identifiers. Each document is checked against the version its
@context declares unless --schema is given. Directories are searched for
codemeta*.json files.

The exit status is 1 when a document cannot be read or is not a JSON object.
With --strict, missing recommended fields are reported and any warning makes
the exit status 1.`,
		Args: args(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					return usage(errors.Wrap(errors.ErrCodeFileNotFound, err, "validate"))
				}
				if !info.IsDir() {
					files = append(files, arg)
					continue
				}
				found, err := bulk.Discover(arg)
				if err != nil {
					return usage(err)
				}
				files = append(files, found...)
			}
			if len(files) == 0 {
				printInfo("No CodeMeta documents found")
				return nil
			}

			var v codemeta.Version
			if c.flags.schema != "" {
				v = c.version()
			}
			driver := &bulk.Driver{Workers: c.Config.Workers}
			report := driver.Run(cmd.Context(), bulk.Items(files), &bulk.ValidateJob{Version: v, Strict: strict})

			for _, r := range report.Items {
				printResult(r)
			}
			if len(files) > 1 {
				printSummary(report.Summary)
			}
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			switch {
			case report.HasFailures():
				return reported(fmt.Errorf("%d invalid documents", report.Summary.Failed))
			case strict && report.HasWarnings():
				return reported(fmt.Errorf("%d documents with warnings", report.Summary.Warned))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "also report missing recommended fields and fail on warnings")
	return cmd
}
