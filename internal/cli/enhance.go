package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/errors"
)

// enhanceCommand creates the enhance command.
func (c *CLI) enhanceCommand() *cobra.Command {
	var (
		output       string
		noComplete   bool
		organization string
	)
	cmd := &cobra.Command{
		Use:   "enhance <file>",
		Short: "Upgrade and complete an existing codemeta.json",
		Long: `Enhance migrates a CodeMeta document to the target schema version,
normalizes field shapes, fills in derivable fields and reports what is still
missing. Running enhance on its own output changes nothing.

Examples:
  codemeta enhance codemeta.json
  codemeta enhance old.json -o codemeta.json --schema 3.0
  codemeta enhance codemeta.json --organization soda`,
		Args: args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if output == "" {
				output = input
			}
			data, err := os.ReadFile(input)
			if err != nil {
				return usage(errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", input))
			}
			org, err := c.organization(organization)
			if err != nil {
				return err
			}

			var opts []codemeta.EnhanceOption
			if !noComplete {
				opts = append(opts, codemeta.WithCompletion())
			}
			v := c.version()
			doc, report, err := codemeta.EnhanceBytes(data, v, opts...)
			if err != nil {
				printError("%s: %s", input, errors.UserMessage(err))
				return reported(err)
			}
			if org != nil {
				codemeta.AddOrganizationalContext(doc, *org)
				report = codemeta.Validate(doc, codemeta.ProfileFor(v))
			}
			if err := writeOutput(output, doc); err != nil {
				return err
			}
			if output == "-" {
				for _, m := range report.Messages() {
					loggerFromContext(cmd.Context()).Warn(m)
				}
				return nil
			}
			printSuccess("Enhanced %s to CodeMeta %s", input, v)
			printFile(output)
			printMessages(report.Messages())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file (default: overwrite input, "-" for stdout)`)
	cmd.Flags().BoolVar(&noComplete, "no-complete", false, "only migrate and normalize; do not fill in missing fields")
	cmd.Flags().StringVar(&organization, "organization", "", "organization preset (e.g. soda) or organization file")
	return cmd
}
