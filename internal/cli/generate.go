package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codemeta/pkg/bulk"
	"github.com/matzehuels/codemeta/pkg/cache"
	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/config"
	"github.com/matzehuels/codemeta/pkg/errors"
	"github.com/matzehuels/codemeta/pkg/requirements"
	"github.com/matzehuels/codemeta/pkg/store"
)

// enrichOpts are the flags shared by generate and bulk that add people,
// organizations and requirements to generated documents.
type enrichOpts struct {
	authors      string // authors file
	organization string // preset key or organization file
	requirements string // manifest file or directory
	resolve      bool   // look requirements up in their registries
	contributors int    // number of repository contributors to add
}

func (o *enrichOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.authors, "authors", "", "YAML or JSON file listing authors")
	cmd.Flags().StringVar(&o.organization, "organization", "", "organization preset (e.g. soda) or organization file")
	cmd.Flags().StringVar(&o.requirements, "requirements", "", "manifest file or directory to read software requirements from")
	cmd.Flags().BoolVar(&o.resolve, "resolve", false, "look requirements up in their package registries")
	cmd.Flags().IntVar(&o.contributors, "contributors", 0, "add up to N repository contributors")
	_ = cmd.RegisterFlagCompletionFunc("organization", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return codemeta.OrganizationPresetNames(nil), cobra.ShellCompDirectiveDefault
	})
}

// job builds the generate job for these options.
func (c *CLI) generateJob(ctx context.Context, o *enrichOpts) (*bulk.GenerateJob, func(), error) {
	backend, err := c.newCache(ctx)
	if err != nil {
		return nil, nil, err
	}
	src := c.newSource(backend)
	job := &bulk.GenerateJob{Source: src, Version: c.version()}

	if o.authors != "" {
		if job.Authors, err = config.LoadAuthors(o.authors); err != nil {
			backend.Close()
			return nil, nil, usage(err)
		}
	}
	if job.Organization, err = c.organization(o.organization); err != nil {
		backend.Close()
		return nil, nil, err
	}
	if o.requirements != "" {
		if job.Requirements, err = readRequirements(o.requirements); err != nil {
			backend.Close()
			return nil, nil, usage(err)
		}
		if o.resolve {
			job.Resolver = c.newRequirementsResolver(backend)
		}
	}
	if o.contributors > 0 {
		job.Contributors = src
		job.ContributorLimit = o.contributors
	}
	return job, func() {
		if nc, ok := backend.(*cache.NullCache); ok && nc.Lookups() > 0 {
			c.Logger.Debug("response cache disabled", "uncached_lookups", nc.Lookups())
		}
		backend.Close()
	}, nil
}

func readRequirements(path string) ([]codemeta.SoftwareRequirement, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "requirements")
	}
	if info.IsDir() {
		return requirements.ParseDir(path)
	}
	return requirements.ParseFile(path)
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		opts   enrichOpts
		output string
	)
	cmd := &cobra.Command{
		Use:   "generate <repository-url>",
		Short: "Generate codemeta.json from a GitHub or GitLab repository",
		Long: `Generate a CodeMeta document from the metadata of a hosted repository.

Only fields backed by repository facts are filled in. Authors, an organization
and software requirements can be merged in from local files.

Examples:
  codemeta generate https://github.com/owner/repo
  codemeta generate https://github.com/owner/repo --authors authors.yaml --organization soda
  codemeta generate https://gitlab.com/group/project --requirements . --resolve -o meta.json`,
		Args: args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), args[0], output, &opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "codemeta.json", `output file ("-" for stdout)`)
	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, repoURL, output string, opts *enrichOpts) error {
	if _, _, _, err := errors.ValidateRepositoryURL(repoURL); err != nil {
		return usage(err)
	}
	job, closeFn, err := c.generateJob(ctx, opts)
	if err != nil {
		return err
	}
	defer closeFn()

	prog := newProgress(loggerFromContext(ctx))
	spin := newSpinner(ctx, "Fetching "+repoURL)
	spin.Start()
	doc, notes, err := job.Build(ctx, repoURL)
	if err != nil {
		spin.StopWithError("%s", errors.UserMessage(err))
		return reported(err)
	}
	spin.Stop()

	report := codemeta.Validate(doc, codemeta.ProfileFor(job.Version))
	if err := writeOutput(output, doc); err != nil {
		return err
	}
	messages := append(report.Messages(), notes...)
	if output == "-" {
		for _, m := range messages {
			loggerFromContext(ctx).Warn(m)
		}
		return nil
	}
	printSuccess("Generated CodeMeta %s document", job.Version)
	printFile(output)
	printMessages(messages)
	prog.done("Generated " + output)
	return nil
}

// writeOutput writes doc to path, or to stdout for "-".
func writeOutput(path string, doc codemeta.Document) error {
	if path == "-" {
		data, err := codemeta.Encode(doc)
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}
	return store.WriteDocument(path, doc)
}
