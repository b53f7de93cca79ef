package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codemeta/pkg/bulk"
	"github.com/matzehuels/codemeta/pkg/config"
	"github.com/matzehuels/codemeta/pkg/errors"
)

type bulkOpts struct {
	enrichOpts

	reposFile    string
	directory    string
	output       string
	workers      int
	report       string
	requirements string // package -> requirement mapping file
	publications string // project -> publications mapping file
	noComplete   bool
	mongo        bool
	progress     bool
}

// bulkCommand creates the bulk command.
func (c *CLI) bulkCommand() *cobra.Command {
	opts := bulkOpts{progress: true}
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Generate or update many CodeMeta documents at once",
		Long: `Bulk processes many repositories or documents over a bounded worker pool.
A failing item is recorded and never stops the others.

With --repos-file, a document is generated for every repository URL in the
file (one per line, # starts a comment) and saved as codemeta_<repo>.json in
the output directory, or in MongoDB with --mongo.

With --directory, every codemeta*.json below the directory is enhanced in
place (or into --output). --update-requirements and --add-publications apply
mapping files to the discovered documents in place instead.

Examples:
  codemeta bulk --repos-file repos.txt -o metadata/ --authors authors.yaml
  codemeta bulk --directory projects/ --report report.json
  codemeta bulk --directory projects/ --update-requirements packages.yaml
  codemeta bulk --directory projects/ --add-publications papers.yaml`,
		Args: args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBulk(cmd.Context(), &opts)
		},
	}
	f := cmd.Flags()
	opts.enrichOpts.register(cmd)
	f.StringVar(&opts.reposFile, "repos-file", "", "file listing repository URLs")
	f.StringVar(&opts.directory, "directory", "", "directory to search for codemeta*.json files")
	f.StringVarP(&opts.output, "output", "o", "", "output directory (default: . for --repos-file, in place for --directory)")
	f.IntVarP(&opts.workers, "workers", "w", 0, "concurrent workers (default from config, else 4)")
	f.StringVar(&opts.report, "report", "", "write a JSON run report to this file")
	f.StringVar(&opts.requirements, "update-requirements", "", "package to requirement mapping (YAML/JSON) applied to discovered documents")
	f.StringVar(&opts.publications, "add-publications", "", "project to publications mapping (YAML/JSON) applied to discovered documents")
	f.BoolVar(&opts.noComplete, "no-complete", false, "when enhancing, do not fill in missing fields")
	f.BoolVar(&opts.mongo, "mongo", false, "save generated documents to MongoDB (mongo.uri)")
	f.BoolVar(&opts.progress, "progress", opts.progress, "show a live progress view on terminals")
	return cmd
}

func (c *CLI) runBulk(ctx context.Context, opts *bulkOpts) error {
	if (opts.reposFile == "") == (opts.directory == "") {
		return usage(errors.New(errors.ErrCodeInvalidInput, "exactly one of --repos-file or --directory is required"))
	}
	workers := c.Config.Workers
	if opts.workers != 0 {
		workers = opts.workers
	}
	if workers < 1 || workers > config.MaxWorkers {
		return usage(errors.New(errors.ErrCodeInvalidInput, "--workers must be between 1 and %d", config.MaxWorkers))
	}

	var (
		items []bulk.Item
		job   bulk.Job
		title string
	)
	switch {
	case opts.reposFile != "":
		repos, err := bulk.ReadRepoList(opts.reposFile)
		if err != nil {
			return usage(err)
		}
		out := opts.output
		if out == "" {
			out = "."
		}
		st, err := c.newStore(ctx, out, opts.mongo)
		if err != nil {
			return err
		}
		defer st.Close()

		gen, closeFn, err := c.generateJob(ctx, &opts.enrichOpts)
		if err != nil {
			return err
		}
		defer closeFn()
		gen.Store = st
		items, job = bulk.Items(repos), gen
		gen.Conflicts = bulk.OutputConflicts(items)
		title = fmt.Sprintf("Generating %d documents", len(items))

	default:
		files, err := bulk.Discover(opts.directory)
		if err != nil {
			return usage(err)
		}
		if opts.output != "" {
			if err := os.MkdirAll(opts.output, 0o755); err != nil {
				return err
			}
		}
		job, title, err = c.directoryJob(opts)
		if err != nil {
			return err
		}
		items = bulk.Items(files)
		title = fmt.Sprintf("%s %d documents", title, len(items))
	}

	if len(items) == 0 {
		printInfo("Nothing to do")
		return nil
	}

	driver := &bulk.Driver{Workers: workers}
	run := func(ctx context.Context) *bulk.Report { return driver.Run(ctx, items, job) }

	var report *bulk.Report
	if opts.progress && isTerminal(os.Stderr) {
		var err error
		if report, err = runWithProgress(ctx, title, len(items), run); err != nil {
			loggerFromContext(ctx).Warn("progress view failed", "error", err)
		}
	} else {
		report = run(ctx)
	}

	for _, r := range report.Items {
		printResult(r)
	}
	printSummary(report.Summary)

	if opts.report != "" {
		if err := report.Write(opts.report); err != nil {
			return err
		}
		printFile(opts.report)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if report.HasFailures() {
		return reported(fmt.Errorf("%d of %d items failed", report.Summary.Failed, report.Summary.Total))
	}
	return nil
}

// directoryJob picks the job applied to discovered documents.
func (c *CLI) directoryJob(opts *bulkOpts) (bulk.Job, string, error) {
	v := c.version()
	var jobs []bulk.Job
	if opts.requirements != "" {
		packages, err := config.LoadRequirementsMap(opts.requirements)
		if err != nil {
			return nil, "", usage(err)
		}
		jobs = append(jobs, &bulk.RequirementsJob{Version: v, Packages: packages})
	}
	if opts.publications != "" {
		projects, err := config.LoadPublicationsMap(opts.publications)
		if err != nil {
			return nil, "", usage(err)
		}
		jobs = append(jobs, &bulk.PublicationsJob{Version: v, Projects: projects})
	}
	if len(jobs) > 0 {
		return bulk.Chain(jobs...), "Updating", nil
	}

	org, err := c.organization(opts.organization)
	if err != nil {
		return nil, "", err
	}
	return &bulk.EnhanceJob{
		Version:      v,
		Root:         opts.directory,
		OutputDir:    opts.output,
		Complete:     !opts.noComplete,
		Organization: org,
	}, "Enhancing", nil
}
