package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/codemeta/pkg/buildinfo"
	"github.com/matzehuels/codemeta/pkg/config"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Generate, enhance and validate CodeMeta software metadata",
		Long: `codemeta creates and maintains codemeta.json files: JSON-LD documents that
describe research software (name, authors, license, repository, requirements,
publications) following the CodeMeta 2.0 and 3.0 vocabularies.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.setup(cmd) },
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error { return usage(err) })

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.config, "config", "", "config file (default $XDG_CONFIG_HOME/codemeta/config.toml)")
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&c.flags.quiet, "quiet", "q", false, "only log warnings and errors")
	pf.StringVar(&c.flags.schema, "schema", "", "CodeMeta schema version: 2.0 or 3.0 (default from config, else 3.0)")
	pf.BoolVar(&c.flags.noCache, "no-cache", false, "disable the HTTP response cache")
	pf.BoolVar(&c.flags.refresh, "refresh", false, "bypass cached responses")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.enhanceCommand())
	root.AddCommand(c.bulkCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration, applies global flags over it and installs the
// observability hooks. Flags win over the environment, which wins over the
// config file.
func (c *CLI) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return usage(err)
	}
	cfg, err := config.Load(c.flags.config)
	if err != nil {
		return usage(err)
	}
	if c.flags.schema != "" {
		cfg.Schema = c.flags.schema
	}
	if c.flags.noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	if err := cfg.Validate(); err != nil {
		return usage(err)
	}
	c.Config = cfg

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	switch {
	case c.flags.verbose:
		level = log.DebugLevel
	case c.flags.quiet:
		level = log.WarnLevel
	}
	c.SetLogLevel(level)
	installLogHooks(c.Logger)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}
