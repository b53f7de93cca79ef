// Package cli implements the codemeta command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/codemeta/pkg/cache"
	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/config"
	"github.com/matzehuels/codemeta/pkg/errors"
	"github.com/matzehuels/codemeta/pkg/requirements"
	"github.com/matzehuels/codemeta/pkg/source"
	"github.com/matzehuels/codemeta/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "codemeta"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Exit statuses.
const (
	ExitOK          = 0
	ExitItemErrors  = 1 // At least one item failed
	ExitUsage       = 2 // Bad flags, arguments or configuration
	ExitInterrupted = 130
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	flags globalFlags
}

type globalFlags struct {
	config  string
	verbose bool
	quiet   bool
	schema  string
	noCache bool
	refresh bool
}

// New creates a new CLI instance with a default logger. Config is loaded
// when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Exit Codes
// =============================================================================

// exitError carries an exit status for failures that were already reported
// to the user.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// reported wraps err, which has been shown to the user, as an item failure.
func reported(err error) error {
	return &exitError{code: ExitItemErrors, err: err}
}

// usageError marks err as caused by bad input from the command line.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usage(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err}
}

// args wraps a positional argument validator so its errors count as usage
// errors.
func args(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		return usage(fn(cmd, a))
	}
}

// ExitCode maps an error returned by the root command to a process status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if stderrors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	var ee *exitError
	if stderrors.As(err, &ee) {
		return ee.code
	}
	var ue *usageError
	if stderrors.As(err, &ue) {
		return ExitUsage
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeUnsupportedVersion, errors.ErrCodeConfig, errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidURL, errors.ErrCodeFileNotFound:
		return ExitUsage
	}
	return ExitItemErrors
}

// Reported reports whether err was already shown to the user.
func Reported(err error) bool {
	var ee *exitError
	return stderrors.As(err, &ee)
}

// =============================================================================
// Factories
// =============================================================================

// version returns the schema version chosen by --schema or configuration.
func (c *CLI) version() codemeta.Version {
	return c.Config.Version()
}

// newCache opens the configured response cache.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheMemory:
		return cache.NewMemoryCache(0)
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Config.Redis.Addr,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfig, err, "connect to redis at %s", c.Config.Redis.Addr)
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the file cache directory from configuration, or the XDG
// default (~/.cache/codemeta/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config != nil && c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}

// newSource builds the repository host resolver.
func (c *CLI) newSource(backend cache.Cache) *source.Resolver {
	return source.NewResolver(source.Options{
		Cache:       backend,
		TTL:         c.Config.Cache.TTL.Duration,
		GitHubToken: c.Config.GitHub.Token,
		GitLabToken: c.Config.GitLab.Token,
		GitLabHosts: c.Config.GitLab.Hosts,
		Refresh:     c.flags.refresh,
	})
}

// newRequirementsResolver builds the package registry resolver.
func (c *CLI) newRequirementsResolver(backend cache.Cache) *requirements.Resolver {
	r := requirements.NewResolver(backend, c.Config.Cache.TTL.Duration, c.flags.refresh)
	r.SetWorkers(c.Config.Workers)
	return r
}

// newStore opens the document store: MongoDB when useMongo is set, else
// JSON files under dir.
func (c *CLI) newStore(ctx context.Context, dir string, useMongo bool) (store.Store, error) {
	if !useMongo {
		return store.NewFileStore(dir)
	}
	if c.Config.Mongo.URI == "" {
		return nil, usage(errors.New(errors.ErrCodeConfig, "mongo store requested but no mongo.uri or CODEMETA_MONGO_URI configured"))
	}
	return store.NewMongoStore(ctx, c.Config.Mongo.URI, c.Config.Mongo.Database)
}

// organization resolves --organization: a preset key (built in or from the
// config file) or the path of an organization file.
func (c *CLI) organization(value string) (*codemeta.Organization, error) {
	if value == "" {
		return nil, nil
	}
	if org, ok := codemeta.OrganizationPreset(value, c.Config.Organizations); ok {
		return &org, nil
	}
	if _, err := os.Stat(value); err == nil {
		org, err := config.LoadOrganization(value)
		if err != nil {
			return nil, err
		}
		return &org, nil
	}
	return nil, usage(errors.New(errors.ErrCodeInvalidInput, "unknown organization %q (presets: %v)",
		value, codemeta.OrganizationPresetNames(c.Config.Organizations)))
}
