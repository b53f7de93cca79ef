// Package config loads toolkit settings.
//
// Settings come from, in increasing precedence: built-in defaults, a TOML
// file, environment variables (a .env file is honoured), and command-line
// flags applied by the caller. The data files passed to individual commands
// (authors, organizations, requirement and publication mappings) are read
// by the loaders in data.go.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/errors"
)

const appName = "codemeta"

// MaxWorkers bounds the bulk pool size.
const MaxWorkers = 64

// Cache backends.
const (
	CacheFile   = "file"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

var (
	cacheBackends = []string{CacheFile, CacheMemory, CacheRedis, CacheNone}
	logLevels     = []string{"debug", "info", "warn", "error"}
)

// Duration is a time.Duration read from strings like "24h".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Config holds all settings.
type Config struct {
	Schema   string `toml:"schema"`
	Workers  int    `toml:"workers"`
	LogLevel string `toml:"log_level"`

	Cache  CacheConfig  `toml:"cache"`
	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
	GitHub GitHubConfig `toml:"github"`
	GitLab GitLabConfig `toml:"gitlab"`
	Server ServerConfig `toml:"server"`

	// Organizations are extra presets for --organization, by key.
	Organizations map[string]codemeta.Organization `toml:"organizations"`
}

type CacheConfig struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

type GitHubConfig struct {
	Token string `toml:"token"`
}

type GitLabConfig struct {
	Token string   `toml:"token"`
	Hosts []string `toml:"hosts"` // Self-managed instances
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Schema:   string(codemeta.V3),
		Workers:  4,
		LogLevel: "info",
		Cache:    CacheConfig{Backend: CacheFile, TTL: Duration{24 * time.Hour}},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Mongo:    MongoConfig{Database: appName},
		Server:   ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/codemeta/config.toml, falling back
// to ~/.config.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// DefaultCacheDir returns $XDG_CACHE_HOME/codemeta, falling back to
// ~/.cache/codemeta.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// LoadDotEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrap(errors.ErrCodeConfig, err, "load %s", p)
		}
	}
	return nil
}

// Load reads the TOML file at path over the defaults and applies the
// environment. An empty path means DefaultPath, which may be absent; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		err := cfg.readFile(path)
		switch {
		case err == nil:
		case os.IsNotExist(err) && !explicit:
		case os.IsNotExist(err):
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file")
		default:
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides settings from environment variables read with lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("GITHUB_TOKEN", &c.GitHub.Token)
	str("GITLAB_TOKEN", &c.GitLab.Token)
	str("CODEMETA_SCHEMA", &c.Schema)
	str("CODEMETA_CACHE", &c.Cache.Backend)
	str("CODEMETA_CACHE_DIR", &c.Cache.Dir)
	str("CODEMETA_REDIS_ADDR", &c.Redis.Addr)
	str("CODEMETA_MONGO_URI", &c.Mongo.URI)
	str("CODEMETA_LOG_LEVEL", &c.LogLevel)
	str("CODEMETA_ADDR", &c.Server.Addr)

	if v, ok := lookup("CODEMETA_WORKERS"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(errors.ErrCodeConfig, err, "CODEMETA_WORKERS")
		}
		c.Workers = n
	}
	if v, ok := lookup("CODEMETA_CACHE_TTL"); ok && strings.TrimSpace(v) != "" {
		if err := c.Cache.TTL.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			return errors.Wrap(errors.ErrCodeConfig, err, "CODEMETA_CACHE_TTL")
		}
	}
	return nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := codemeta.ParseVersion(c.Schema); err != nil {
		return err
	}
	if c.Workers < 1 || c.Workers > MaxWorkers {
		return errors.New(errors.ErrCodeConfig, "workers must be between 1 and %d, got %d", MaxWorkers, c.Workers)
	}
	if !slices.Contains(cacheBackends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeConfig, "cache backend must be one of %s, got %q", strings.Join(cacheBackends, ", "), c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeConfig, "cache ttl cannot be negative")
	}
	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		return errors.New(errors.ErrCodeConfig, "log level must be one of %s, got %q", strings.Join(logLevels, ", "), c.LogLevel)
	}
	return nil
}

// Version returns the configured schema version. Call after Validate.
func (c *Config) Version() codemeta.Version {
	v, _ := codemeta.ParseVersion(c.Schema)
	return v
}

// String renders the settings as TOML with secrets masked.
func (c *Config) String() string {
	masked := *c
	masked.GitHub.Token = mask(c.GitHub.Token)
	masked.GitLab.Token = mask(c.GitLab.Token)
	masked.Redis.Password = mask(c.Redis.Password)
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(masked); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}
