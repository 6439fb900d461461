package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/Masterminds/semver/v3"
	"github.com/adrg/xdg"
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"github.com/viletech/doomfront/internal/green"
	"github.com/viletech/doomfront/internal/parse"
	"github.com/viletech/doomfront/internal/zdoom"
)

const (
	APP_NAME = "doomfront"

	CONFIG_FILE_NAME    = "config.yaml"
	CONFIG_FILE_RELPATH = APP_NAME + "/" + CONFIG_FILE_NAME

	DEFAULT_LOG_LEVEL = "warn"
)

var (
	ErrNoConfigFile = errors.New("no configuration file found")
)

type CachePolicy string

const (
	NoCache     CachePolicy = "none"
	LocalCache  CachePolicy = "local"
	SharedCache CachePolicy = "shared"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config is the configuration of the command line tool. The zero value of a
// field read from a file means "use the default".
type Config struct {
	Fuel                int         `yaml:"fuel" json:"fuel"`
	Cache               CachePolicy `yaml:"cache" json:"cache"`
	MaxInternedChildren int         `yaml:"max_interned_children" json:"maxInternedChildren"`
	Jobs                int         `yaml:"jobs" json:"jobs"`
	LogLevel            string      `yaml:"log_level" json:"logLevel"`
	KeepDocComments     bool        `yaml:"keep_doc_comments" json:"keepDocComments"`
	ZScriptVersion      string      `yaml:"zscript_version,omitempty" json:"zscriptVersion,omitempty"`
	Color               ColorMode   `yaml:"color" json:"color"`

	// path of the file the configuration was loaded from, empty for the default configuration.
	Path string `yaml:"-" json:"-"`
}

func Default() Config {
	return Config{
		Fuel:                parse.DEFAULT_FUEL,
		Cache:               SharedCache,
		MaxInternedChildren: green.DEFAULT_MAX_INTERNED_CHILDREN,
		Jobs:                runtime.NumCPU(),
		LogLevel:            DEFAULT_LOG_LEVEL,
		Color:               ColorAuto,
	}
}

// Find searches for the configuration file in the XDG configuration directories.
func Find() (string, error) {
	path, err := xdg.SearchConfigFile(CONFIG_FILE_RELPATH)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoConfigFile, err)
	}
	return path, nil
}

// Load reads the configuration file at path. If path is empty the file is
// searched with Find, the default configuration is returned if there is none.
func Load(path string) (Config, error) {
	if path == "" {
		found, err := Find()
		if err != nil {
			return Default(), nil
		}
		path = found
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read the configuration file: %w", err)
	}

	config, err := Parse(content)
	if err != nil {
		return Config{}, fmt.Errorf("invalid configuration file %s: %w", path, err)
	}
	config.Path = path
	return config, nil
}

// Parse decodes a YAML configuration, missing fields are set to their default value.
func Parse(content []byte) (Config, error) {
	config := Default()

	if err := yaml.UnmarshalWithOptions(content, &config, yaml.DisallowUnknownField()); err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Fuel <= 0 {
		errs = append(errs, fmt.Errorf("fuel should be positive, got %d", c.Fuel))
	}

	switch c.Cache {
	case NoCache, LocalCache, SharedCache:
	default:
		errs = append(errs, fmt.Errorf("cache should be one of none, local, shared; got %q", c.Cache))
	}

	if c.MaxInternedChildren <= 0 {
		errs = append(errs, fmt.Errorf("max_interned_children should be positive, got %d", c.MaxInternedChildren))
	}

	if c.Jobs <= 0 {
		errs = append(errs, fmt.Errorf("jobs should be positive, got %d", c.Jobs))
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log_level: %w", err))
	}

	if c.ZScriptVersion != "" {
		if _, err := semver.NewVersion(c.ZScriptVersion); err != nil {
			errs = append(errs, fmt.Errorf("invalid zscript_version %q: %w", c.ZScriptVersion, err))
		}
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("color should be one of auto, always, never; got %q", c.Color))
	}

	return errors.Join(errs...)
}

func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.WarnLevel
	}
	return level
}

// LexerOptions returns the options of the (G)ZDoom lexer, the version is nil if not set.
func (c Config) LexerOptions() zdoom.Options {
	opts := zdoom.Options{DocComments: c.KeepDocComments}
	if c.ZScriptVersion != "" {
		if version, err := semver.NewVersion(c.ZScriptVersion); err == nil {
			opts.Version = version
		}
	}
	return opts
}

func (c Config) ParserOptions(logger *zerolog.Logger) parse.ParserOptions {
	return parse.ParserOptions{
		Fuel:   c.Fuel,
		Logger: logger,
	}
}

// NewGreenCache creates a cache according to the cache policy. A local cache
// should not be shared between goroutines.
func (c Config) NewGreenCache() green.Cache {
	opts := green.CacheOptions{MaxInternedChildren: c.MaxInternedChildren}

	switch c.Cache {
	case NoCache:
		return green.NoopCache{}
	case LocalCache:
		return green.NewLocalCache(opts)
	default:
		return green.NewSharedCache(opts)
	}
}

// ShouldColorize tells whether the output should contain ANSI escape sequences.
func (c Config) ShouldColorize(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if NO_COLOR {
		return false
	}
	return FORCE_COLOR || (isTerminal && SHOULD_COLORIZE)
}
