package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wizardswiffle/clubsite/internal/fileutil"
	"github.com/wizardswiffle/clubsite/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound     = errors.New("config file not found")
	ErrEmptyConfigName    = errors.New("config name cannot be empty")
	ErrConfigParse        = errors.New("failed to parse config")
	ErrFieldTooLong       = errors.New("field exceeds maximum length")
	ErrDuplicateContainer = errors.New("container listed more than once")
	ErrMissingField       = errors.New("required field missing")
	ErrInvalidStrategy    = errors.New("invalid loader strategy")
	ErrInvalidPort        = errors.New("invalid port")
	ErrInvalidWorkers     = errors.New("invalid worker count")
	ErrConflictingSource  = errors.New("site.root and site.baseURL are mutually exclusive")
)

// Field length limits.
const (
	MaxPathLength      = 1024
	MaxURLLength       = 2048 // Browser limit
	MaxHostLength      = 253  // RFC 1035
	MaxIDLength        = 100
	MaxClassLength     = 100
	MaxValueLength     = 2000
	MaxSeparatorLength = 20
	MaxWorkers         = 32
	MaxPort            = 65535
)

// Defaults applied by DefaultConfig.
const (
	DefaultHost     = "0.0.0.0"
	DefaultPort     = 3000
	DefaultPage     = "index.html"
	DefaultStrategy = "concurrent"
	DefaultEvents   = "data/events.json"
	DefaultDataRoot = "nextGame"
)

// Config holds all configuration for assembling and serving the site.
type Config struct {
	Site      SiteConfig       `yaml:"site"`
	Server    ServerConfig     `yaml:"server"`
	Loader    LoaderConfig     `yaml:"loader"`
	Fragments []FragmentConfig `yaml:"fragments"`
	Data      DataConfig       `yaml:"data"`
}

// SiteConfig defines where the site's files come from.
type SiteConfig struct {
	Root    string `yaml:"root"`    // Directory; empty = embedded default site
	BaseURL string `yaml:"baseURL"` // HTTP origin, exclusive with Root
	Page    string `yaml:"page"`    // Host page (default: "index.html")
}

// ServerConfig defines the static server's listen address.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LoaderConfig defines how fragments are retrieved and transformed.
type LoaderConfig struct {
	Strategy string `yaml:"strategy"` // "concurrent" or "sequential"
	Workers  int    `yaml:"workers"`  // 0 = one per fragment
	Markdown bool   `yaml:"markdown"` // Convert .md fragments
	Sanitize bool   `yaml:"sanitize"`
}

// FragmentConfig maps a container to its fragment. Values, when present,
// are substituted into the fragment's placeholders.
type FragmentConfig struct {
	ID     string            `yaml:"id"`
	Path   string            `yaml:"path"`
	Values map[string]string `yaml:"values"`
}

// DataConfig defines data binding.
type DataConfig struct {
	Disabled bool            `yaml:"disabled"`
	Events   string          `yaml:"events"`
	Root     string          `yaml:"root"`
	Bindings []BindingConfig `yaml:"bindings"` // Empty = next-game defaults
	Extra    []string        `yaml:"extra"`    // Loaded and validated, not bound
}

// BindingConfig writes the values at Fields into elements with Class.
type BindingConfig struct {
	Class     string   `yaml:"class"`
	Fields    []string `yaml:"fields"`
	Separator string   `yaml:"separator"`
}

// Validate checks lengths, ranges and manifest consistency. Called by
// LoadConfig; also usable on a Config built in code.
func (c *Config) Validate() error {
	if err := c.validateSite(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLoader(); err != nil {
		return err
	}
	if err := c.validateFragments(); err != nil {
		return err
	}
	return c.validateData()
}

func (c *Config) validateSite() error {
	if err := validateFieldLength("site.root", c.Site.Root, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("site.baseURL", c.Site.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("site.page", c.Site.Page, MaxPathLength); err != nil {
		return err
	}
	if c.Site.Root != "" && c.Site.BaseURL != "" {
		return ErrConflictingSource
	}
	return nil
}

func (c *Config) validateServer() error {
	if err := validateFieldLength("server.host", c.Server.Host, MaxHostLength); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > MaxPort {
		return fmt.Errorf("%w: server.port %d (must be between 1 and %d)", ErrInvalidPort, c.Server.Port, MaxPort)
	}
	return nil
}

func (c *Config) validateLoader() error {
	switch strings.ToLower(c.Loader.Strategy) {
	case "", "concurrent", "sequential":
	default:
		return fmt.Errorf("%w: loader.strategy %q (must be concurrent or sequential)", ErrInvalidStrategy, c.Loader.Strategy)
	}
	if c.Loader.Workers < 0 || c.Loader.Workers > MaxWorkers {
		return fmt.Errorf("%w: loader.workers %d (must be between 0 and %d)", ErrInvalidWorkers, c.Loader.Workers, MaxWorkers)
	}
	return nil
}

func (c *Config) validateFragments() error {
	seen := make(map[string]int, len(c.Fragments))
	for i, f := range c.Fragments {
		field := fmt.Sprintf("fragments[%d]", i)
		if f.ID == "" {
			return fmt.Errorf("%w: %s.id", ErrMissingField, field)
		}
		if f.Path == "" {
			return fmt.Errorf("%w: %s.path", ErrMissingField, field)
		}
		if err := validateFieldLength(field+".id", f.ID, MaxIDLength); err != nil {
			return err
		}
		if err := validateFieldLength(field+".path", f.Path, MaxPathLength); err != nil {
			return err
		}
		for k, v := range f.Values {
			if err := validateFieldLength(fmt.Sprintf("%s.values.%s", field, k), v, MaxValueLength); err != nil {
				return err
			}
		}
		if prev, dup := seen[f.ID]; dup {
			return fmt.Errorf("%w: %q in fragments[%d] and fragments[%d]", ErrDuplicateContainer, f.ID, prev, i)
		}
		seen[f.ID] = i
	}
	return nil
}

func (c *Config) validateData() error {
	if err := validateFieldLength("data.events", c.Data.Events, MaxPathLength); err != nil {
		return err
	}
	for i, p := range c.Data.Extra {
		if err := validateFieldLength(fmt.Sprintf("data.extra[%d]", i), p, MaxPathLength); err != nil {
			return err
		}
	}
	for i, b := range c.Data.Bindings {
		field := fmt.Sprintf("data.bindings[%d]", i)
		if b.Class == "" {
			return fmt.Errorf("%w: %s.class", ErrMissingField, field)
		}
		if len(b.Fields) == 0 {
			return fmt.Errorf("%w: %s.fields", ErrMissingField, field)
		}
		if err := validateFieldLength(field+".class", b.Class, MaxClassLength); err != nil {
			return err
		}
		if err := validateFieldLength(field+".separator", b.Separator, MaxSeparatorLength); err != nil {
			return err
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig serves the embedded site on port 3000 with the concurrent
// loader, the default manifest and the next-game bindings.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset field with its default. A data root of
// "@this" binds against the whole events document.
func (c *Config) ApplyDefaults() {
	if c.Site.Page == "" {
		c.Site.Page = DefaultPage
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Loader.Strategy == "" {
		c.Loader.Strategy = DefaultStrategy
	}
	if c.Data.Events == "" {
		c.Data.Events = DefaultEvents
	}
	if c.Data.Root == "" {
		c.Data.Root = DefaultDataRoot
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
//
// Values absent from the file take their default.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.Decode(configPath, data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}

// Marshal renders cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yamlutil.Encode(c)
}

// SearchPaths lists, in order, the files LoadConfig tries for a config
// name: ./name.yaml, ./name.yml, then the same under <user config dir>/clubsite/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "clubsite", name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
