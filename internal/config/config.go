// Package config handles repository configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/matsen/papernet/internal/arxiv"
	"github.com/matsen/papernet/internal/citation"
	"github.com/matsen/papernet/internal/httpapi"
	"github.com/matsen/papernet/internal/s2"
)

const (
	PapernetDir  = ".papernet"
	ConfigFile   = "config.yml"
	CacheDir     = "cache"
	DBFile       = "papernet.db"
	EnvFile      = ".env"
	PapersFile   = "papers.csv"
	SnapshotFile = "citations.json"

	// DefaultKeyword is the arXiv search term used when none is configured.
	DefaultKeyword = "PyTorch"

	// RetriesOff as max_retries disables HTTP retries. Zero selects the default.
	RetriesOff = -1
)

// Valid log settings.
var (
	ValidLogLevels  = []string{"trace", "debug", "info", "warn", "error"}
	ValidLogFormats = []string{"console", "json"}
)

// Config represents repository configuration stored in .papernet/config.yml.
type Config struct {
	PapersFile   string      `yaml:"papers_file"`
	SnapshotFile string      `yaml:"snapshot_file"`
	UserAgent    string      `yaml:"user_agent"`
	MaxRetries   int         `yaml:"max_retries"`
	Arxiv        ArxivConfig `yaml:"arxiv"`
	S2           S2Config    `yaml:"s2"`
	Log          LogConfig   `yaml:"log"`
}

// ArxivConfig holds arXiv fetch settings.
type ArxivConfig struct {
	BaseURL    string  `yaml:"base_url"`
	Keyword    string  `yaml:"keyword"`
	MaxResults int     `yaml:"max_results"`
	RateLimit  float64 `yaml:"rate_limit"`
}

// S2Config holds Semantic Scholar settings.
type S2Config struct {
	BaseURL   string  `yaml:"base_url"`
	APIKey    string  `yaml:"api_key,omitempty"`
	RateLimit float64 `yaml:"rate_limit"`
	Depth     int     `yaml:"depth"`
	PageSize  int     `yaml:"page_size"`
	MaxPages  int     `yaml:"max_pages"`
	Filter    string  `yaml:"filter"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.PapersFile == "" {
		c.PapersFile = PapersFile
	}
	if c.SnapshotFile == "" {
		c.SnapshotFile = SnapshotFile
	}
	if c.UserAgent == "" {
		c.UserAgent = httpapi.DefaultUserAgent
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = httpapi.DefaultMaxRetries
	}

	if c.Arxiv.BaseURL == "" {
		c.Arxiv.BaseURL = arxiv.DefaultBaseURL
	}
	if c.Arxiv.Keyword == "" {
		c.Arxiv.Keyword = DefaultKeyword
	}
	if c.Arxiv.MaxResults == 0 {
		c.Arxiv.MaxResults = arxiv.DefaultMaxResults
	}
	if c.Arxiv.RateLimit == 0 {
		c.Arxiv.RateLimit = arxiv.DefaultRateLimit
	}

	if c.S2.BaseURL == "" {
		c.S2.BaseURL = s2.DefaultBaseURL
	}
	if c.S2.RateLimit == 0 {
		c.S2.RateLimit = s2.DefaultRateLimit
	}
	if c.S2.Depth == 0 {
		c.S2.Depth = citation.DefaultDepth
	}
	if c.S2.PageSize == 0 {
		c.S2.PageSize = citation.DefaultPageSize
	}
	if c.S2.MaxPages == 0 {
		c.S2.MaxPages = citation.DefaultMaxPages
	}
	if c.S2.Filter == "" {
		c.S2.Filter = string(citation.FilterRoot)
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.MaxRetries < RetriesOff {
		errs = append(errs, fmt.Errorf("max_retries must be %d (off) or more: %d", RetriesOff, c.MaxRetries))
	}
	if c.Arxiv.MaxResults < 0 {
		errs = append(errs, fmt.Errorf("arxiv.max_results must not be negative: %d", c.Arxiv.MaxResults))
	}
	if c.Arxiv.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("arxiv.rate_limit must not be negative: %g", c.Arxiv.RateLimit))
	}
	if c.S2.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("s2.rate_limit must not be negative: %g", c.S2.RateLimit))
	}
	if c.S2.Depth < 0 {
		errs = append(errs, fmt.Errorf("s2.depth must not be negative: %d", c.S2.Depth))
	}
	if c.S2.PageSize < 0 {
		errs = append(errs, fmt.Errorf("s2.page_size must not be negative: %d", c.S2.PageSize))
	}
	if c.S2.MaxPages < 0 {
		errs = append(errs, fmt.Errorf("s2.max_pages must not be negative: %d", c.S2.MaxPages))
	}
	if _, err := citation.ParseFilterPolicy(c.S2.Filter); err != nil {
		errs = append(errs, fmt.Errorf("s2.filter: %w", err))
	}
	if err := validateOneOf("log.level", c.Log.Level, ValidLogLevels); err != nil {
		errs = append(errs, err)
	}
	if err := validateOneOf("log.format", c.Log.Format, ValidLogFormats); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Retries returns the number of HTTP retries to attempt.
func (c *Config) Retries() int {
	switch {
	case c.MaxRetries == RetriesOff:
		return 0
	case c.MaxRetries == 0:
		return httpapi.DefaultMaxRetries
	default:
		return c.MaxRetries
	}
}

func validateOneOf(key, value string, valid []string) error {
	if value == "" {
		return nil
	}
	for _, v := range valid {
		if value == v {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: %s (valid: %v)", key, value, valid)
}

// PapernetPath returns the path to the .papernet directory from a root path.
func PapernetPath(root string) string {
	return filepath.Join(root, PapernetDir)
}

// ConfigPath returns the path to config.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, PapernetDir, ConfigFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, PapernetDir, CacheDir)
}

// DBPath returns the path to papernet.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, PapernetDir, CacheDir, DBFile)
}

// PapersPath returns the papers CSV location. Relative paths resolve
// against the repository root.
func (c *Config) PapersPath(root string) string {
	return resolve(root, c.PapersFile, PapersFile)
}

// SnapshotPath returns the citation snapshot location. Relative paths
// resolve against the repository root.
func (c *Config) SnapshotPath(root string) string {
	return resolve(root, c.SnapshotFile, SnapshotFile)
}

func resolve(root, path, fallback string) string {
	if path == "" {
		path = fallback
	}
	path = ExpandPath(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// IsRepository checks if the given path contains a papernet repository.
func IsRepository(root string) bool {
	info, err := os.Stat(PapernetPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a papernet repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a papernet repository (no .papernet directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
// A missing config file yields the defaults.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Init creates the .papernet directory layout and a default config file.
func Init(root string) error {
	if IsRepository(root) {
		return fmt.Errorf("papernet repository already exists at %s", root)
	}
	if err := os.MkdirAll(CachePath(root), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", PapernetDir, err)
	}
	return Default().Save(root)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
