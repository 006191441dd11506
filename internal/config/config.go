package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/statsdash/pkg/query"
	"github.com/dkoosis/statsdash/pkg/theme"
)

// FileName is the config file looked up in the working directory and in
// <UserConfigDir>/statsdash.
const FileName = ".statsdash.yaml"

// Defaults.
const (
	DefaultBaseURL  = "https://plausible.io"
	DefaultPeriod   = query.Period30d
	DefaultLocale   = "pt-BR"
	DefaultCurrency = "BRL"
	DefaultLogLevel = "info"
	DefaultLogFile  = "logs/statsdash.log"
)

// Config is the resolved statsdash configuration.
type Config struct {
	BaseURL        string       `yaml:"base_url"`
	Site           string       `yaml:"site"`
	APIKey         string       `yaml:"api_key"`
	SharedLinkAuth string       `yaml:"shared_link_auth"`
	Period         string       `yaml:"period"`
	Date           string       `yaml:"date"`
	Locale         string       `yaml:"locale"`
	Currency       string       `yaml:"currency"`
	StorePath      string       `yaml:"store"` // "" means storage.DefaultPath, ":memory:" means no persistence
	SmallModal     bool         `yaml:"small_modal"`
	LogLevel       string       `yaml:"log_level"`
	LogFile        string       `yaml:"log_file"`
	Theme          *theme.Theme `yaml:"theme"`

	// Path of the config file that was read, "" when none.
	Path string `yaml:"-"`
	// Sources records where each setting came from: "cli", "env", "file" or
	// "default". Keyed by yaml name.
	Sources map[string]string `yaml:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	cfg := &Config{
		BaseURL:  DefaultBaseURL,
		Period:   DefaultPeriod,
		Locale:   DefaultLocale,
		Currency: DefaultCurrency,
		LogLevel: DefaultLogLevel,
		LogFile:  DefaultLogFile,
		Sources:  map[string]string{},
	}
	for _, k := range settingKeys {
		cfg.Sources[k] = "default"
	}
	return cfg
}

// Validate reports settings no report can run without.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Site) == "" {
		errs = append(errs, errors.New("site is required (--site or STATSDASH_SITE)"))
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("base_url must be an http(s) URL, got %q", c.BaseURL))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log_level %q (must be: debug, info, warn, error)", c.LogLevel))
	}
	return errors.Join(errs...)
}

// Query builds the dashboard query the configuration describes.
func (c *Config) Query(filters query.Filters) query.Query {
	return query.Query{Period: c.Period, Date: c.Date, Filters: filters}
}

// findConfigPath looks for the config file in the current dir, then in the
// user config dir.
func findConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	userPath := filepath.Join(configDir, "statsdash", FileName)
	if _, err := os.Stat(userPath); err == nil {
		return userPath
	}
	return ""
}

// readFile parses a config file. Only fields present in the file are set
// on the returned Config.
func readFile(path string) (*Config, error) {
	// #nosec G304 -- path comes from --config or findConfigPath
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fileCfg, nil
}

// loadFile layers the config file onto cfg. An explicit path must be
// readable; a discovered one only warns.
func loadFile(cfg *Config, explicit string) error {
	path := explicit
	if path == "" {
		path = findConfigPath()
	}
	if path == "" {
		slog.Debug("no config file found, using defaults")
		return nil
	}

	fileCfg, err := readFile(path)
	if err != nil {
		if explicit != "" {
			return err
		}
		slog.Warn("ignoring config file", "path", path, "error", err)
		return nil
	}
	cfg.Path = path
	mergeFile(cfg, fileCfg)
	return nil
}
