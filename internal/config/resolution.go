package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "STATSDASH_"

// settingKeys are the yaml names of every layered string/bool setting.
var settingKeys = []string{
	"base_url", "site", "api_key", "shared_link_auth", "period", "date",
	"locale", "currency", "store", "small_modal", "log_level", "log_file",
}

// Flags holds the values of command-line flags. A string flag left empty is
// treated as unset.
type Flags struct {
	ConfigPath     string
	EnvFile        string // defaults to ".env"
	BaseURL        string
	Site           string
	APIKey         string
	SharedLinkAuth string
	Period         string
	Date           string
	Locale         string
	Currency       string
	StorePath      string
	LogLevel       string
	LogFile        string
	SmallModal     bool

	SmallModalSet bool
}

// Load resolves configuration from defaults, the config file, the
// environment and flags, in increasing priority.
func Load(flags Flags) (*Config, error) {
	cfg := Defaults()

	if err := loadFile(cfg, flags.ConfigPath); err != nil {
		return nil, err
	}

	envFile := flags.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		slog.Debug("failed to load .env file", "path", envFile, "error", err)
	}
	applyEnv(cfg)
	applyFlags(cfg, flags)

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	return cfg, nil
}

// setting binds a yaml name to a string field.
type setting struct {
	key string
	dst *string
}

func (c *Config) stringSettings() []setting {
	return []setting{
		{"base_url", &c.BaseURL},
		{"site", &c.Site},
		{"api_key", &c.APIKey},
		{"shared_link_auth", &c.SharedLinkAuth},
		{"period", &c.Period},
		{"date", &c.Date},
		{"locale", &c.Locale},
		{"currency", &c.Currency},
		{"store", &c.StorePath},
		{"log_level", &c.LogLevel},
		{"log_file", &c.LogFile},
	}
}

func mergeFile(cfg, fileCfg *Config) {
	src := fileCfg.stringSettings()
	for i, s := range cfg.stringSettings() {
		if v := *src[i].dst; v != "" {
			*s.dst = v
			cfg.Sources[s.key] = "file"
		}
	}
	if fileCfg.SmallModal {
		cfg.SmallModal = true
		cfg.Sources["small_modal"] = "file"
	}
	if fileCfg.Theme != nil {
		cfg.Theme = fileCfg.Theme
	}
}

func applyEnv(cfg *Config) {
	for _, s := range cfg.stringSettings() {
		if v := getEnvOrDefault(envName(s.key), ""); v != "" {
			*s.dst = v
			cfg.Sources[s.key] = "env"
		}
	}
	if b := getEnvBool(envName("small")); b != nil {
		cfg.SmallModal = *b
		cfg.Sources["small_modal"] = "env"
	}
}

func applyFlags(cfg *Config, flags Flags) {
	values := map[string]string{
		"base_url":         flags.BaseURL,
		"site":             flags.Site,
		"api_key":          flags.APIKey,
		"shared_link_auth": flags.SharedLinkAuth,
		"period":           flags.Period,
		"date":             flags.Date,
		"locale":           flags.Locale,
		"currency":         flags.Currency,
		"store":            flags.StorePath,
		"log_level":        flags.LogLevel,
		"log_file":         flags.LogFile,
	}
	for _, s := range cfg.stringSettings() {
		if v := values[s.key]; v != "" {
			*s.dst = v
			cfg.Sources[s.key] = "cli"
		}
	}
	if flags.SmallModalSet {
		cfg.SmallModal = flags.SmallModal
		cfg.Sources["small_modal"] = "cli"
	}
}

func envName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvBool returns nil when key is unset or not a boolean.
func getEnvBool(key string) *bool {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		slog.Warn("ignoring non-boolean environment value", "key", key, "value", val)
		return nil
	}
	return &b
}

// Describe lists every setting with its source. Secrets are masked.
func (c *Config) Describe() []string {
	lines := make([]string, 0, len(settingKeys)+1)
	for _, s := range c.stringSettings() {
		v := *s.dst
		if (s.key == "api_key" || s.key == "shared_link_auth") && v != "" {
			v = "****"
		}
		lines = append(lines, fmt.Sprintf("%s=%s (%s)", s.key, v, c.Sources[s.key]))
	}
	lines = append(lines, fmt.Sprintf("small_modal=%t (%s)", c.SmallModal, c.Sources["small_modal"]))
	return lines
}
