// Package config loads statsdash settings.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--site, --base-url, --period, ...)
//  2. Environment variables (STATSDASH_SITE, STATSDASH_BASE_URL, ...), including
//     those loaded from a .env file in the working directory
//  3. YAML config file (.statsdash.yaml in the local directory or
//     <UserConfigDir>/statsdash/.statsdash.yaml)
//  4. Hardcoded defaults
//
// A missing or unreadable config file falls back to defaults with a warning.
// Only a file named explicitly with --config is an error when it cannot be read.
//
// # Environment Variables
//
//   - STATSDASH_BASE_URL, STATSDASH_SITE, STATSDASH_API_KEY,
//     STATSDASH_SHARED_LINK_AUTH
//   - STATSDASH_PERIOD, STATSDASH_DATE
//   - STATSDASH_LOCALE, STATSDASH_CURRENCY
//   - STATSDASH_STORE, STATSDASH_SMALL
//   - STATSDASH_LOG_LEVEL, STATSDASH_LOG_FILE
package config
