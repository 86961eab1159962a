package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	EnvAPIBase      = "RAGDESK_API_BASE_URL"
	EnvGlobalBase   = "API_BASE_URL"
	EnvOrigin       = "API_ORIGIN"
	DefaultOrigin   = "http://localhost:8000"
	sameOriginLabel = "(same origin)"
	defaultLogFile  = "ragdesk.log"
)

// Config is resolved once at startup and passed by value into the program.
type Config struct {
	// APIBase is empty when requests should go to the same origin.
	APIBase   string `validate:"omitempty,url"`
	Origin    string `validate:"required,url"`
	Username  string
	Password  string
	Timeout   time.Duration
	Markdown  bool
	AltScreen bool
	LogFile   string
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=json text"`
}

// Flags carries the raw command-line values before resolution.
type Flags struct {
	API       string
	Origin    string
	Username  string
	Password  string
	Timeout   time.Duration
	Markdown  bool
	NoAlt     bool
	LogFile   string
	LogLevel  string
	LogFormat string
}

// LookupFunc reads a named value from the environment.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv merges an optional .env file into the process environment.
// Variables that are already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	existing := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			existing = append(existing, path)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Resolve applies the base precedence: flag, then the environment's global
// value, then same origin.
func Resolve(flags Flags, lookup LookupFunc) Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := Config{
		APIBase:   resolveBase(flags.API, lookup),
		Origin:    firstNonEmpty(flags.Origin, envValue(lookup, EnvOrigin), DefaultOrigin),
		Username:  flags.Username,
		Password:  flags.Password,
		Timeout:   flags.Timeout,
		Markdown:  flags.Markdown,
		AltScreen: !flags.NoAlt,
		LogFile:   flags.LogFile,
		LogLevel:  strings.ToLower(firstNonEmpty(strings.TrimSpace(flags.LogLevel), "info")),
		LogFormat: strings.ToLower(firstNonEmpty(strings.TrimSpace(flags.LogFormat), "json")),
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogPath()
	}
	return cfg
}

func resolveBase(flag string, lookup LookupFunc) string {
	if flag != "" {
		return stripTrailingSlash(flag)
	}
	if env := envValue(lookup, EnvAPIBase); env != "" {
		return stripTrailingSlash(env)
	}
	if env := envValue(lookup, EnvGlobalBase); env != "" {
		return stripTrailingSlash(env)
	}
	return ""
}

func stripTrailingSlash(value string) string {
	return strings.TrimSuffix(value, "/")
}

func envValue(lookup LookupFunc, key string) string {
	value, ok := lookup(key)
	if !ok {
		return ""
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func defaultLogPath() string {
	base, err := os.UserCacheDir()
	if err != nil || strings.TrimSpace(base) == "" {
		return filepath.Join(os.TempDir(), "ragdesk", defaultLogFile)
	}
	return filepath.Join(base, "ragdesk", defaultLogFile)
}

var validate = validator.New()

// Validate checks the resolved values.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Endpoint joins a request path onto the base, or onto the origin when the
// base is empty.
func (c Config) Endpoint(path string) string {
	base := c.APIBase
	if base == "" {
		base = strings.TrimRight(c.Origin, "/")
	}
	return base + path
}

// DisplayBase is what the screens show on their API line.
func (c Config) DisplayBase() string {
	if c.APIBase == "" {
		return sameOriginLabel
	}
	return c.APIBase
}
