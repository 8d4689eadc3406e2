package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/clivetmushipe088/grade-book-app/internal/domain/student"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTest        Environment = "test"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig `toml:"app"`

	// Grade book behaviour
	GradeBook GradeBookConfig `toml:"gradebook"`

	// Terminal output
	Output OutputConfig `toml:"output"`

	// Observability
	Observability ObservabilityConfig `toml:"observability"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string      `toml:"name"`
	Environment Environment `toml:"environment"`
	Version     string      `toml:"version"`
}

// GradeBookConfig holds settings of the in-memory grade book.
type GradeBookConfig struct {
	// GPA policy name: percentage (default) or raw_average
	Policy string `toml:"policy"`

	// Stop a script on the first failing step
	Strict bool `toml:"strict"`
}

// OutputConfig holds terminal rendering settings.
type OutputConfig struct {
	// Disable ANSI styling (also honoured via NO_COLOR)
	NoColor bool `toml:"no_color"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `toml:"log_level"` // debug, info, warn, error, off
	LogFormat string `toml:"log_format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "grade-book",
			Environment: EnvDevelopment,
			Version:     "0.1.0",
		},
		GradeBook: GradeBookConfig{
			Policy: student.PolicyPercentage,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "warn",
			LogFormat: "json",
		},
	}
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	return load(Default())
}

// LoadFile loads configuration from a TOML file and then applies
// environment overrides on top of it. An empty path behaves like Load.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Load()
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	return load(cfg)
}

func load(base *Config) (*Config, error) {
	cfg := &Config{}

	cfg.App = loadAppConfig(base.App)
	cfg.GradeBook = loadGradeBookConfig(base.GradeBook)
	cfg.Output = loadOutputConfig(base.Output)
	cfg.Observability = loadObservabilityConfig(base.Observability)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func loadAppConfig(base AppConfig) AppConfig {
	return AppConfig{
		Name:        getEnv("APP_NAME", base.Name),
		Environment: Environment(getEnv("APP_ENV", string(base.Environment))),
		Version:     getEnv("APP_VERSION", base.Version),
	}
}

func loadGradeBookConfig(base GradeBookConfig) GradeBookConfig {
	return GradeBookConfig{
		Policy: getEnv("GRADEBOOK_GPA_POLICY", base.Policy),
		Strict: getEnvBool("GRADEBOOK_STRICT", base.Strict),
	}
}

func loadOutputConfig(base OutputConfig) OutputConfig {
	noColor := getEnvBool("GRADEBOOK_NO_COLOR", base.NoColor)
	if os.Getenv("NO_COLOR") != "" {
		noColor = true
	}
	return OutputConfig{NoColor: noColor}
}

func loadObservabilityConfig(base ObservabilityConfig) ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:  getEnv("LOG_LEVEL", base.LogLevel),
		LogFormat: getEnv("LOG_FORMAT", base.LogFormat),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	switch c.App.Environment {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		errs = append(errs, fmt.Sprintf("APP_ENV must be one of development, test, production (got %q)", c.App.Environment))
	}

	if _, err := student.PolicyByName(c.GradeBook.Policy); err != nil {
		errs = append(errs, fmt.Sprintf("GRADEBOOK_GPA_POLICY must be one of %s (got %q)",
			strings.Join(student.PolicyNames(), ", "), c.GradeBook.Policy))
	}

	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "off":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be debug, info, warn, error or off (got %q)", c.Observability.LogLevel))
	}

	if c.Observability.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be json (got %q)", c.Observability.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// Policy resolves the configured GPA policy.
func (c *Config) Policy() (student.Policy, error) {
	return student.PolicyByName(c.GradeBook.Policy)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
