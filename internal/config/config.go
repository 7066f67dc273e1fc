// =============================================================================
// CSV Consolidator - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// CONFIGURATION FILE:
//   consolidator.yaml in the base directory. The file is optional: when it
//   does not exist every setting takes its default value, which reproduces
//   the fixed layout the tool has always used:
//
//     data/unprocessed/  (put your CSV files here)
//     data/processed/    (consolidated files go here)
//
// EXAMPLE:
//   input_dir: data/unprocessed
//   output_dir: data/processed
//   header_marker: "ID,Timestamp,Transaction Type"
//   date_column_keywords: [date, timestamp, created_at, datetime, time]
//   log_level: info
//   xlsx_companion: false
//   skip_invalid_files: false
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the optional configuration file.
const FileName = "consolidator.yaml"

// DefaultHeaderMarker is the literal text that identifies the real header
// row of an export.
const DefaultHeaderMarker = "ID,Timestamp,Transaction Type"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for files to consolidate.
	// Relative paths are resolved against the base directory.
	// Default: "data/unprocessed"
	InputDir string `yaml:"input_dir" validate:"required"`

	// OutputDir receives the consolidated file.
	// Default: "data/processed"
	OutputDir string `yaml:"output_dir" validate:"required"`

	// FilePattern selects candidate files inside InputDir (non-recursive).
	// Default: "*.csv"
	FilePattern string `yaml:"file_pattern" validate:"glob"`

	// =========================================================================
	// PARSING SETTINGS
	// =========================================================================

	// HeaderMarker is the substring that identifies the true header line.
	// Every line before it is treated as preamble.
	// Default: "ID,Timestamp,Transaction Type"
	HeaderMarker string `yaml:"header_marker" validate:"notblank"`

	// DateColumnKeywords are matched case-insensitively against column
	// names, in order, to find date-like columns for output naming.
	// Default: date, timestamp, created_at, datetime, time
	DateColumnKeywords []string `yaml:"date_column_keywords" validate:"dive,notblank"`

	// SkipInvalidFiles makes the header-collection pass skip files that
	// cannot be parsed instead of aborting the run.
	// Default: false
	SkipInvalidFiles bool `yaml:"skip_invalid_files"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// XLSXCompanion also writes the consolidated table as an .xlsx workbook
	// next to the CSV output.
	// Default: false
	XLSXCompanion bool `yaml:"xlsx_companion"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level" validate:"loglevel"`
}

// DefaultDateColumnKeywords returns the default date-column keywords.
func DefaultDateColumnKeywords() []string {
	return []string{"date", "timestamp", "created_at", "datetime", "time"}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the Config struct. A missing file yields the defaults.
//   - An error if the file exists but cannot be read, parsed or validated.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.InputDir == "" {
		cfg.InputDir = filepath.Join("data", "unprocessed")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join("data", "processed")
	}
	if cfg.FilePattern == "" {
		cfg.FilePattern = "*.csv"
	}
	if cfg.HeaderMarker == "" {
		cfg.HeaderMarker = DefaultHeaderMarker
	}
	if len(cfg.DateColumnKeywords) == 0 {
		cfg.DateColumnKeywords = DefaultDateColumnKeywords()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// validate checks Config against its validate tags. Field names in errors
// are the YAML keys.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("notblank", isNotBlank)
	v.RegisterValidation("glob", isGlob)
	v.RegisterValidation("loglevel", isLogLevel)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func isGlob(fl validator.FieldLevel) bool {
	_, err := filepath.Match(fl.Field().String(), "")
	return err == nil
}

func isLogLevel(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// Validate checks the configuration for values that cannot work.
//
// RETURNS:
//   - nil, or an error naming every invalid setting.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, formatFieldError(fe))
	}
	return errors.New(strings.Join(messages, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s must not be blank", fe.Field())
	case "glob":
		return fmt.Sprintf("%s %q is not a valid pattern", fe.Field(), fe.Value())
	case "loglevel":
		return fmt.Sprintf("%s %q is not one of debug, info, warn, error", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// Resolve makes the directory settings absolute relative to baseDir.
// Absolute settings are left alone.
func (c *Config) Resolve(baseDir string) {
	if !filepath.IsAbs(c.InputDir) {
		c.InputDir = filepath.Join(baseDir, c.InputDir)
	}
	if !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(baseDir, c.OutputDir)
	}
}
