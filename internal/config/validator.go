package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/itsmostafa/codeslots/internal/runner"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "runner.language")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLanguages returns the canonical snippet language names. The runner
// also accepts the aliases python, py, star and js.
func ValidLanguages() []string {
	return []string{"starlark", "javascript", "tengo"}
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateStore()...)
	errors = append(errors, c.validateRunner()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateStore() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Store.Path) == "" {
		errors = append(errors, ValidationError{
			Field:   "store.path",
			Value:   c.Store.Path,
			Message: "must not be empty",
		})
	}

	return errors
}

func (c *Config) validateRunner() []ValidationError {
	var errors []ValidationError

	if _, err := runner.ValidateLanguage(c.Runner.Language); err != nil {
		errors = append(errors, ValidationError{
			Field:   "runner.language",
			Value:   c.Runner.Language,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLanguages(), ", ")),
		})
	}

	if c.Runner.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "runner.timeout_seconds",
			Value:   c.Runner.TimeoutSeconds,
			Message: "must be non-negative (0 disables the timeout)",
		})
	}

	if c.Runner.MaxAllocs < 0 {
		errors = append(errors, ValidationError{
			Field:   "runner.max_allocs",
			Value:   c.Runner.MaxAllocs,
			Message: "must be non-negative (0 disables the limit)",
		})
	}

	if c.Runner.MaxOutputChars < 0 {
		errors = append(errors, ValidationError{
			Field:   "runner.max_output_chars",
			Value:   c.Runner.MaxOutputChars,
			Message: "must be non-negative (0 disables truncation)",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !c.Logging.Enabled {
		return errors
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB < 1 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be at least 1",
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
