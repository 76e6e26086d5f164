package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // The config field path (e.g., "model.max_tokens")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation
// errors found. A nil return means the config is valid.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if c.Model.Name == "" {
		errs = append(errs, ValidationError{
			Field:   "model.name",
			Value:   c.Model.Name,
			Message: "model name must not be empty",
		})
	}
	if c.Model.MaxTokens <= 0 {
		errs = append(errs, ValidationError{
			Field:   "model.max_tokens",
			Value:   c.Model.MaxTokens,
			Message: "must be positive",
		})
	}
	if c.Model.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{
			Field:   "model.timeout_seconds",
			Value:   c.Model.TimeoutSeconds,
			Message: "must not be negative",
		})
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if c.Logging.MaxSizeMB < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must not be negative",
		})
	}
	if c.Logging.MaxBackups < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must not be negative",
		})
	}

	if c.Tracker.Enabled && c.Tracker.Binary == "" {
		errs = append(errs, ValidationError{
			Field:   "tracker.binary",
			Value:   c.Tracker.Binary,
			Message: "must not be empty when tracker.enabled is true",
		})
	}

	if c.Scaffold.DefaultTemplate == "" {
		errs = append(errs, ValidationError{
			Field:   "scaffold.default_template",
			Value:   c.Scaffold.DefaultTemplate,
			Message: "must not be empty",
		})
	}

	return errs
}
