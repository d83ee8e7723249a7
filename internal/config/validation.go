package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error: field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// Validate validates the entire configuration.
func Validate(cfg *Config) error {
	var errors ValidationErrors

	if errs := validateReduce(&cfg.Reduce); len(errs) > 0 {
		errors = append(errors, errs...)
	}
	if errs := validateLogging(&cfg.Logging); len(errs) > 0 {
		errors = append(errors, errs...)
	}

	if cfg.Version == "" {
		errors = append(errors, ValidationError{
			Field:   "version",
			Value:   cfg.Version,
			Message: "version cannot be empty",
		})
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

// validateReduce validates the reduction-engine settings: the sieve's
// lower bound must be a positive power of two (spec.md §3's halving
// sieve assumes this), the stage sequence must be non-empty and every
// named stage must be a known rewriter or mapper instantiation, and
// MaxRawAttempts must be positive. The attempt archive's gzip compaction
// uses oracle.MaxRawAttempts, not this config value.
func validateReduce(cfg *ReduceConfig) ValidationErrors {
	var errors ValidationErrors

	if cfg.SieveLower == 0 {
		errors = append(errors, ValidationError{
			Field:   "reduce.sieve_lower",
			Value:   cfg.SieveLower,
			Message: "must be positive",
		})
	} else if cfg.SieveLower&(cfg.SieveLower-1) != 0 {
		errors = append(errors, ValidationError{
			Field:   "reduce.sieve_lower",
			Value:   cfg.SieveLower,
			Message: "must be a power of two",
		})
	}

	if len(cfg.Stages) == 0 {
		errors = append(errors, ValidationError{
			Field:   "reduce.stages",
			Value:   cfg.Stages,
			Message: "stage sequence cannot be empty",
		})
	} else {
		known := make(map[string]bool, len(knownStages))
		for _, s := range knownStages {
			known[s] = true
		}
		for _, s := range cfg.Stages {
			if !known[s] {
				errors = append(errors, ValidationError{
					Field:   "reduce.stages",
					Value:   s,
					Message: "not a known rewriter or mapper stage",
				})
			}
		}
	}

	if cfg.MaxRawAttempts <= 0 {
		errors = append(errors, ValidationError{
			Field:   "reduce.max_raw_attempts",
			Value:   cfg.MaxRawAttempts,
			Message: "must be positive",
		})
	}

	if cfg.OracleTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "reduce.oracle_timeout",
			Value:   cfg.OracleTimeout,
			Message: "cannot be negative",
		})
	}

	return errors
}

// validateLogging validates logging configuration.
func validateLogging(cfg *LoggingConfig) ValidationErrors {
	var errors ValidationErrors

	validLevels := []string{"trace", "debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   cfg.Level,
			Message: fmt.Sprintf("must be one of: %v", validLevels),
		})
	}

	return errors
}

// knownStages lists every valid reduce.stages entry, mirroring
// rewriters.Sequence without importing the reduction engine package
// (config must stay leaf-level so pkg/reduce can depend on it).
var knownStages = DefaultStageSequence()

func contains(slice []string, value string) bool {
	for _, v := range slice {
		if v == value {
			return true
		}
	}
	return false
}
