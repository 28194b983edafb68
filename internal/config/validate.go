package config

import (
	"fmt"
	"strings"

	"github.com/KilimcininKorOglu/xenstore/internal/dump"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig validates the configuration and returns every problem
// found. An empty slice means the configuration is valid.
func ValidateConfig(cfg *Config) []error {
	var errs []error
	errs = append(errs, validateStoreConfig(&cfg.Store)...)
	errs = append(errs, validateLogConfig(&cfg.Logging)...)
	errs = append(errs, validateShellConfig(&cfg.Shell)...)
	return errs
}

func validateStoreConfig(c *StoreConfig) []error {
	var errs []error
	if c.MaxAbsPath <= 0 {
		errs = append(errs, ValidationError{Field: "store.maxAbsPath", Message: "must be positive"})
	}
	if c.MaxRelPath <= 0 {
		errs = append(errs, ValidationError{Field: "store.maxRelPath", Message: "must be positive"})
	}
	if c.MaxRelPath > c.MaxAbsPath && c.MaxAbsPath > 0 {
		errs = append(errs, ValidationError{
			Field:   "store.maxRelPath",
			Message: fmt.Sprintf("must not exceed store.maxAbsPath (%d)", c.MaxAbsPath),
		})
	}
	if c.MaxNodeSize <= 0 {
		errs = append(errs, ValidationError{Field: "store.maxNodeSize", Message: "must be positive"})
	}
	if c.MaxDomainNodes == 0 {
		errs = append(errs, ValidationError{Field: "store.maxDomainNodes", Message: "must be positive"})
	}
	return errs
}

func validateLogConfig(c *LogConfig) []error {
	var errs []error
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q (debug, info, warn, error)", c.Level),
		})
	}
	switch strings.ToLower(c.Format) {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown format %q (text, json)", c.Format),
		})
	}
	return errs
}

func validateShellConfig(c *ShellConfig) []error {
	if _, err := dump.ParseCompressionTag(c.Compression); err != nil {
		return []error{ValidationError{Field: "shell.compression", Message: err.Error()}}
	}
	return nil
}
