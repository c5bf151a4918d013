package config

import (
	"fmt"
	"strings"

	"github.com/abhisek/satprep/internal/bank"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Validate reports every invalid field at once.
func Validate(cfg *Config) error {
	var issues []Issue
	add := func(field, format string, args ...any) {
		issues = append(issues, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if cfg.Version != 1 {
		add("version", "unsupported version %d", cfg.Version)
	}
	if cfg.Generate.TargetPerBucket <= 0 {
		add("generate.target_per_bucket", "must be positive")
	}
	if cfg.Generate.MaxAttempts < cfg.Generate.TargetPerBucket {
		add("generate.max_attempts", "must be at least target_per_bucket (%d)", cfg.Generate.TargetPerBucket)
	}
	if cfg.Generate.Out == "" {
		add("generate.out", "is required")
	}
	if cfg.Validate.TargetPerBucket < 0 {
		add("validate.target_per_bucket", "must not be negative")
	}
	if cfg.Validate.Tolerance < 0 {
		add("validate.tolerance", "must not be negative")
	}
	if !bank.VisualPolicy(cfg.Validate.Policy).Valid() {
		add("validate.policy", "must be %q or %q, got %q", bank.PolicyStrict, bank.PolicyLegacy, cfg.Validate.Policy)
	}
	if cfg.Store.Keep < 0 {
		add("store.keep", "must not be negative")
	}
	if cfg.Serve.Addr == "" {
		add("serve.addr", "is required")
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
