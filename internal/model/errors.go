package model

import "fmt"

// ConfigurationError reports malformed or incomplete recurrence or
// reminder settings. It is terminal for the operation that raised it;
// the affected task is skipped, not retried.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

func configErr(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
