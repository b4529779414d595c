// internal/diagnosis/errors.go
package diagnosis

import "fmt"

// ValidationError reports a missing or out-of-range input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Message)
}

// UnknownOptionError reports a value outside a field's closed option set.
// Unknown values never fall back to a default.
type UnknownOptionError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option %q for %q (allowed: %v)", e.Value, e.Field, e.Allowed)
}

// ConfigError reports a defect in the visa catalog or rule tables, e.g. a
// missing weight-table row. These are configuration problems, not user input
// problems, and must surface loudly instead of silently scoring zero.
type ConfigError struct {
	Subject string
	Detail  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("catalog configuration defect [%s]: %s", e.Subject, e.Detail)
}
