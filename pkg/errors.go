package bump

import (
	"fmt"
	"strings"
)

// ParseError reports an input that is not a valid semantic version.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%q is not a valid semantic version", e.Input)
	}
	return fmt.Sprintf("%q is not a valid semantic version: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotFoundError is returned when none of the candidate files holds a valid version.
// Checked lists every candidate in the order it was read.
type NotFoundError struct {
	Checked []string
}

func (e *NotFoundError) Error() string {
	return "Unable to determine the current version number. Checked " + strings.Join(e.Checked, ", ") + "."
}

// ConfigError reports options that cannot be satisfied, such as prompting with
// the interface disabled.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }
