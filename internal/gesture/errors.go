package gesture

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by constructors when a threshold is out of range
// or a minimum exceeds its maximum.
var ErrInvalidConfig = errors.New("invalid gesture configuration")

// invalidf wraps ErrInvalidConfig with a formatted detail message.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// checkRange validates that 0 <= min <= max for a named threshold pair.
func checkRange[T int | float64](name string, min, max T) error {
	if min < 0 {
		return invalidf("%s minimum %v is negative", name, min)
	}
	if min > max {
		return invalidf("%s minimum %v exceeds maximum %v", name, min, max)
	}
	return nil
}
