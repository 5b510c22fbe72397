package publish

import (
	"errors"
	"fmt"
)

// ValidationError is a publish check that did not pass.
type ValidationError struct {
	Check   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Check, e.Message)
}

// ErrorKind classifies the failure for reporting.
func (e *ValidationError) ErrorKind() string {
	return "validation"
}

// IsValidation reports whether any error in err's tree is a
// ValidationError.
func IsValidation(err error) bool {
	var classifier interface{ ErrorKind() string }
	return errors.As(err, &classifier) && classifier.ErrorKind() == "validation"
}

func invalid(check, format string, args ...any) error {
	return &ValidationError{Check: check, Message: fmt.Sprintf(format, args...)}
}
