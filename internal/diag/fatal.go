package diag

import (
	"errors"
	"fmt"
)

// ErrFatal is the sentinel every FatalError unwraps to.
var ErrFatal = errors.New("fatal diagnostic")

// FatalError aborts a whole compilation unit. It carries the diagnostic that
// caused the abort so callers can render it like any other finding.
type FatalError struct {
	Diagnostic Diagnostic
}

// Fatal builds a FatalError with SevError severity.
func Fatal(code Code, module, subject, msg string) *FatalError {
	return &FatalError{Diagnostic: NewError(code, module, subject, msg)}
}

func (e *FatalError) Error() string {
	if e.Diagnostic.Subject == "" {
		return fmt.Sprintf("%s: %s", e.Diagnostic.Code.ID(), e.Diagnostic.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Diagnostic.Code.ID(), e.Diagnostic.Subject, e.Diagnostic.Message)
}

func (e *FatalError) Unwrap() error { return ErrFatal }

// AsFatal extracts a FatalError from an error chain.
func AsFatal(err error) (*FatalError, bool) {
	var fe *FatalError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
