package cli

import (
	"errors"
	"fmt"
	"os/exec"
)

// ExitError carries the wrapped command's exit code to main without
// treating a non-zero tool exit as a launcher failure.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// exitStatus converts a subprocess error into an *ExitError preserving the
// child's exit code, or 128+signal when the child died from a signal.
func exitStatus(err error) error {
	if err == nil {
		return nil
	}
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		return err
	}
	code := ee.ExitCode()
	if code < 0 {
		if sig, ok := signalExitCode(ee); ok {
			code = sig
		} else {
			code = 1
		}
	}
	return &ExitError{Code: code}
}
