package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/sdejongh/codecompass/pkg/models"
)

// ExitError carries a process exit code out of a command.
// Err, when set, is printed before exiting.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps a command error to the process exit code, printing it to w:
// 0 for success, the carried code for an ExitError, 2 for anything else
func ExitCode(err error, w io.Writer) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(w, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	return models.RunFailed.ExitCode()
}
