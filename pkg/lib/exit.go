package lib

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ExitError carries an exit status other than the default 1.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the status err should terminate the program with:
// 0 for nil, the carried code for an ExitError, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

// Report prints the error the way Exit does, without exiting.
func Report(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err)
}

// Exit prints the error and exits the program with its exit code
func Exit(err error) {
	Report(os.Stderr, err)
	os.Exit(ExitCode(err))
}
