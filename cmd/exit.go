package cmd

import (
	"errors"
	"fmt"
	"io"
)

// Exit codes returned by Execute.
const (
	ExitSuccess         = 0
	ExitFatal           = 1
	ExitInvalidArgument = 9
)

// invalidArgumentError marks errors in the command line itself.
type invalidArgumentError struct {
	err error
}

func (e *invalidArgumentError) Error() string { return e.err.Error() }
func (e *invalidArgumentError) Unwrap() error { return e.err }

func invalidArgument(format string, args ...any) error {
	return &invalidArgumentError{err: fmt.Errorf(format, args...)}
}

// exitCode maps an error returned by the command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var invalid *invalidArgumentError
	if errors.As(err, &invalid) {
		return ExitInvalidArgument
	}
	return ExitFatal
}

// printError writes err to w. In debug mode every error in the chain is
// listed with its type.
func printError(w io.Writer, err error, debug bool) {
	fmt.Fprintln(w, "Error:", err)
	if !debug {
		return
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		fmt.Fprintf(w, "  %T: %v\n", e, e)
	}
}
