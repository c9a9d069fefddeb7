package cli

import "errors"

// CommandError signals a command failure that has already been reported.
// Commands print their diagnostics to stderr and return it so that main
// decides the exit code.
type CommandError struct {
	exitCode int
}

// NewCommandError creates a new CommandError with the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

func (e *CommandError) Error() string {
	return "command failed"
}

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}

// CommandResult is the outcome of a command run.
type CommandResult struct {
	// ExitCode is the process exit code; 0 means success.
	ExitCode int

	// Err is the error that ended the run, if any.
	Err error
}

// Reported reports whether the error has already been printed by the
// command.
func (r CommandResult) Reported() bool {
	var cmdErr *CommandError
	return errors.As(r.Err, &cmdErr)
}

// Success returns a CommandResult indicating successful execution.
func Success() CommandResult {
	return CommandResult{ExitCode: 0}
}

// Failure returns a CommandResult indicating failure with the given error.
func Failure(err error) CommandResult {
	return CommandResult{ExitCode: 1, Err: err}
}

// Result maps the error returned by a command to its outcome. A
// CommandError keeps its own exit code.
func Result(err error) CommandResult {
	if err == nil {
		return Success()
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return CommandResult{ExitCode: cmdErr.ExitCode(), Err: err}
	}
	return Failure(err)
}
