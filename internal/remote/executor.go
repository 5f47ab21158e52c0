package remote

import (
	"context"
	"fmt"
)

// Executor runs a shell command on a named cluster node.
// Implementations must be safe for sequential reuse across many commands.
type Executor interface {
	// Run executes command on host and returns its stdout.
	// A non-zero exit status is reported as *CommandError,
	// a transport failure as *ConnectivityError.
	Run(ctx context.Context, host, command string) (string, error)
	Close() error
}

// ConnectivityError means the node could not be reached at all
type ConnectivityError struct {
	Host string
	Err  error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("host %s is unreachable: %v", e.Host, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// CommandError means the node was reached but the command failed
type CommandError struct {
	Host       string
	Command    string
	ExitStatus int
	Stderr     string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q on %s exited with status %d: %s", e.Command, e.Host, e.ExitStatus, e.Stderr)
}
