package patroni

import (
	"fmt"
)

// StatusParseError means cluster status output was malformed or
// described a cluster without a leader
type StatusParseError struct {
	Reason string
}

func (e *StatusParseError) Error() string {
	return "failed to parse cluster status: " + e.Reason
}

// TagUpdateError means the remote tag mutation command failed
type TagUpdateError struct {
	Host string
	Err  error
}

func (e *TagUpdateError) Error() string {
	return fmt.Sprintf("failed to update tags on %s: %v", e.Host, e.Err)
}

func (e *TagUpdateError) Unwrap() error { return e.Err }

// ServiceRestartError means the HA agent failed to restart after
// the tag mutation
type ServiceRestartError struct {
	Host string
	Err  error
}

func (e *ServiceRestartError) Error() string {
	return fmt.Sprintf("failed to restart HA agent on %s: %v", e.Host, e.Err)
}

func (e *ServiceRestartError) Unwrap() error { return e.Err }

// VerificationError means the mutated tags did not persist
type VerificationError struct {
	Host string
	Want TagState
	Got  TagState
	Err  error
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to verify tags on %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("tags on %s did not persist: want {%s}, got {%s}", e.Host, e.Want, e.Got)
}

func (e *VerificationError) Unwrap() error { return e.Err }

// StabilityTimeoutError means the cluster did not converge within
// the attempts * interval bound
type StabilityTimeoutError struct {
	Attempts int
}

func (e *StabilityTimeoutError) Error() string {
	return fmt.Sprintf("cluster did not stabilize after %d attempts", e.Attempts)
}

// ElectionCommandError means the leadership-transfer command failed
type ElectionCommandError struct {
	Leader    string
	Candidate string
	Err       error
}

func (e *ElectionCommandError) Error() string {
	return fmt.Sprintf("failed to switch leader from %s to %s: %v", e.Leader, e.Candidate, e.Err)
}

func (e *ElectionCommandError) Unwrap() error { return e.Err }
