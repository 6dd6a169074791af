package types

import (
	"errors"
	"fmt"
)

// ErrMalformedStatus indicates the control plane returned a cluster status
// response missing data it is contractually required to carry (a capacity
// bucket or machine shape for a declared machine type). Builds abort on it
// rather than emit config derived from a broken snapshot.
var ErrMalformedStatus = errors.New("malformed cluster status response")

// MalformedStatusError wraps ErrMalformedStatus with the offending detail.
func MalformedStatusError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedStatus, fmt.Sprintf(format, args...))
}

// IsMalformedStatus reports whether err is a malformed-status error.
func IsMalformedStatus(err error) bool {
	return errors.Is(err, ErrMalformedStatus)
}

// RetriesExhaustedError reports that a bounded retry loop gave up. The caller
// decides severity; this is never raised as a panic.
type RetriesExhaustedError struct {
	Op       string
	Attempts int
	Last     error
}

// Error returns the error message.
func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Op, e.Attempts, e.Last)
}

// Unwrap returns the last underlying error.
func (e *RetriesExhaustedError) Unwrap() error {
	return e.Last
}
