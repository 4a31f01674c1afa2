package snapshot

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformedSnapshot is the cause of every decoding failure.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// MalformedError reports the index at which decoding gave up.
type MalformedError struct {
	Index  int
	Reason string
}

func newMalformedError(index int, reason string) MalformedError {
	return MalformedError{Index: index, Reason: reason}
}

func (e MalformedError) Error() string {
	return fmt.Sprintf("%v: index %d: %s", ErrMalformedSnapshot, e.Index, e.Reason)
}

func (e MalformedError) Cause() error {
	return ErrMalformedSnapshot
}

func (e MalformedError) Unwrap() error {
	return ErrMalformedSnapshot
}

// IsMalformed reports whether err was caused by a malformed snapshot.
func IsMalformed(err error) bool {
	return errors.Cause(err) == ErrMalformedSnapshot
}
