// Package aggregate coordinates create/update/destroy of aggregate roots and
// their dependent subtrees as ordered sequences of single-entity store
// operations. No multi-statement transaction is assumed: a failure after the
// root has been persisted surfaces as PartialAggregateFailure instead of
// being rolled back. Callers must serialize writes to the same aggregate root;
// concurrent writers on one root can interleave sub-entity writes.
package aggregate

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a malformed or incomplete request. It is raised
// before any write begins.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Msg
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PartialAggregateFailure reports a dependent-entity write that failed after
// the root (or an earlier dependent) was already persisted. The committed
// steps are listed so the caller can decide between manual cleanup and
// keeping the record for later reconciliation. Not retried automatically:
// retries risk duplicate sub-entities.
type PartialAggregateFailure struct {
	Step      string
	Committed []string
	Err       error
}

func (e *PartialAggregateFailure) Error() string {
	return fmt.Sprintf("partial aggregate failure at %q (committed: %s): %v",
		e.Step, strings.Join(e.Committed, ", "), e.Err)
}

func (e *PartialAggregateFailure) Unwrap() error {
	return e.Err
}

// IsPartialFailure reports whether err is (or wraps) a
// PartialAggregateFailure.
func IsPartialFailure(err error) bool {
	var pf *PartialAggregateFailure
	return errors.As(err, &pf)
}
