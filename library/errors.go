package library

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Sentinel errors returned by domain operations. Callers match them with
// errors.Is; the wrapped message carries the operation and the offending id.
var (
	// ErrNotFound reports a missing item, person, event, or transaction.
	ErrNotFound = errors.New("not found")

	// ErrNoCopiesAvailable reports a borrow attempt on an item whose
	// available_copies is zero.
	ErrNoCopiesAvailable = errors.New("no copies available")

	// ErrCapacityExceeded reports an event registration that would push
	// the event past its room's capacity.
	ErrCapacityExceeded = errors.New("event capacity reached")

	// ErrInvalidColumn reports a search field or table name outside the
	// allow-list. Nothing is ever interpolated into SQL before this check.
	ErrInvalidColumn = errors.New("invalid column")

	// ErrAlreadyReturned reports a return attempt on a closed transaction.
	ErrAlreadyReturned = errors.New("transaction already closed")
)

// ConstraintError wraps a storage-level constraint failure (enum CHECK,
// foreign key, uniqueness) that no domain sentinel covers more precisely.
type ConstraintError struct {
	Op  string
	Err error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: constraint violated: %v", e.Op, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// translateErr folds driver-level errors into the package taxonomy so no
// raw sqlite3 error escapes a domain operation. Trigger aborts carry their
// RAISE message, which identifies the guard that fired.
func translateErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch serr.ExtendedCode {
	case sqlite3.ErrConstraintTrigger:
		msg := serr.Error()
		if strings.Contains(msg, "capacity") {
			return fmt.Errorf("%s: %w", op, ErrCapacityExceeded)
		}
		if strings.Contains(msg, "closed") {
			return fmt.Errorf("%s: %w", op, ErrAlreadyReturned)
		}
	case sqlite3.ErrConstraintForeignKey:
		// A failed reference means the referenced row does not exist.
		return fmt.Errorf("%s: referenced row: %w", op, ErrNotFound)
	}
	if serr.Code == sqlite3.ErrConstraint {
		return &ConstraintError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
