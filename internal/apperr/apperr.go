// Package apperr defines the error kinds the API reports and their HTTP
// mapping. Handlers wrap domain failures in an *Error; everything else is
// reported as ErrInternal without leaking details.
package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

type Kind int

const (
	// Unauthenticated: no credential was presented.
	Unauthenticated Kind = iota
	// InvalidToken: a credential was presented but failed signature or expiry checks.
	InvalidToken
	// Forbidden: authenticated but not authorized for the target resource.
	Forbidden
	// NotFound: the referenced entity does not exist.
	NotFound
	// Validation: malformed input (empty post, short password, self-follow).
	Validation
	// Conflict: uniqueness violation (duplicate username or email).
	Conflict
	// Internal: unexpected failure; message is never sent to clients.
	Internal
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Status maps an error to its HTTP status. Unknown errors map to 500.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case Unauthenticated, InvalidToken:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Validation:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// pqUniqueViolation is the Postgres error code for unique constraint failures.
const pqUniqueViolation = "23505"

// FromStore translates storage errors: sql.ErrNoRows becomes NotFound with
// the given message, unique violations become Conflict, anything else Internal.
func FromStore(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return New(NotFound, notFoundMsg)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
		return Wrap(Conflict, "already exists", err)
	}
	return Wrap(Internal, "storage failure", err)
}
