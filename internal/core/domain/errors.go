package domain

import "errors"

// ErrorKind classifies a domain failure. The HTTP layer maps kinds to status codes.
type ErrorKind string

const (
	KindAuthentication ErrorKind = "authentication"
	KindAuthorization  ErrorKind = "authorization"
	KindValidation     ErrorKind = "validation"
	KindNotFound       ErrorKind = "not_found"
	KindConflict       ErrorKind = "conflict"
)

// Error is a domain failure with a stable kind and a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is lets the bare kind sentinels (ErrNotFound, ErrConflict, ...) match any
// error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// NewError builds an *Error of the given kind.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Validation is shorthand for NewError(KindValidation, msg).
func Validation(msg string) *Error {
	return NewError(KindValidation, msg)
}

// Forbidden is shorthand for NewError(KindAuthorization, msg).
func Forbidden(msg string) *Error {
	return NewError(KindAuthorization, msg)
}

// KindOf returns the kind of the first *Error in err's chain, or "" when there is none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// Kind sentinels.
var (
	ErrAuthentication = &Error{Kind: KindAuthentication}
	ErrAuthorization  = &Error{Kind: KindAuthorization}
	ErrValidation     = &Error{Kind: KindValidation}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrConflict       = &Error{Kind: KindConflict}
)

var (
	ErrUnauthenticated = NewError(KindAuthentication, "authentication required")
	ErrUnknownUser     = NewError(KindAuthentication, "authenticated user does not exist")

	ErrManagerRequired = NewError(KindAuthorization, "manager capability required")
	ErrNotAssignee     = NewError(KindAuthorization, "only the assignee may perform this action")

	ErrUserNotFound     = NewError(KindNotFound, "user not found")
	ErrMemberNotFound   = NewError(KindNotFound, "team member not found")
	ErrTaskNotFound     = NewError(KindNotFound, "task not found")
	ErrAssigneeNotFound = NewError(KindNotFound, "assignee not found")

	ErrUserExists        = NewError(KindConflict, "user already exists")
	ErrMemberExists      = NewError(KindConflict, "user is already a team member")
	ErrStaleTask         = NewError(KindConflict, "task was modified concurrently")
	ErrInvalidTransition = NewError(KindConflict, "invalid status transition")
	ErrLastManager       = NewError(KindConflict, "team must keep at least one manager")
	ErrSubmitInProgress  = NewError(KindConflict, "a submission with this idempotency key is in progress")
)
