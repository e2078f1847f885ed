// Package apperrors defines the error model shared by services and handlers.
// Expected failures are returned as *Error values; anything else is treated
// as unknown and must not leak to clients.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthentication
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a domain failure with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Field   string // set for validation errors
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches on kind and message so wrapped sentinels still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

var (
	ErrInvalidCredentials   = &Error{Kind: KindAuthentication, Message: "Invalid email or password"}
	ErrInvalidToken         = &Error{Kind: KindAuthentication, Message: "Invalid authorization token"}
	ErrRefreshTokenNotFound = &Error{Kind: KindAuthentication, Message: "Refresh token not found"}
	ErrRefreshTokenExpired  = &Error{Kind: KindAuthentication, Message: "Refresh token expired"}
	ErrInvalidRefreshToken  = &Error{Kind: KindAuthentication, Message: "Invalid refresh token"}
	ErrUnauthorized         = &Error{Kind: KindAuthentication, Message: "Unauthorized"}

	ErrUserNotFound        = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrTransactionNotFound = &Error{Kind: KindNotFound, Message: "Transaction not found"}

	ErrDuplicateEmail = &Error{Kind: KindConflict, Field: "email", Message: "Email address already exists"}

	ErrInvalidWatchPairs = &Error{Kind: KindValidation, Field: "watchPairs", Message: "InvalidWatchPairs"}
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the client-safe message for err, or "Unknown error".
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Unknown error"
}
