package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a business-rule violation so callers can branch on the
// category instead of parsing messages.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotFound
	KindDuplicateName
	KindDuplicateEmail
	KindCategoryInactive
	KindInvalidStock
	KindInvalidPrice
	KindCannotDeactivateWithStock
	KindInactiveAccount
	KindInvalidCredential
	KindSamePassword
	KindForbidden
	KindCannotActOnSelf
	KindAlreadyActive
	KindAlreadyInactive
	KindAlreadyVerified
	KindMissingField
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindDuplicateName:
		return "duplicate_name"
	case KindDuplicateEmail:
		return "duplicate_email"
	case KindCategoryInactive:
		return "category_inactive"
	case KindInvalidStock:
		return "invalid_stock"
	case KindInvalidPrice:
		return "invalid_price"
	case KindCannotDeactivateWithStock:
		return "cannot_deactivate_with_stock"
	case KindInactiveAccount:
		return "inactive_account"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindSamePassword:
		return "same_password"
	case KindForbidden:
		return "forbidden"
	case KindCannotActOnSelf:
		return "cannot_act_on_self"
	case KindAlreadyActive:
		return "already_active"
	case KindAlreadyInactive:
		return "already_inactive"
	case KindAlreadyVerified:
		return "already_verified"
	case KindMissingField:
		return "missing_field"
	default:
		return "unknown"
	}
}

// Error is a domain rule violation. The message always carries enough context
// (ids, current values, attempted values) to diagnose without a stack trace.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds a typed domain error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind carried by err, or KindUnknown for errors that did
// not originate from the domain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
