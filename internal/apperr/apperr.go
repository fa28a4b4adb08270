// Package apperr defines the error kinds surfaced by the platform core.
// Every kind maps to exactly one client-visible status at the HTTP boundary.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindUnauthenticated    Kind = "unauthenticated"
	KindNotFound           Kind = "resource_not_found"
	KindExists             Kind = "resource_exists"
	KindNotAllowed         Kind = "not_allowed_access"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindValidation         Kind = "schema_validation"
	KindInvalidToken       Kind = "invalid_token"
)

// Resource names used in not-found and exists errors.
const (
	ResourceUser         = "User"
	ResourceOrganization = "Organization"
	ResourceStaff        = "Staff"
	ResourceRole         = "Role"
	ResourceBlog         = "Blog"
	ResourceEmail        = "Email address"
)

// FieldError describes one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Error struct {
	Kind     Kind
	Resource string
	Fields   []FieldError
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("%s not found", e.resourceOr("resource"))
	case KindExists:
		return fmt.Sprintf("%s already exists", e.resourceOr("resource"))
	case KindValidation:
		if len(e.Fields) == 0 {
			return "validation error"
		}
		names := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			names = append(names, f.Field)
		}
		return "validation error: " + strings.Join(names, ", ")
	default:
		return strings.ReplaceAll(string(e.Kind), "_", " ")
	}
}

// Is matches on kind only, so errors.Is(err, ErrNotFound) holds for any resource.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func (e *Error) resourceOr(def string) string {
	if strings.TrimSpace(e.Resource) == "" {
		return def
	}
	return e.Resource
}

var (
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrExists             = &Error{Kind: KindExists}
	ErrNotAllowedAccess   = &Error{Kind: KindNotAllowed}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrValidation         = &Error{Kind: KindValidation}
	ErrInvalidToken       = &Error{Kind: KindInvalidToken}
)

func NotFound(resource string) error {
	return &Error{Kind: KindNotFound, Resource: resource}
}

func Exists(resource string) error {
	return &Error{Kind: KindExists, Resource: resource}
}

// Invalid builds a single-field validation error.
func Invalid(field, code, message string) error {
	return &Error{
		Kind:   KindValidation,
		Fields: []FieldError{{Field: field, Code: code, Message: message}},
	}
}

func Validation(fields ...FieldError) error {
	return &Error{Kind: KindValidation, Fields: fields}
}

// As extracts the *Error carried by err, if any.
func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) && target != nil {
		return target, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}
