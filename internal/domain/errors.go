package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthenticated covers missing, unknown or expired tokens and failed logins.
	ErrUnauthenticated = errors.New("unauthorized")
	// ErrNotFound is returned both for absent resources and for resources
	// owned by someone else.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks malformed input. See ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates a duplicate unique key on creation.
	ErrConflict = errors.New("already exists")
)

// NotFound returns ErrNotFound labelled with the resource kind, e.g.
// NotFound("contact") reads "Contact Not Found".
func NotFound(resource string) error {
	return &notFoundError{resource: resource}
}

type notFoundError struct {
	resource string
}

func (e *notFoundError) Error() string {
	if e.resource == "" {
		return "Not Found"
	}
	return strings.ToUpper(e.resource[:1]) + e.resource[1:] + " Not Found"
}

func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError carries field-level violations keyed by the JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return strings.Join(parts, ", ")
}

// Is makes errors.Is(err, ErrValidation) hold for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
