package scraper

import (
	"errors"
	"fmt"
)

// ErrMissingField indicates a required node or attribute was absent from a listing.
type ErrMissingField struct {
	Field    string
	Selector string
}

func (e ErrMissingField) Error() string {
	return fmt.Sprintf("missing %s (%s)", e.Field, e.Selector)
}

// ErrMalformedNumber indicates an optional numeric node was present but unparseable.
type ErrMalformedNumber struct {
	Field string
	Text  string
	Err   error
}

func (e ErrMalformedNumber) Error() string {
	return fmt.Sprintf("malformed %s %q: %v", e.Field, e.Text, e.Err)
}

func (e ErrMalformedNumber) Unwrap() error {
	return e.Err
}

// ErrNotFound indicates the input document does not exist.
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return fmt.Errorf("not_found: %w", e.Err).Error()
}

func (e ErrNotFound) Unwrap() error {
	return e.Err
}

// ErrForbidden indicates the input document could not be read.
type ErrForbidden struct {
	Err error
}

func (e ErrForbidden) Error() string {
	return fmt.Errorf("forbidden: %w", e.Err).Error()
}

func (e ErrForbidden) Unwrap() error {
	return e.Err
}

func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var missing ErrMissingField
	if errors.As(err, &missing) {
		return "missing_" + missing.Field
	}
	var malformed ErrMalformedNumber
	if errors.As(err, &malformed) {
		return "malformed_" + malformed.Field
	}
	var notFound ErrNotFound
	if errors.As(err, &notFound) {
		return "not_found"
	}
	var forbidden ErrForbidden
	if errors.As(err, &forbidden) {
		return "forbidden"
	}
	return "other"
}
