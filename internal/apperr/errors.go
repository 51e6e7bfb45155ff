// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError reports a missing entity, or one the caller does not own.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// ValidationError reports a malformed or out-of-range input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ConflictError reports a uniqueness violation or a lost race.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", strings.ToLower(e.Entity), e.Reason)
}

// UnauthorizedError reports a missing or invalid credential.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	return e.Reason
}

func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func Conflict(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

func Unauthorized(reason string) error {
	return &UnauthorizedError{Reason: reason}
}

// IsNotFound reports whether err carries a NotFoundError for any entity.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// NotFoundEntity returns the entity named by a NotFoundError in err's chain.
func NotFoundEntity(err error) (string, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Entity, true
	}
	return "", false
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsUnauthorized(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue)
}
