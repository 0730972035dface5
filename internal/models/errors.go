package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrAuthorNotPersisted is returned when an article is saved before its author.
	ErrAuthorNotPersisted = errors.New("article author must be saved first")

	// ErrAlreadyPersisted is returned when save is called on an entity that already has an ID.
	ErrAlreadyPersisted = errors.New("entity already saved")

	// ErrNotPersisted is returned when a read query runs on an entity without an ID.
	ErrNotPersisted = errors.New("entity has not been saved")

	// ErrNotFound is returned by the Find helpers when no row has the requested ID.
	ErrNotFound = errors.New("not found")
)

// ValidationError describes a rejected field value.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "must be a non-empty string"
	}
	return fmt.Sprintf("%s %s %s", e.Entity, e.Field, reason)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func requireNonEmpty(entity, field, value string) error {
	if len(value) == 0 {
		return &ValidationError{Entity: entity, Field: field}
	}
	return nil
}
