package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a referenced entity or relationship does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a relationship would duplicate an existing pair.
	ErrConflict = errors.New("already exists")
	// ErrValidation is returned for malformed or out-of-range input.
	ErrValidation = errors.New("validation error")
	// ErrForbidden is returned when the actor does not own the entity.
	ErrForbidden = errors.New("forbidden")
)

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

func conflict(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}
