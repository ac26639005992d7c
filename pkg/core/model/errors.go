package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAssignment is matched by every ConfigurationError
	ErrUnknownAssignment = errors.New("unknown assignment type")

	// ErrDataIntegrity is matched by every DataIntegrityError
	ErrDataIntegrity = errors.New("data integrity violation")
)

// ConfigurationError is returned when a caller asks for an assignment code or
// slot that is not in the catalogue. It indicates a caller or catalogue bug and
// should not be retried.
type ConfigurationError struct {
	Code   string
	Detail string
}

func (e *ConfigurationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unknown assignment type %q: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("unknown assignment type %q", e.Code)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrUnknownAssignment
}

// DataIntegrityError reports malformed roster data, such as a time-away
// interval that ends before it starts
type DataIntegrityError struct {
	PersonID string
	Detail   string
}

func (e *DataIntegrityError) Error() string {
	if e.PersonID != "" {
		return fmt.Sprintf("data integrity violation for person %s: %s", e.PersonID, e.Detail)
	}
	return fmt.Sprintf("data integrity violation: %s", e.Detail)
}

func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}
