package config

import (
	"errors"
	"fmt"
)

// ErrFrozen is returned by every mutating method once the snapshot has been
// sealed at the end of construction.
var ErrFrozen = errors.New("config: modifying the configuration after construction is not allowed")

// ErrNotMapping is returned when a configuration file decodes to something
// other than a mapping at the root.
var ErrNotMapping = errors.New("config: configuration root must be a mapping")

// ConflictError reports two candidate configuration files present in the
// same directory. Discovery never silently picks one.
type ConflictError struct {
	First  string
	Second string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("config: %s and %s cannot be used in the same project", e.First, e.Second)
}

// CoercionError reports a value that cannot be coerced to the type its key
// requires, such as a PORT that is not an integer.
type CoercionError struct {
	Key   string
	Value any
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("config: %s value %v: %v", e.Key, e.Value, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }
