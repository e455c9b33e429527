// Package uuid provides the identifiers used by the admin client: request ids and
// the record ids handed out by the development service. It wraps
// github.com/google/uuid and uses version 7 (time-ordered) ids.
package uuid

import (
	"github.com/google/uuid"
)

// UUID is aliased from github.com/google/uuid.UUID.
type UUID = uuid.UUID

// New returns a new UUIDv7. Panics if the random source fails.
func New() UUID {
	id, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return id
}

// NewString returns a new UUIDv7 in its canonical string form.
func NewString() string {
	return New().String()
}

// Parse parses a UUID string.
func Parse(s string) (UUID, error) {
	return uuid.Parse(s)
}

// IsUUIDv7 reports whether the given string is a valid UUIDv7.
func IsUUIDv7(s string) bool {
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return id.Version() == uuid.Version(7)
}
