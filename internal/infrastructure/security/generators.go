// Package security provides token utilities for the tracking service.
package security

import "github.com/oklog/ulid/v2"

// GenerateULID generates a new ULID string, used for interaction row ids.
func GenerateULID() string {
	return ulid.Make().String()
}
