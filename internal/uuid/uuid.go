// Package uuid wraps google/uuid so that ids can be bound from URI and
// query parameters by gin.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

type UUID struct {
	google_uuid.UUID
}

var Nil UUID

// Set reports whether the id is not the nil UUID.
func (u UUID) Set() bool {
	return u.UUID != google_uuid.Nil
}

// UnmarshalParam parses p, an empty string is the nil UUID.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, err := google_uuid.Parse(p)
	if err != nil {
		return err
	}

	*u = UUID{parsed}
	return nil
}
