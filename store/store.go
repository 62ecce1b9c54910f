// Package store keeps each user's preferred stop. It is read and
// written only by the chat layer, never by the pipeline.
package store

import (
	"time"
)

// Station is a user's saved stop.
type Station struct {
	UserID      string
	StopCode    string
	DisplayName string
	LastUsed    time.Time
}

type Store interface {
	// Saves a station. An existing record for the same user is
	// replaced.
	Save(station Station) error

	// Gets the station saved for a user. The bool reports whether
	// one exists.
	Get(userID string) (Station, bool, error)

	// Deletes a user's station. Deleting a missing record is not an
	// error.
	Delete(userID string) error
}
