// Package channel provides use cases for managing tracked channels.
// It implements business logic for registering, updating, deleting and
// querying channels, including the immediate background sync a new
// registration triggers.
package channel

import "errors"

// Sentinel errors for channel use case operations.
var (
	// ErrChannelNotFound indicates that the requested channel was not found.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrChannelExists indicates that a channel with the same name is
	// already registered. Channel names are unique and case-sensitive.
	ErrChannelExists = errors.New("channel already exists")

	// ErrGroupNotFound indicates that the referenced channel group does not exist.
	ErrGroupNotFound = errors.New("channel group not found")
)
