// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Channel, ChannelGroup and NewsItem,
// along with their validation rules and domain-specific errors.
package entity

import (
	"strings"
	"time"
)

// Channel represents a tracked external broadcast channel.
// Name doubles as the lookup key handed to the channel source adapter.
// LastSyncedAt is the freshness watermark: nil means the channel has never
// produced a successful sync with new content.
type Channel struct {
	ID           int64
	Name         string
	GroupID      *int64
	LastSyncedAt *time.Time
}

// Validate checks the Channel fields that user input can influence.
func (c *Channel) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if strings.ContainsAny(name, " \t\n/") {
		return &ValidationError{Field: "name", Message: "must not contain whitespace or slashes"}
	}
	return nil
}

// ChannelGroup is a user-defined label a channel can be attached to.
// Deleting a group detaches its channels, it never deletes them.
type ChannelGroup struct {
	ID   int64
	Name string
}

// Validate checks the ChannelGroup fields.
func (g *ChannelGroup) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	return nil
}
