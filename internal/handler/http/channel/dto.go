package channel

import "time"

// DTO is the wire representation of a channel.
type DTO struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	GroupID      *int64     `json:"group_id,omitempty"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}
