package news

import "time"

// DTO is the wire representation of a news item joined with its channel name.
type DTO struct {
	ID          int64     `json:"id"`
	ChannelID   int64     `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	Content     string    `json:"content"`
	MediaFile   *string   `json:"media_file,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	ExternalID  int64     `json:"external_id"`
}
