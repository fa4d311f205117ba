package group

// DTO is the wire representation of a channel group.
type DTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
