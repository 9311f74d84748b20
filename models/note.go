package models

// Note represents a single text note with its attached tags.
// Tags are stored normalized (trimmed, lowercased) in insertion order.
type Note struct {
	ID        string   `json:"id"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"createdAt"` // ISO-8601 UTC
	UpdatedAt string   `json:"updatedAt"` // ISO-8601 UTC
}
