package models

// Tag is a photo-domain tag row. Names are unique case-insensitively and
// rows are never deleted once created, even when no photo references them.
type Tag struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"` // ISO-8601 UTC
}

// TagSummary is one entry of the merged tag listing across both domains.
type TagSummary struct {
	Name       string `json:"name"`
	NoteCount  int    `json:"noteCount"`
	PhotoCount int    `json:"photoCount"`
}
