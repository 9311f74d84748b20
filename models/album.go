package models

// Album groups photos. Names are unique case-sensitively as stored.
type Album struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	CoverPhotoID *int64  `json:"cover_photo_id"`
	CreatedAt    string  `json:"created_at"` // ISO-8601 UTC
	UpdatedAt    string  `json:"updated_at"` // ISO-8601 UTC
}

// AlbumDetails is the API shape for an album: the entity plus the computed
// membership count and the effective cover (explicit cover, else the first
// photo added to the album, else null).
type AlbumDetails struct {
	Album
	PhotoCount   int    `json:"photo_count"`
	CoverPhotoID *int64 `json:"cover_photo_id"`
}
