package models

// Photo represents one scanned image file.
// FilePath is relative to ROOT_DIRECTORY and is the dedup key during scans.
type Photo struct {
	ID       int64  `json:"id"`
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`

	Title       *string `json:"title"`
	Description *string `json:"description"`
	Rating      *int    `json:"rating"`     // 1..5 or null
	DateTaken   *string `json:"date_taken"` // Nullable, from EXIF when available

	FileSize *int64  `json:"file_size,omitempty"`
	Width    *int    `json:"width,omitempty"`
	Height   *int    `json:"height,omitempty"`
	MimeType *string `json:"mime_type,omitempty"`

	// relative to the thumbnails storage directory; set asynchronously
	ThumbnailPath *string `json:"-"`

	CreatedAt string `json:"created_at"` // ISO-8601 UTC
	UpdatedAt string `json:"updated_at"` // ISO-8601 UTC
}

// PhotoDetails is the API shape for a photo: the entity plus the computed
// association fields and serving URLs.
type PhotoDetails struct {
	Photo
	Tags         []string `json:"tags"`
	Albums       []int64  `json:"albums"`
	URL          string   `json:"url"`
	ThumbnailURL *string  `json:"thumbnail_url,omitempty"`
}
