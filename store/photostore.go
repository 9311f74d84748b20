package store

import (
	"strings"
	"sync"

	"github.com/hollis-dev/shoeboxbackend/models"
	"github.com/hollis-dev/shoeboxbackend/scanner"
)

// Serving prefixes baked into the computed photo URLs. The routes in main
// mount the asset servers at the same prefixes.
const (
	OriginalURLPrefix = "/media/original/"
	// thumbnail paths are stored relative to the media storage base
	// (e.g. "thumbnails/<uuid>.jpg"), so the prefix is the mount point of
	// the whole storage tree
	ThumbnailURLPrefix = "/media/"
)

type photoAlbumPair struct {
	PhotoID int64
	AlbumID int64
}

type photoTagPair struct {
	PhotoID int64
	TagID   int64
}

// PhotoStore owns the photo collection, the album collection, the tag rows,
// and the two membership join tables, all guarded by one mutex. The joins
// are kept as ordered pair lists and scanned per request; unlike the note
// tag index, tag rows are never pruned when their last join disappears.
type PhotoStore struct {
	mu sync.RWMutex

	photos      map[int64]*models.Photo
	byPath      map[string]int64
	nextPhotoID int64

	albums      map[int64]*models.Album
	nextAlbumID int64

	tags      map[int64]*models.Tag
	nextTagID int64

	photoAlbums []photoAlbumPair
	photoTags   []photoTagPair
}

func NewPhotoStore() *PhotoStore {
	return &PhotoStore{
		photos:      make(map[int64]*models.Photo),
		byPath:      make(map[string]int64),
		nextPhotoID: 1,
		albums:      make(map[int64]*models.Album),
		nextAlbumID: 1,
		tags:        make(map[int64]*models.Tag),
		nextTagID:   1,
	}
}

// GetPhoto returns the photo with its computed association fields.
func (ps *PhotoStore) GetPhoto(id int64) (*models.PhotoDetails, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	photo, ok := ps.photos[id]
	if !ok {
		return nil, notFoundErr("Photo not found")
	}
	return ps.photoDetails(photo), nil
}

// PhotoMetadataUpdate is a partial update with per-field presence flags.
// A set flag with a nil value clears the field: null is a legitimate value
// for every field here, so nil pointers alone cannot express "not
// provided".
type PhotoMetadataUpdate struct {
	SetTitle bool
	Title    *string

	SetDescription bool
	Description    *string

	SetRating bool
	Rating    *int

	SetDateTaken bool
	DateTaken    *string
}

// UpdatePhotoMetadata applies the provided fields and bumps updated_at.
// Validation runs fully before anything is written.
func (ps *PhotoStore) UpdatePhotoMetadata(id int64, upd PhotoMetadataUpdate) (*models.PhotoDetails, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	photo, ok := ps.photos[id]
	if !ok {
		return nil, notFoundErr("Photo not found")
	}
	if upd.SetRating && upd.Rating != nil && (*upd.Rating < 1 || *upd.Rating > 5) {
		return nil, validationErr("rating must be an integer between 1 and 5")
	}

	changed := false
	if upd.SetTitle {
		photo.Title = upd.Title
		changed = true
	}
	if upd.SetDescription {
		photo.Description = upd.Description
		changed = true
	}
	if upd.SetRating {
		photo.Rating = upd.Rating
		changed = true
	}
	if upd.SetDateTaken {
		photo.DateTaken = upd.DateTaken
		changed = true
	}
	if changed {
		photo.UpdatedAt = nowISO()
	}
	return ps.photoDetails(photo), nil
}

// AddPhotoTag attaches a tag to a photo by name. An existing tag row is
// reused case-insensitively; otherwise a new row is created with the name
// as supplied. The (photo, tag) join is deduplicated, so re-adding is a
// no-op.
func (ps *PhotoStore) AddPhotoTag(photoID int64, name string) (*models.PhotoDetails, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	photo, ok := ps.photos[photoID]
	if !ok {
		return nil, notFoundErr("Photo not found")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, validationErr("tag name is required")
	}

	tag := ps.findTagByName(trimmed)
	if tag == nil {
		tag = &models.Tag{
			ID:        ps.nextTagID,
			Name:      trimmed,
			CreatedAt: nowISO(),
		}
		ps.nextTagID++
		ps.tags[tag.ID] = tag
	}

	for _, pair := range ps.photoTags {
		if pair.PhotoID == photoID && pair.TagID == tag.ID {
			return ps.photoDetails(photo), nil
		}
	}
	ps.photoTags = append(ps.photoTags, photoTagPair{PhotoID: photoID, TagID: tag.ID})
	photo.UpdatedAt = nowISO()
	return ps.photoDetails(photo), nil
}

// RemovePhotoTag detaches a tag from a photo by name (resolved
// case-insensitively). Only the join row is removed; the tag row stays
// even when nothing references it anymore.
func (ps *PhotoStore) RemovePhotoTag(photoID int64, name string) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	photo, ok := ps.photos[photoID]
	if !ok {
		return notFoundErr("Photo not found")
	}
	tag := ps.findTagByName(strings.TrimSpace(name))
	if tag == nil {
		return notFoundErr("tag not found on this photo")
	}
	for i, pair := range ps.photoTags {
		if pair.PhotoID == photoID && pair.TagID == tag.ID {
			ps.photoTags = append(ps.photoTags[:i], ps.photoTags[i+1:]...)
			photo.UpdatedAt = nowISO()
			return nil
		}
	}
	return notFoundErr("tag not found on this photo")
}

// findTagByName resolves a tag row case-insensitively. Callers hold the
// lock.
func (ps *PhotoStore) findTagByName(name string) *models.Tag {
	for _, tag := range ps.tags {
		if strings.EqualFold(tag.Name, name) {
			return tag
		}
	}
	return nil
}

// TagCounts returns, per lowercased tag name, how many photos currently
// carry that tag. Unreferenced tag rows are kept but report no photos, so
// they do not appear here.
func (ps *PhotoStore) TagCounts() map[string]int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	counts := make(map[string]int)
	for _, pair := range ps.photoTags {
		if tag, ok := ps.tags[pair.TagID]; ok {
			counts[strings.ToLower(tag.Name)]++
		}
	}
	return counts
}

// ScanResult reports what a reconciliation changed. AddedPhotos carries
// the new entities so the caller can enqueue follow-up work (thumbnails);
// it is not part of the JSON shape.
type ScanResult struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Total   int `json:"total"`

	AddedPhotos []*models.Photo `json:"-"`
}

// Reconcile syncs the photo collection against a scanned file listing by
// file path. The add/remove diff is fully computed against the current
// state before any mutation, so a caller that fails to produce a listing
// applies nothing, and a computed diff applies completely. Removed photos
// cascade their album and tag joins; tag and album rows stay.
func (ps *PhotoStore) Reconcile(files []scanner.FileInfo) *ScanResult {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	onDisk := make(map[string]scanner.FileInfo, len(files))
	for _, f := range files {
		onDisk[f.RelPath] = f
	}

	var toAdd []scanner.FileInfo
	for _, f := range files {
		if _, known := ps.byPath[f.RelPath]; !known {
			toAdd = append(toAdd, f)
		}
	}
	var toRemove []int64
	for path, id := range ps.byPath {
		if _, still := onDisk[path]; !still {
			toRemove = append(toRemove, id)
		}
	}

	result := &ScanResult{}
	now := nowISO()
	for _, f := range toAdd {
		f := f
		photo := &models.Photo{
			ID:        ps.nextPhotoID,
			FilePath:  f.RelPath,
			FileName:  f.Name,
			FileSize:  &f.Size,
			Width:     f.Width,
			Height:    f.Height,
			MimeType:  &f.MimeType,
			DateTaken: f.TakenAt,
			CreatedAt: now,
			UpdatedAt: now,
		}
		ps.nextPhotoID++
		ps.photos[photo.ID] = photo
		ps.byPath[photo.FilePath] = photo.ID
		result.Added++
		result.AddedPhotos = append(result.AddedPhotos, clonePhoto(photo))
	}
	for _, id := range toRemove {
		ps.removePhotoLocked(id)
		result.Removed++
	}
	result.Total = len(ps.photos)
	return result
}

// removePhotoLocked deletes a photo and cascades its joins. Callers hold
// the lock.
func (ps *PhotoStore) removePhotoLocked(id int64) {
	photo, ok := ps.photos[id]
	if !ok {
		return
	}
	delete(ps.photos, id)
	delete(ps.byPath, photo.FilePath)

	albums := ps.photoAlbums[:0]
	for _, pair := range ps.photoAlbums {
		if pair.PhotoID != id {
			albums = append(albums, pair)
		}
	}
	ps.photoAlbums = albums

	tags := ps.photoTags[:0]
	for _, pair := range ps.photoTags {
		if pair.PhotoID != id {
			tags = append(tags, pair)
		}
	}
	ps.photoTags = tags
}

// SetThumbnail records the generated thumbnail path for a photo. This is
// derived state, not a user edit, so updated_at is left alone. A photo
// removed by a rescan while its thumbnail was still in the queue is
// silently skipped.
func (ps *PhotoStore) SetThumbnail(photoID int64, relPath string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	photo, ok := ps.photos[photoID]
	if !ok {
		return
	}
	photo.ThumbnailPath = &relPath
}

// photoDetails builds the API view of a photo. Callers hold at least a
// read lock. Join order is insertion order, since the pair lists are
// append-only between cascades.
func (ps *PhotoStore) photoDetails(photo *models.Photo) *models.PhotoDetails {
	details := &models.PhotoDetails{
		Photo:  *clonePhoto(photo),
		Tags:   []string{},
		Albums: []int64{},
		URL:    OriginalURLPrefix + photo.FilePath,
	}
	for _, pair := range ps.photoTags {
		if pair.PhotoID == photo.ID {
			if tag, ok := ps.tags[pair.TagID]; ok {
				details.Tags = append(details.Tags, tag.Name)
			}
		}
	}
	for _, pair := range ps.photoAlbums {
		if pair.PhotoID == photo.ID {
			details.Albums = append(details.Albums, pair.AlbumID)
		}
	}
	if photo.ThumbnailPath != nil {
		url := ThumbnailURLPrefix + *photo.ThumbnailPath
		details.ThumbnailURL = &url
	}
	return details
}

func clonePhoto(p *models.Photo) *models.Photo {
	c := *p
	return &c
}

// PhotoCount returns the number of photos currently in the store.
func (ps *PhotoStore) PhotoCount() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.photos)
}
