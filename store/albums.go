package store

import (
	"sort"

	"github.com/hollis-dev/shoeboxbackend/models"
)

// CreateAlbum validates and stores a new album. Name uniqueness is
// case-sensitive over the stored names.
func (ps *PhotoStore) CreateAlbum(name string, description *string, coverPhotoID *int64) (*models.AlbumDetails, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if name == "" {
		return nil, validationErr("Album name is required")
	}
	for _, album := range ps.albums {
		if album.Name == name {
			return nil, conflictErr("Album name already exists")
		}
	}
	if coverPhotoID != nil {
		if _, ok := ps.photos[*coverPhotoID]; !ok {
			return nil, notFoundErr("Photo not found")
		}
	}

	now := nowISO()
	album := &models.Album{
		ID:           ps.nextAlbumID,
		Name:         name,
		Description:  description,
		CoverPhotoID: coverPhotoID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	ps.nextAlbumID++
	ps.albums[album.ID] = album
	return ps.albumDetails(album), nil
}

// GetAlbum returns one album with its computed fields.
func (ps *PhotoStore) GetAlbum(id int64) (*models.AlbumDetails, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	album, ok := ps.albums[id]
	if !ok {
		return nil, notFoundErr("Album not found")
	}
	return ps.albumDetails(album), nil
}

// ListAlbums returns every album ordered by name.
func (ps *PhotoStore) ListAlbums() []*models.AlbumDetails {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	out := make([]*models.AlbumDetails, 0, len(ps.albums))
	for _, album := range ps.albums {
		out = append(out, ps.albumDetails(album))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// AlbumUpdate is a partial album update with per-field presence flags;
// nil with the flag set clears the field (description, cover).
type AlbumUpdate struct {
	SetName bool
	Name    string

	SetDescription bool
	Description    *string

	SetCoverPhotoID bool
	CoverPhotoID    *int64
}

// UpdateAlbum applies the provided fields. Renaming to a name held by a
// different album fails with a conflict; renaming to the album's own name
// is allowed.
func (ps *PhotoStore) UpdateAlbum(id int64, upd AlbumUpdate) (*models.AlbumDetails, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	album, ok := ps.albums[id]
	if !ok {
		return nil, notFoundErr("Album not found")
	}
	if upd.SetName {
		if upd.Name == "" {
			return nil, validationErr("Album name is required")
		}
		for _, other := range ps.albums {
			if other.ID != id && other.Name == upd.Name {
				return nil, conflictErr("Album name already exists")
			}
		}
	}
	if upd.SetCoverPhotoID && upd.CoverPhotoID != nil {
		if _, ok := ps.photos[*upd.CoverPhotoID]; !ok {
			return nil, notFoundErr("Photo not found")
		}
	}

	changed := false
	if upd.SetName {
		album.Name = upd.Name
		changed = true
	}
	if upd.SetDescription {
		album.Description = upd.Description
		changed = true
	}
	if upd.SetCoverPhotoID {
		album.CoverPhotoID = upd.CoverPhotoID
		changed = true
	}
	if changed {
		album.UpdatedAt = nowISO()
	}
	return ps.albumDetails(album), nil
}

// DeleteAlbum removes the album and cascades its membership pairs. Photos
// themselves are untouched.
func (ps *PhotoStore) DeleteAlbum(id int64) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, ok := ps.albums[id]; !ok {
		return notFoundErr("Album not found")
	}
	delete(ps.albums, id)

	pairs := ps.photoAlbums[:0]
	for _, pair := range ps.photoAlbums {
		if pair.AlbumID != id {
			pairs = append(pairs, pair)
		}
	}
	ps.photoAlbums = pairs
	return nil
}

// AddPhotosToAlbum adds membership pairs for every listed photo. All photo
// IDs are validated before any pair is written; duplicate pairs are
// skipped.
func (ps *PhotoStore) AddPhotosToAlbum(albumID int64, photoIDs []int64) (*models.AlbumDetails, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	album, ok := ps.albums[albumID]
	if !ok {
		return nil, notFoundErr("Album not found")
	}
	for _, photoID := range photoIDs {
		if _, ok := ps.photos[photoID]; !ok {
			return nil, notFoundErr("Photo not found")
		}
	}

	for _, photoID := range photoIDs {
		if !ps.hasAlbumPair(photoID, albumID) {
			ps.photoAlbums = append(ps.photoAlbums, photoAlbumPair{PhotoID: photoID, AlbumID: albumID})
		}
	}
	return ps.albumDetails(album), nil
}

// RemovePhotoFromAlbum removes one membership pair.
func (ps *PhotoStore) RemovePhotoFromAlbum(albumID, photoID int64) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, ok := ps.albums[albumID]; !ok {
		return notFoundErr("Album not found")
	}
	for i, pair := range ps.photoAlbums {
		if pair.AlbumID == albumID && pair.PhotoID == photoID {
			ps.photoAlbums = append(ps.photoAlbums[:i], ps.photoAlbums[i+1:]...)
			return nil
		}
	}
	return notFoundErr("photo not in this album")
}

func (ps *PhotoStore) hasAlbumPair(photoID, albumID int64) bool {
	for _, pair := range ps.photoAlbums {
		if pair.PhotoID == photoID && pair.AlbumID == albumID {
			return true
		}
	}
	return false
}

// albumDetails builds the API view: membership count plus the effective
// cover (explicit value, else the first photo joined to the album).
// Callers hold at least a read lock.
func (ps *PhotoStore) albumDetails(album *models.Album) *models.AlbumDetails {
	details := &models.AlbumDetails{Album: *album}
	for _, pair := range ps.photoAlbums {
		if pair.AlbumID == album.ID {
			details.PhotoCount++
			if details.CoverPhotoID == nil && album.CoverPhotoID == nil {
				photoID := pair.PhotoID
				details.CoverPhotoID = &photoID
			}
		}
	}
	if album.CoverPhotoID != nil {
		details.CoverPhotoID = album.CoverPhotoID
	}
	return details
}
