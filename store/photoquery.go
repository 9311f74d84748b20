package store

import (
	"sort"
	"strings"

	"github.com/facette/natsort"

	"github.com/hollis-dev/shoeboxbackend/models"
)

// Photo list sort keys.
const (
	PhotoSortDate   = "date"
	PhotoSortName   = "name"
	PhotoSortRating = "rating"
)

// PhotoListOptions is the filter/search/sort/page specification for
// ListPhotos. AlbumID 0 means no album scoping.
type PhotoListOptions struct {
	AlbumID int64
	Tag     string
	Search  string
	Sort    string
	Order   string
	Page    int
	Limit   int
}

// ListPhotos runs the query pipeline in its fixed stage order: album scope,
// tag filter, text search, sort, pagination. It returns the page and the
// pre-pagination total. Unknown tags and out-of-range pages yield empty
// results, never errors.
func (ps *PhotoStore) ListPhotos(opts PhotoListOptions) ([]*models.PhotoDetails, int) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var candidates []*models.Photo
	if opts.AlbumID != 0 {
		for _, pair := range ps.photoAlbums {
			if pair.AlbumID == opts.AlbumID {
				if photo, ok := ps.photos[pair.PhotoID]; ok {
					candidates = append(candidates, photo)
				}
			}
		}
	} else {
		candidates = make([]*models.Photo, 0, len(ps.photos))
		for _, photo := range ps.photos {
			candidates = append(candidates, photo)
		}
	}

	if opts.Tag != "" {
		// photo tags resolve by row, case-insensitively, not by the
		// normalized-string index the note domain uses
		tag := ps.findTagByName(strings.TrimSpace(opts.Tag))
		if tag == nil {
			return []*models.PhotoDetails{}, 0
		}
		member := make(map[int64]struct{})
		for _, pair := range ps.photoTags {
			if pair.TagID == tag.ID {
				member[pair.PhotoID] = struct{}{}
			}
		}
		filtered := candidates[:0:0]
		for _, photo := range candidates {
			if _, ok := member[photo.ID]; ok {
				filtered = append(filtered, photo)
			}
		}
		candidates = filtered
	}

	if opts.Search != "" {
		needle := strings.ToLower(opts.Search)
		filtered := candidates[:0:0]
		for _, photo := range candidates {
			if photoMatches(photo, needle) {
				filtered = append(filtered, photo)
			}
		}
		candidates = filtered
	}

	cmp := photoComparator(opts.Sort)
	if normalizeOrder(opts.Order) == OrderDesc {
		cmp = negate(cmp)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return cmp(candidates[i], candidates[j]) < 0
	})

	total := len(candidates)
	page := paginate(candidates, opts.Page, EffectivePhotoLimit(opts.Limit))

	out := make([]*models.PhotoDetails, len(page))
	for i, photo := range page {
		out[i] = ps.photoDetails(photo)
	}
	return out, total
}

// photoMatches reports whether any of title, description, or file name
// contains the lowercased needle. Missing optional fields never match.
func photoMatches(p *models.Photo, needle string) bool {
	if p.Title != nil && strings.Contains(strings.ToLower(*p.Title), needle) {
		return true
	}
	if p.Description != nil && strings.Contains(strings.ToLower(*p.Description), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(p.FileName), needle)
}

// photoComparator returns the ascending comparator for the given sort key:
// date (created_at, the default), name (natural order over file names), or
// rating (missing treated as 0). Ties fall back to ID.
func photoComparator(key string) func(a, b *models.Photo) int {
	var base func(a, b *models.Photo) int
	switch key {
	case PhotoSortName:
		base = func(a, b *models.Photo) int {
			if a.FileName == b.FileName {
				return 0
			}
			if natsort.Compare(a.FileName, b.FileName) {
				return -1
			}
			return 1
		}
	case PhotoSortRating:
		base = func(a, b *models.Photo) int {
			return ratingOf(a) - ratingOf(b)
		}
	default:
		base = func(a, b *models.Photo) int {
			return strings.Compare(a.CreatedAt, b.CreatedAt)
		}
	}
	return func(a, b *models.Photo) int {
		if c := base(a, b); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	}
}

func ratingOf(p *models.Photo) int {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// EffectivePhotoLimit resolves a requested photo page size. Unlike notes,
// photo listings honor the requested limit without a cap.
func EffectivePhotoLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
