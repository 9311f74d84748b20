package store

import (
	"sort"
	"strings"

	"github.com/hollis-dev/shoeboxbackend/models"
)

// Note list sort keys and directions.
const (
	NoteSortCreated = "createdAt"
	NoteSortUpdated = "updatedAt"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

const (
	// DefaultListLimit is the page size when none is requested.
	DefaultListLimit = 50
	// MaxNoteListLimit caps the effective note page size regardless of the
	// requested value. Photo listings are not capped.
	MaxNoteListLimit = 100
)

// NoteListOptions is the filter/search/sort/page specification for List.
// Zero values mean "no filter" / defaults (createdAt, desc, page 1).
type NoteListOptions struct {
	Tag    string
	Search string
	Sort   string
	Order  string
	Page   int
	Limit  int
}

// List runs the query pipeline: tag filter, then text search, then sort,
// then pagination. It returns the requested page and the pre-pagination
// total. An unknown tag yields an empty result, not an error; an
// out-of-range page yields an empty slice.
func (ns *NoteStore) List(opts NoteListOptions) ([]*models.Note, int) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	var candidates []*models.Note
	if opts.Tag != "" {
		bucket := ns.index.Bucket(NormalizeTag(opts.Tag))
		candidates = make([]*models.Note, 0, len(bucket))
		for id := range bucket {
			candidates = append(candidates, ns.notes[id])
		}
	} else {
		candidates = make([]*models.Note, 0, len(ns.notes))
		for _, note := range ns.notes {
			candidates = append(candidates, note)
		}
	}

	if opts.Search != "" {
		needle := strings.ToLower(opts.Search)
		filtered := candidates[:0]
		for _, note := range candidates {
			if strings.Contains(strings.ToLower(note.Content), needle) {
				filtered = append(filtered, note)
			}
		}
		candidates = filtered
	}

	cmp := noteComparator(opts.Sort)
	if normalizeOrder(opts.Order) == OrderDesc {
		cmp = negate(cmp)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return cmp(candidates[i], candidates[j]) < 0
	})

	total := len(candidates)
	page := paginate(candidates, opts.Page, EffectiveNoteLimit(opts.Limit))

	out := make([]*models.Note, len(page))
	for i, note := range page {
		out[i] = cloneNote(note)
	}
	return out, total
}

// noteComparator returns the ascending comparator for the given sort key.
// ISO-8601 timestamps compare lexicographically, which is chronological for
// the fixed-width layout the store writes. Ties fall back to ID so ordering
// is deterministic.
func noteComparator(key string) func(a, b *models.Note) int {
	field := func(n *models.Note) string { return n.CreatedAt }
	if key == NoteSortUpdated {
		field = func(n *models.Note) string { return n.UpdatedAt }
	}
	return func(a, b *models.Note) int {
		if c := strings.Compare(field(a), field(b)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	}
}

// negate flips a comparator; descending order is the negation of ascending,
// not a second code path, so tie-breaking stays consistent.
func negate[T any](cmp func(a, b T) int) func(a, b T) int {
	return func(a, b T) int { return -cmp(a, b) }
}

func normalizeOrder(order string) string {
	if order == OrderAsc {
		return OrderAsc
	}
	return OrderDesc
}

// EffectiveNoteLimit resolves a requested note page size: defaults apply
// when unset, and the result never exceeds MaxNoteListLimit.
func EffectiveNoteLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxNoteListLimit {
		return MaxNoteListLimit
	}
	return limit
}

// paginate slices out the 1-indexed page of size limit. Pages past the end
// yield an empty slice, never an error. The page bound is checked before
// multiplying so absurd page numbers cannot overflow the start offset.
func paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit < 1 || page-1 > (len(items)-1)/limit {
		return nil
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
