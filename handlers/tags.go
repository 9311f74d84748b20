package handlers

import (
	"net/http"
	"sort"

	"github.com/hollis-dev/shoeboxbackend/models"
	"github.com/hollis-dev/shoeboxbackend/store"
)

type TagHandler struct {
	Notes  *store.NoteStore
	Photos *store.PhotoStore
}

// ListTags handles GET /api/tags: the union of note tags and photo tags
// with per-domain counts, merged case-insensitively (note tags are already
// lowercase; photo tag names are lowercased for the union key) and sorted
// by name.
func (th *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	noteCounts := th.Notes.TagCounts()
	photoCounts := th.Photos.TagCounts()

	merged := make(map[string]*models.TagSummary, len(noteCounts)+len(photoCounts))
	for name, count := range noteCounts {
		merged[name] = &models.TagSummary{Name: name, NoteCount: count}
	}
	for name, count := range photoCounts {
		if entry, ok := merged[name]; ok {
			entry.PhotoCount = count
		} else {
			merged[name] = &models.TagSummary{Name: name, PhotoCount: count}
		}
	}

	tags := make([]*models.TagSummary, 0, len(merged))
	for _, entry := range merged {
		tags = append(tags, entry)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })

	writeJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})
}
