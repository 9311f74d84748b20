package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hollis-dev/shoeboxbackend/store"
)

type NoteHandler struct {
	Store *store.NoteStore
}

// ListNotes handles GET /api/notes with tag, search, sort, order, page and
// limit query parameters.
func (nh *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := store.NoteListOptions{
		Tag:    q.Get("tag"),
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
		Page:   queryInt(q, "page", 1),
		Limit:  queryInt(q, "limit", 0),
	}

	notes, total := nh.Store.List(opts)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notes": notes,
		"total": total,
		"page":  pageOrDefault(opts.Page),
		"limit": store.EffectiveNoteLimit(opts.Limit),
	})
}

// CreateNote handles POST /api/notes.
func (nh *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string          `json:"content"`
		Tags    json.RawMessage `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	tags, ok := decodeTagArray(req.Tags)
	if !ok {
		writeError(w, http.StatusBadRequest, "tags must be an array")
		return
	}

	note, err := nh.Store.Create(req.Content, tags)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// GetNote handles GET /api/notes/{id}.
func (nh *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := nh.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateNote handles PATCH /api/notes/{id}; only content is editable here.
func (nh *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	note, err := nh.Store.UpdateContent(chi.URLParam(r, "id"), req.Content)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}.
func (nh *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := nh.Store.Delete(chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// AddNoteTags handles POST /api/notes/{id}/tags.
func (nh *NoteHandler) AddNoteTags(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tags json.RawMessage `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	// unlike create, this endpoint has no meaning without tags, so both an
	// absent field and an explicit null are shape errors
	tags, ok := decodeTagArray(req.Tags)
	if !ok || req.Tags == nil || isJSONNull(req.Tags) {
		writeError(w, http.StatusBadRequest, "tags must be an array")
		return
	}

	note, err := nh.Store.AddTags(chi.URLParam(r, "id"), tags)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// RemoveNoteTag handles DELETE /api/notes/{id}/tags/{tag}. The tag segment
// arrives URL-encoded; the store normalizes it before lookup.
func (nh *NoteHandler) RemoveNoteTag(w http.ResponseWriter, r *http.Request) {
	rawTag := chi.URLParam(r, "tag")
	if decoded, err := url.PathUnescape(rawTag); err == nil {
		rawTag = decoded
	}

	note, err := nh.Store.RemoveTag(chi.URLParam(r, "id"), rawTag)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// decodeTagArray accepts an absent or null tags field (no tags) or a JSON
// string array. Anything else is a shape error.
func decodeTagArray(raw json.RawMessage) ([]string, bool) {
	if raw == nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, true
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, false
	}
	return tags, true
}

func queryInt(q url.Values, key string, fallback int) int {
	raw := q.Get(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}

func pageOrDefault(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
