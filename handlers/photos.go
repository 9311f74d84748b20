package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hollis-dev/shoeboxbackend/store"
)

type PhotoHandler struct {
	Store *store.PhotoStore
}

// ListPhotos handles GET /api/photos with album, tag, search, sort, order,
// page and limit query parameters.
func (ph *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := store.PhotoListOptions{
		Tag:    q.Get("tag"),
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
		Page:   queryInt(q, "page", 1),
		Limit:  queryInt(q, "limit", 0),
	}
	if albumRaw := q.Get("album"); albumRaw != "" {
		albumID, err := strconv.ParseInt(albumRaw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "album must be an integer ID")
			return
		}
		opts.AlbumID = albumID
	}

	photos, total := ph.Store.ListPhotos(opts)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"photos": photos,
		"total":  total,
		"page":   pageOrDefault(opts.Page),
		"limit":  store.EffectivePhotoLimit(opts.Limit),
	})
}

// GetPhoto handles GET /api/photos/{id}.
func (ph *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := photoID(w, r)
	if !ok {
		return
	}
	photo, err := ph.Store.GetPhoto(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

// UpdatePhoto handles PATCH /api/photos/{id}. The body is a partial
// update: only provided fields are applied, and an explicit null clears a
// field, so presence is tracked per field rather than inferred from nil.
func (ph *PhotoHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := photoID(w, r)
	if !ok {
		return
	}

	var req struct {
		Title       json.RawMessage `json:"title"`
		Description json.RawMessage `json:"description"`
		Rating      json.RawMessage `json:"rating"`
		DateTaken   json.RawMessage `json:"date_taken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var upd store.PhotoMetadataUpdate
	if req.Title != nil {
		upd.SetTitle = true
		if !isJSONNull(req.Title) {
			var title string
			if err := json.Unmarshal(req.Title, &title); err != nil {
				writeError(w, http.StatusBadRequest, "title must be a string")
				return
			}
			upd.Title = &title
		}
	}
	if req.Description != nil {
		upd.SetDescription = true
		if !isJSONNull(req.Description) {
			var desc string
			if err := json.Unmarshal(req.Description, &desc); err != nil {
				writeError(w, http.StatusBadRequest, "description must be a string")
				return
			}
			upd.Description = &desc
		}
	}
	if req.Rating != nil {
		upd.SetRating = true
		if !isJSONNull(req.Rating) {
			var rating int
			if err := json.Unmarshal(req.Rating, &rating); err != nil {
				writeError(w, http.StatusBadRequest, "rating must be an integer between 1 and 5")
				return
			}
			upd.Rating = &rating
		}
	}
	if req.DateTaken != nil {
		upd.SetDateTaken = true
		if !isJSONNull(req.DateTaken) {
			var taken string
			if err := json.Unmarshal(req.DateTaken, &taken); err != nil {
				writeError(w, http.StatusBadRequest, "date_taken must be a string")
				return
			}
			upd.DateTaken = &taken
		}
	}

	photo, err := ph.Store.UpdatePhotoMetadata(id, upd)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

// AddPhotoTag handles POST /api/photos/{id}/tags.
func (ph *PhotoHandler) AddPhotoTag(w http.ResponseWriter, r *http.Request) {
	id, ok := photoID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	photo, err := ph.Store.AddPhotoTag(id, req.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

// RemovePhotoTag handles DELETE /api/photos/{id}/tags/{name}.
func (ph *PhotoHandler) RemovePhotoTag(w http.ResponseWriter, r *http.Request) {
	id, ok := photoID(w, r)
	if !ok {
		return
	}
	if err := ph.Store.RemovePhotoTag(id, chi.URLParam(r, "name")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func photoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Photo not found")
		return 0, false
	}
	return id, true
}

func isJSONNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
