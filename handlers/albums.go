package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hollis-dev/shoeboxbackend/store"
)

type AlbumHandler struct {
	Store *store.PhotoStore
}

// ListAlbums handles GET /api/albums.
func (ah *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ah.Store.ListAlbums())
}

// CreateAlbum handles POST /api/albums.
func (ah *AlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string  `json:"name"`
		Description  *string `json:"description"`
		CoverPhotoID *int64  `json:"cover_photo_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Album name is required")
		return
	}

	album, err := ah.Store.CreateAlbum(req.Name, req.Description, req.CoverPhotoID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, album)
}

// GetAlbum handles GET /api/albums/{id}.
func (ah *AlbumHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := albumID(w, r)
	if !ok {
		return
	}
	album, err := ah.Store.GetAlbum(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

// UpdateAlbum handles PATCH /api/albums/{id}; only provided fields are
// applied, and null clears description or cover.
func (ah *AlbumHandler) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := albumID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name         json.RawMessage `json:"name"`
		Description  json.RawMessage `json:"description"`
		CoverPhotoID json.RawMessage `json:"cover_photo_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var upd store.AlbumUpdate
	if req.Name != nil {
		upd.SetName = true
		if err := json.Unmarshal(req.Name, &upd.Name); err != nil {
			writeError(w, http.StatusBadRequest, "name must be a string")
			return
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
	if req.CoverPhotoID != nil {
		upd.SetCoverPhotoID = true
		if !isJSONNull(req.CoverPhotoID) {
			var cover int64
			if err := json.Unmarshal(req.CoverPhotoID, &cover); err != nil {
				writeError(w, http.StatusBadRequest, "cover_photo_id must be an integer")
				return
			}
			upd.CoverPhotoID = &cover
		}
	}

	album, err := ah.Store.UpdateAlbum(id, upd)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

// DeleteAlbum handles DELETE /api/albums/{id}.
func (ah *AlbumHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := albumID(w, r)
	if !ok {
		return
	}
	if err := ah.Store.DeleteAlbum(id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// AddPhotos handles POST /api/albums/{id}/photos.
func (ah *AlbumHandler) AddPhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := albumID(w, r)
	if !ok {
		return
	}

	var req struct {
		PhotoIDs json.RawMessage `json:"photo_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	var photoIDs []int64
	if req.PhotoIDs == nil || json.Unmarshal(req.PhotoIDs, &photoIDs) != nil {
		writeError(w, http.StatusBadRequest, "photo_ids must be an array")
		return
	}

	album, err := ah.Store.AddPhotosToAlbum(id, photoIDs)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

// RemovePhoto handles DELETE /api/albums/{id}/photos/{photoId}.
func (ah *AlbumHandler) RemovePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := albumID(w, r)
	if !ok {
		return
	}
	photoID, err := strconv.ParseInt(chi.URLParam(r, "photoId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Photo not found")
		return
	}
	if err := ah.Store.RemovePhotoFromAlbum(id, photoID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func albumID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Album not found")
		return 0, false
	}
	return id, true
}
