package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/hollis-dev/shoeboxbackend/scanner"
	"github.com/hollis-dev/shoeboxbackend/store"
)

// testAPI wires the handlers onto the same route tree main builds, backed
// by fresh stores and a scanner rooted at a per-test temp directory.
type testAPI struct {
	router *chi.Mux
	notes  *store.NoteStore
	photos *store.PhotoStore
	root   string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	root := t.TempDir()
	noteStore := store.NewNoteStore()
	photoStore := store.NewPhotoStore()
	photoScanner, err := scanner.New(root, 0)
	require.NoError(t, err)

	noteHandler := &NoteHandler{Store: noteStore}
	photoHandler := &PhotoHandler{Store: photoStore}
	albumHandler := &AlbumHandler{Store: photoStore}
	tagHandler := &TagHandler{Notes: noteStore, Photos: photoStore}
	scanHandler := &ScanHandler{Scanner: photoScanner, Store: photoStore}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/notes", func(r chi.Router) {
			r.Get("/", noteHandler.ListNotes)
			r.Post("/", noteHandler.CreateNote)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", noteHandler.GetNote)
				r.Patch("/", noteHandler.UpdateNote)
				r.Delete("/", noteHandler.DeleteNote)
				r.Post("/tags", noteHandler.AddNoteTags)
				r.Delete("/tags/{tag}", noteHandler.RemoveNoteTag)
			})
		})

		r.Get("/tags", tagHandler.ListTags)

		r.Route("/photos", func(r chi.Router) {
			r.Get("/", photoHandler.ListPhotos)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", photoHandler.GetPhoto)
				r.Patch("/", photoHandler.UpdatePhoto)
				r.Post("/tags", photoHandler.AddPhotoTag)
				r.Delete("/tags/{name}", photoHandler.RemovePhotoTag)
			})
		})

		r.Route("/albums", func(r chi.Router) {
			r.Get("/", albumHandler.ListAlbums)
			r.Post("/", albumHandler.CreateAlbum)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", albumHandler.GetAlbum)
				r.Patch("/", albumHandler.UpdateAlbum)
				r.Delete("/", albumHandler.DeleteAlbum)
				r.Post("/photos", albumHandler.AddPhotos)
				r.Delete("/photos/{photoId}", albumHandler.RemovePhoto)
			})
		})

		r.Post("/scan", scanHandler.Scan)
	})

	return &testAPI{router: r, notes: noteStore, photos: photoStore, root: root}
}

// do sends a request through the router. A string body is sent verbatim so
// tests can exercise malformed JSON; anything else is marshalled.
func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rec, &body)
	return body["error"]
}

// seedPhoto registers a photo directly through the store's reconciliation
// path and returns its ID.
func (a *testAPI) seedPhoto(t *testing.T, relPath string) int64 {
	t.Helper()

	existing, _ := a.photos.ListPhotos(store.PhotoListOptions{Limit: a.photos.PhotoCount() + 1})
	files := make([]scanner.FileInfo, 0, len(existing)+1)
	for _, p := range existing {
		files = append(files, scanner.FileInfo{RelPath: p.FilePath, Name: p.FileName, MimeType: "image/jpeg"})
	}
	files = append(files, scanner.FileInfo{RelPath: relPath, Name: relPath, MimeType: "image/jpeg"})

	result := a.photos.Reconcile(files)
	require.Equal(t, 1, result.Added)
	return result.AddedPhotos[0].ID
}
