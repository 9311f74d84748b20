package handlers

import (
	"log"
	"net/http"

	"github.com/hollis-dev/shoeboxbackend/scanner"
	"github.com/hollis-dev/shoeboxbackend/store"
	"github.com/hollis-dev/shoeboxbackend/workers"
)

type ScanHandler struct {
	Scanner  *scanner.Scanner
	Store    *store.PhotoStore
	ThumbGen *workers.ThumbnailGenerator
}

// Scan handles POST /api/scan: walk the photo root, reconcile the photo
// collection against the listing, and queue thumbnails for anything new.
// A failed walk applies no changes at all.
func (sh *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	result, err := sh.Run()
	if err != nil {
		log.Printf("Scan failed: %v", err)
		writeError(w, http.StatusInternalServerError, "scan failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Run performs one reconciliation pass. It is shared by the HTTP endpoint
// and the filesystem watcher.
func (sh *ScanHandler) Run() (*store.ScanResult, error) {
	files, err := sh.Scanner.Scan()
	if err != nil {
		return nil, err
	}

	result := sh.Store.Reconcile(files)
	log.Printf("Scan complete: %d added, %d removed, %d total", result.Added, result.Removed, result.Total)

	if sh.ThumbGen != nil {
		for _, photo := range result.AddedPhotos {
			sh.ThumbGen.Enqueue(workers.ThumbnailJob{
				PhotoID:      photo.ID,
				RelativePath: photo.FilePath,
			})
		}
	}
	return result, nil
}
