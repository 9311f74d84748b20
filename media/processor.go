package media

import (
	"fmt"
	"io"
	"log"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	ThumbnailJpegQuality   = 90
	ThumbnailFileExtension = ".jpg"
)

// Processor handles media transformations, currently thumbnailing. it
// relies on a Store implementation for saving the results.
type Processor struct {
	store Store
}

func NewProcessor(store Store) *Processor {
	return &Processor{store: store}
}

// GenerateThumbnail opens the original image, fits it within
// maxSize x maxSize preserving aspect ratio, and saves the JPEG result
// under a fresh UUID filename. returns the relative path of the saved
// thumbnail.
func (p *Processor) GenerateThumbnail(originalAbsPath string, maxSize int) (string, error) {
	originalImg, err := imaging.Open(originalAbsPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to open image '%s': %w", originalAbsPath, err)
	}

	thumb := imaging.Fit(originalImg, maxSize, maxSize, imaging.Lanczos)

	reader, writer := io.Pipe()
	go func() {
		defer writer.Close()
		err := imaging.Encode(writer, thumb, imaging.JPEG, imaging.JPEGQuality(ThumbnailJpegQuality))
		if err != nil {
			log.Printf("processor: Failed to encode thumbnail: %v", err)
			writer.CloseWithError(fmt.Errorf("thumbnail encoding failed: %w", err))
		}
	}()

	thumbUUID, err := uuid.NewRandom()
	if err != nil {
		reader.Close()
		return "", fmt.Errorf("failed to generate UUID for thumbnail: %w", err)
	}
	targetFilename := thumbUUID.String() + ThumbnailFileExtension

	savedRelPath, err := p.store.Save(AssetTypeThumbnail, targetFilename, reader)
	if err != nil {
		return "", fmt.Errorf("failed to save thumbnail via store: %w", err)
	}

	log.Printf("processor: Generated and saved thumbnail for %s at %s", originalAbsPath, savedRelPath)
	return savedRelPath, nil
}
