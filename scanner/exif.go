package scanner

import (
	"os"

	"github.com/rwcarlsen/goexif/exif"
)

// exifTakenAt extracts the original capture time from EXIF data, formatted
// as an ISO-8601 date string. Files without EXIF (or without a DateTime
// tag) return nil without an error worth surfacing.
func exifTakenAt(path string) (*string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	exifData, err := exif.Decode(f)
	if err != nil || exifData == nil {
		return nil, nil
	}
	taken, err := exifData.DateTime()
	if err != nil {
		return nil, nil
	}
	formatted := taken.Format("2006-01-02T15:04:05Z")
	return &formatted, nil
}
