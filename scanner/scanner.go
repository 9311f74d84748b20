package scanner

import (
	"fmt"
	"image"
	"io/fs"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultProbeCacheSize = 4096

// FileInfo describes one image file found under the photo root, with
// whatever metadata could be extracted. Probe failures leave the optional
// fields nil rather than failing the scan.
type FileInfo struct {
	RelPath  string // slash-separated, relative to the root
	Name     string
	Size     int64
	MimeType string
	Width    *int
	Height   *int
	TakenAt  *string
}

// Scanner walks a root directory and lists its image files. Decoded
// dimensions and EXIF data are cached per path+size+modtime so unchanged
// files are not re-probed on every rescan.
type Scanner struct {
	root  string
	cache *lru.Cache[string, probeResult]
}

type probeResult struct {
	width   *int
	height  *int
	takenAt *string
}

func New(root string, cacheSize int) (*Scanner, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid scan root '%s': %w", root, err)
	}
	if cacheSize <= 0 {
		cacheSize = defaultProbeCacheSize
	}
	cache, err := lru.New[string, probeResult](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create probe cache: %w", err)
	}
	return &Scanner{root: absRoot, cache: cache}, nil
}

// Root returns the absolute directory the scanner walks.
func (s *Scanner) Root() string { return s.root }

// Scan walks the root and returns one entry per supported image file. Any
// walk error aborts the whole scan with no partial result, so a failed
// scan never feeds a partial diff to the store.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsRasterImage(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}

		probe := s.probe(path, info.Size(), info.ModTime().Unix())
		files = append(files, FileInfo{
			RelPath:  filepath.ToSlash(rel),
			Name:     d.Name(),
			Size:     info.Size(),
			MimeType: mimeTypeFor(d.Name()),
			Width:    probe.width,
			Height:   probe.height,
			TakenAt:  probe.takenAt,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan of %s failed: %w", s.root, err)
	}
	return files, nil
}

// probe reads image dimensions and the EXIF taken-at time, caching by
// path+size+modtime. Undecodable files simply yield nil fields.
func (s *Scanner) probe(path string, size, modTime int64) probeResult {
	key := fmt.Sprintf("%s|%d|%d", path, size, modTime)
	if cached, ok := s.cache.Get(key); ok {
		return cached
	}

	var result probeResult
	if w, h, err := decodeDimensions(path); err == nil {
		result.width, result.height = &w, &h
	} else {
		log.Printf("scanner: could not decode dimensions for %s: %v", path, err)
	}
	if taken, err := exifTakenAt(path); err == nil && taken != nil {
		result.takenAt = taken
	}

	s.cache.Add(key, result)
	return result
}

func decodeDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

func mimeTypeFor(filename string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); t != "" {
		return t
	}
	return "application/octet-stream"
}
