package intake

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// sniffLimit is how much of a file is inspected when its extension does not
// declare a media type.
const sniffLimit = 3072

// File is a user-selected file prior to submission. A File is never mutated;
// selecting again always produces a new File with a new ID.
type File struct {
	ID        uuid.UUID
	Name      string
	Path      string
	MediaType string
	Size      int64

	open func() (io.ReadCloser, error)
}

// Open returns a reader over the full file contents.
func (f File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %q has no content source", f.Name)
	}
	return f.open()
}

// IsZero reports whether f is the zero File (no selection).
func (f File) IsZero() bool {
	return f.ID == uuid.Nil
}

// FromPath builds a File from the filesystem. Name, size and declared media
// type are resolved synchronously; the contents are read later through Open.
func FromPath(path string) (File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return File{}, fmt.Errorf("failed to access %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}

	return File{
		ID:        uuid.New(),
		Name:      info.Name(),
		Path:      abs,
		MediaType: declaredType(abs),
		Size:      info.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(abs)
		},
	}, nil
}

// FromBytes builds a File over an in-memory payload.
func FromBytes(name, mediaType string, data []byte) File {
	payload := bytes.Clone(data)
	return File{
		ID:        uuid.New(),
		Name:      name,
		MediaType: mediaType,
		Size:      int64(len(payload)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(payload)), nil
		},
	}
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// TypeByExtension returns the media type declared by a file name's extension,
// or "" when the extension is unknown.
func TypeByExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	if t, ok := imageTypes[ext]; ok {
		return t
	}
	return mime.TypeByExtension(ext)
}

// declaredType mirrors what a browser reports as File.type: the extension
// decides, and content is only consulted when the extension is unknown.
func declaredType(path string) string {
	if t := TypeByExtension(path); t != "" {
		return t
	}

	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	head := make([]byte, sniffLimit)
	n, _ := io.ReadFull(f, head)
	if n == 0 {
		return ""
	}
	return mimetype.Detect(head[:n]).String()
}
