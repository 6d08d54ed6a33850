// Package preview turns a selected file into displayable forms: a data URI of
// the full payload and, when the format can be decoded, a terminal thumbnail.
package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"

	// decoders registered with image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tatendakasirori/eye-disease-classification/internal/intake"
)

const (
	DefaultThumbWidth  = 40
	DefaultThumbHeight = 18

	readChunkSize = 32 * 1024
)

// Representation is the renderable form of a selected file.
type Representation struct {
	DataURI   string
	Thumbnail string
	Format    string
	Width     int
	Height    int
}

// HasThumbnail reports whether the image could be decoded for display.
func (r Representation) HasThumbnail() bool {
	return r.Thumbnail != ""
}

// Generator builds previews. The zero value uses the default thumbnail box.
type Generator struct {
	ThumbWidth  int
	ThumbHeight int
}

// NewGenerator returns a generator rendering thumbnails into a box of
// width columns by height rows.
func NewGenerator(width, height int) *Generator {
	return &Generator{ThumbWidth: width, ThumbHeight: height}
}

// Generate reads the whole file and encodes it. It blocks on I/O and is meant
// to run inside a command, never on the UI loop.
func (g *Generator) Generate(ctx context.Context, f intake.File) (Representation, error) {
	rc, err := f.Open()
	if err != nil {
		return Representation{}, &ReadError{Name: f.Name, Err: err}
	}
	defer rc.Close()

	data, err := readAll(ctx, rc)
	if err != nil {
		return Representation{}, &ReadError{Name: f.Name, Err: err}
	}
	if len(data) == 0 {
		return Representation{}, &ReadError{Name: f.Name, Err: errors.New("file is empty")}
	}

	rep := Representation{
		DataURI: EncodeDataURI(f.MediaType, data),
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// SVG and unknown raster formats still get a data URI.
		return rep, nil
	}

	bounds := img.Bounds()
	rep.Format = format
	rep.Width = bounds.Dx()
	rep.Height = bounds.Dy()
	rep.Thumbnail = RenderThumbnail(img, g.width(), g.height())

	return rep, nil
}

func (g *Generator) width() int {
	if g == nil || g.ThumbWidth <= 0 {
		return DefaultThumbWidth
	}
	return g.ThumbWidth
}

func (g *Generator) height() int {
	if g == nil || g.ThumbHeight <= 0 {
		return DefaultThumbHeight
	}
	return g.ThumbHeight
}

// EncodeDataURI encodes data as a base64 data URI.
func EncodeDataURI(mediaType string, data []byte) string {
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(data))
}

func readAll(ctx context.Context, r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		n, err := r.Read(chunk)
		buf.Write(chunk[:n])
		if errors.Is(err, io.EOF) {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}
