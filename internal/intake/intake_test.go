package intake

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func TestValidate_AcceptsImageTypes(t *testing.T) {
	types := []string{
		"image/png",
		"image/jpeg",
		"image/svg+xml",
		"image/webp",
		"IMAGE/PNG",
		"image/png; charset=binary",
		" image/gif",
	}

	for _, mediaType := range types {
		t.Run(mediaType, func(t *testing.T) {
			f := FromBytes("scan", mediaType, []byte("x"))
			accepted, err := Validate(f)
			require.NoError(t, err)
			assert.Equal(t, f.ID, accepted.ID)
		})
	}
}

func TestValidate_RejectsOtherTypes(t *testing.T) {
	types := []string{
		"",
		"text/plain",
		"application/pdf",
		"application/octet-stream",
		"video/mp4",
		"imagex/png",
		"application/image",
	}

	for _, mediaType := range types {
		t.Run(mediaType, func(t *testing.T) {
			_, err := Validate(FromBytes("notes.txt", mediaType, nil))
			require.Error(t, err)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, mediaType, vErr.MediaType)
			assert.Equal(t, "Please select a valid image file (JPG, PNG, SVG)", err.Error())
		})
	}
}

func TestValidate_NoStateBetweenCalls(t *testing.T) {
	_, err := Validate(FromBytes("a.txt", "text/plain", nil))
	require.Error(t, err)

	_, err = Validate(FromBytes("b.png", "image/png", nil))
	require.NoError(t, err)

	_, err = Validate(FromBytes("c.txt", "text/plain", nil))
	require.Error(t, err)
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "fundus.png")
	require.NoError(t, os.WriteFile(pngPath, pngHeader, 0o644))

	txtPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("hello"), 0o644))

	noExt := filepath.Join(dir, "capture")
	require.NoError(t, os.WriteFile(noExt, pngHeader, 0o644))

	t.Run("extension declares type", func(t *testing.T) {
		f, err := FromPath(pngPath)
		require.NoError(t, err)
		assert.Equal(t, "fundus.png", f.Name)
		assert.Equal(t, "image/png", f.MediaType)
		assert.Equal(t, int64(len(pngHeader)), f.Size)
		assert.False(t, f.IsZero())

		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, pngHeader, data)
	})

	t.Run("text file", func(t *testing.T) {
		f, err := FromPath(txtPath)
		require.NoError(t, err)
		assert.Contains(t, f.MediaType, "text/plain")
	})

	t.Run("content sniffed without extension", func(t *testing.T) {
		f, err := FromPath(noExt)
		require.NoError(t, err)
		assert.Equal(t, "image/png", f.MediaType)
	})

	t.Run("each selection gets a new identity", func(t *testing.T) {
		a, err := FromPath(pngPath)
		require.NoError(t, err)
		b, err := FromPath(pngPath)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := FromPath(filepath.Join(dir, "missing.png"))
		require.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := FromPath(dir)
		require.Error(t, err)
	})
}

func TestParseDrop(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected string
	}{
		{name: "plain path", payload: "/tmp/eye.png", expected: "/tmp/eye.png"},
		{name: "trailing newline", payload: "/tmp/eye.png\n", expected: "/tmp/eye.png"},
		{name: "escaped spaces", payload: `/tmp/left\ eye.png`, expected: "/tmp/left eye.png"},
		{name: "single quoted", payload: `'/tmp/left eye.png'`, expected: "/tmp/left eye.png"},
		{name: "double quoted", payload: `"/tmp/left eye.png" `, expected: "/tmp/left eye.png"},
		{name: "file uri", payload: "file:///tmp/left%20eye.png", expected: "/tmp/left eye.png"},
		{name: "several files keeps first", payload: "/tmp/a.png /tmp/b.png", expected: "/tmp/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := ParseDrop(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, path)
		})
	}

	t.Run("empty payload", func(t *testing.T) {
		_, err := ParseDrop("   ")
		assert.ErrorIs(t, err, ErrEmptyDrop)
	})
}
