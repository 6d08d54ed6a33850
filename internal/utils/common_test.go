package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "", TruncateString("abc", 0))
	assert.Equal(t, "abc", TruncateString("abc", 3))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
	assert.Equal(t, "fun...", TruncateString("fundus_left.png", 6))
	assert.Equal(t, "ré...", TruncateString("rétine.png", 5))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "2.0 MB", FormatFileSize(2*1024*1024))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", FormatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m05s", FormatDuration(125*time.Second))
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{"Upload an image", "to see", "prediction", "results"},
		WrapText("Upload an image to see prediction results", 15))
	assert.Equal(t, []string{""}, WrapText("   ", 10))
	assert.Equal(t, []string{"unchanged"}, WrapText("unchanged", 0))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-3, 0, 10))
	assert.Equal(t, 10, Clamp(42, 0, 10))
	assert.Equal(t, 5, Clamp(5, 0, 10))
}
