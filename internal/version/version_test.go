package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	oldVersion, oldCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = oldVersion, oldCommit })

	Version = "1.2.0"
	GitCommit = "abcdef0123456"
	assert.Equal(t, "1.2.0-abcdef0", Short())
	assert.Equal(t, "retina-tui/1.2.0-abcdef0", UserAgent())

	GitCommit = ""
	assert.Equal(t, "1.2.0", Short())
	assert.Equal(t, "1.2.0", Get().Version)
	assert.NotEmpty(t, Get().GoVersion)
}
