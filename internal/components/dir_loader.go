package components

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

const (
	DefaultCacheExpiration = 30 * time.Second
	DirectoryLoadTimeout   = 10 * time.Second
)

// DirectoryLoadedMsg carries a directory listing. RequestID identifies the
// load that produced it so superseded listings can be ignored.
type DirectoryLoadedMsg struct {
	Path      string
	Entries   []FileEntry
	Err       error
	RequestID uint64
}

// DirLoader lists directories off the UI loop and caches the listings.
type DirLoader struct {
	cache *cache.Cache
}

// NewDirLoader creates a loader whose listings expire after ttl.
func NewDirLoader(ttl time.Duration) *DirLoader {
	if ttl <= 0 {
		ttl = DefaultCacheExpiration
	}
	return &DirLoader{cache: cache.New(ttl, 2*ttl)}
}

// Load returns a command listing path.
func (l *DirLoader) Load(path string, requestID uint64) tea.Cmd {
	return func() tea.Msg {
		if cached, ok := l.cache.Get(path); ok {
			return DirectoryLoadedMsg{Path: path, Entries: cached.([]FileEntry), RequestID: requestID}
		}

		ctx, cancel := context.WithTimeout(context.Background(), DirectoryLoadTimeout)
		defer cancel()

		entries, err := readDirectory(ctx, path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to list directory")
			return DirectoryLoadedMsg{Path: path, Err: err, RequestID: requestID}
		}

		l.cache.SetDefault(path, entries)
		return DirectoryLoadedMsg{Path: path, Entries: entries, RequestID: requestID}
	}
}

// Invalidate drops the cached listing of path, or every listing when path
// is empty.
func (l *DirLoader) Invalidate(path string) {
	if path == "" {
		l.cache.Flush()
		return
	}
	l.cache.Delete(path)
}

func readDirectory(ctx context.Context, dirPath string) ([]FileEntry, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	dirEntries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dirPath, err)
	}

	entries := make([]FileEntry, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(dirPath, entry.Name())
		isDir := info.IsDir()
		// follow symlinks so linked folders can be entered
		if info.Mode()&os.ModeSymlink != 0 {
			if target, err := os.Stat(path); err == nil {
				isDir = target.IsDir()
			}
		}

		entries = append(entries, FileEntry{
			Name:    entry.Name(),
			Path:    path,
			IsDir:   isDir,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return entries, nil
}
