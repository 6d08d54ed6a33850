package components

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tatendakasirori/eye-disease-classification/internal/intake"
	"github.com/tatendakasirori/eye-disease-classification/internal/theme"
	"github.com/tatendakasirori/eye-disease-classification/internal/utils"
)

// FileBrowser is the image picker. Directory listings load asynchronously
// through a DirLoader; by default only directories and image files show.
type FileBrowser struct {
	currentPath string
	listing     []FileEntry
	entries     []FileEntry
	cursor      int
	startIndex  int

	showAll    bool
	showHidden bool

	width  int
	height int

	loader    *DirLoader
	requestID uint64
	loading   bool
	loadError error
}

type FileEntry struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// IsImage reports whether the entry's extension declares an image type.
func (e FileEntry) IsImage() bool {
	return !e.IsDir && intake.IsImageType(intake.TypeByExtension(e.Name))
}

// NewFileBrowser creates a browser rooted at path. Call Load to list it.
func NewFileBrowser(path string, loader *DirLoader) *FileBrowser {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if loader == nil {
		loader = NewDirLoader(DefaultCacheExpiration)
	}
	return &FileBrowser{
		currentPath: path,
		loader:      loader,
		width:       60,
		height:      20,
	}
}

func (fb *FileBrowser) SetSize(width, height int) *FileBrowser {
	fb.width = width
	fb.height = height
	fb.updateScrollPosition()
	return fb
}

func (fb *FileBrowser) SetShowAll(show bool) *FileBrowser {
	fb.showAll = show
	fb.applyFilter()
	return fb
}

func (fb *FileBrowser) ShowAll() bool {
	return fb.showAll
}

func (fb *FileBrowser) CurrentPath() string {
	return fb.currentPath
}

func (fb *FileBrowser) Loading() bool {
	return fb.loading
}

// Entries returns the visible entries.
func (fb *FileBrowser) Entries() []FileEntry {
	return fb.entries
}

// Load lists the current directory.
func (fb *FileBrowser) Load() tea.Cmd {
	return fb.navigate(fb.currentPath)
}

// Refresh drops the cached listing and lists the directory again.
func (fb *FileBrowser) Refresh() tea.Cmd {
	fb.loader.Invalidate(fb.currentPath)
	return fb.navigate(fb.currentPath)
}

func (fb *FileBrowser) navigate(path string) tea.Cmd {
	fb.requestID++
	fb.currentPath = path
	fb.loading = true
	fb.loadError = nil
	return fb.loader.Load(path, fb.requestID)
}

// HandleLoaded applies a listing. It returns false for listings of a
// superseded request.
func (fb *FileBrowser) HandleLoaded(msg DirectoryLoadedMsg) bool {
	if msg.RequestID != fb.requestID {
		return false
	}

	fb.loading = false
	fb.loadError = msg.Err
	fb.listing = msg.Entries
	fb.cursor = 0
	fb.startIndex = 0
	fb.applyFilter()
	return true
}

func (fb *FileBrowser) applyFilter() {
	entries := make([]FileEntry, 0, len(fb.listing)+1)

	if parent := filepath.Dir(fb.currentPath); parent != fb.currentPath {
		entries = append(entries, FileEntry{Name: "..", Path: parent, IsDir: true})
	}

	for _, entry := range fb.listing {
		if !fb.showHidden && strings.HasPrefix(entry.Name, ".") {
			continue
		}
		if !fb.showAll && !entry.IsDir && !entry.IsImage() {
			continue
		}
		entries = append(entries, entry)
	}

	sortEntries(entries)
	fb.entries = entries
	if fb.cursor >= len(fb.entries) {
		fb.cursor = len(fb.entries) - 1
	}
	if fb.cursor < 0 {
		fb.cursor = 0
	}
	fb.updateScrollPosition()
}

// sortEntries puts ".." first, then directories, then files, by name
func sortEntries(entries []FileEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Name == ".." || entries[j].Name == ".." {
			return entries[i].Name == ".."
		}
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

// Navigation methods
func (fb *FileBrowser) MoveUp() {
	if fb.cursor > 0 {
		fb.cursor--
		fb.updateScrollPosition()
	}
}

func (fb *FileBrowser) MoveDown() {
	if fb.cursor < len(fb.entries)-1 {
		fb.cursor++
		fb.updateScrollPosition()
	}
}

func (fb *FileBrowser) PageUp() {
	fb.cursor = utils.Clamp(fb.cursor-fb.visibleHeight(), 0, len(fb.entries)-1)
	fb.updateScrollPosition()
}

func (fb *FileBrowser) PageDown() {
	fb.cursor = utils.Clamp(fb.cursor+fb.visibleHeight(), 0, len(fb.entries)-1)
	fb.updateScrollPosition()
}

func (fb *FileBrowser) visibleHeight() int {
	// breadcrumb, divider and footer
	return max(1, fb.height-3)
}

func (fb *FileBrowser) updateScrollPosition() {
	visible := fb.visibleHeight()

	if fb.cursor < fb.startIndex {
		fb.startIndex = fb.cursor
	} else if fb.cursor >= fb.startIndex+visible {
		fb.startIndex = fb.cursor - visible + 1
	}

	maxStart := max(0, len(fb.entries)-visible)
	fb.startIndex = utils.Clamp(fb.startIndex, 0, maxStart)
}

// Selected returns the entry under the cursor.
func (fb *FileBrowser) Selected() (FileEntry, bool) {
	if fb.cursor < 0 || fb.cursor >= len(fb.entries) {
		return FileEntry{}, false
	}
	return fb.entries[fb.cursor], true
}

// Enter opens the directory under the cursor, returning its load command, or
// returns the path of the file under the cursor.
func (fb *FileBrowser) Enter() (tea.Cmd, string) {
	entry, ok := fb.Selected()
	if !ok || fb.loading {
		return nil, ""
	}
	if entry.IsDir {
		return fb.navigate(entry.Path), ""
	}
	return nil, entry.Path
}

// Parent lists the parent directory.
func (fb *FileBrowser) Parent() tea.Cmd {
	parent := filepath.Dir(fb.currentPath)
	if parent == fb.currentPath {
		return nil
	}
	return fb.navigate(parent)
}

func (fb *FileBrowser) Render() string {
	lines := make([]string, 0, fb.height)
	lines = append(lines, fb.renderHeader(), theme.RenderDivider(fb.width))

	switch {
	case fb.loading:
		lines = append(lines, theme.TextDimStyle.Render("Loading..."))
	case fb.loadError != nil:
		lines = append(lines, theme.RenderStatus("error", fb.loadError.Error()))
	case len(fb.entries) == 0:
		lines = append(lines, theme.TextDimStyle.Render("No images in this folder"))
	default:
		end := min(fb.startIndex+fb.visibleHeight(), len(fb.entries))
		for i := fb.startIndex; i < end; i++ {
			lines = append(lines, fb.renderFileEntry(fb.entries[i], i == fb.cursor))
		}
	}

	for len(lines) < fb.height-1 {
		lines = append(lines, "")
	}
	lines = append(lines[:max(0, fb.height-1)], fb.renderFooter())

	return strings.Join(lines, "\n")
}

func (fb *FileBrowser) renderHeader() string {
	parts := strings.Split(strings.Trim(fb.currentPath, string(os.PathSeparator)), string(os.PathSeparator))
	return theme.RenderBreadcrumb(parts, fb.width)
}

func (fb *FileBrowser) renderFileEntry(entry FileEntry, focused bool) string {
	icon := theme.IconFile
	switch {
	case entry.IsDir:
		icon = theme.IconFolder
	case entry.IsImage():
		icon = theme.IconImage
	}

	sizeStr := ""
	if !entry.IsDir {
		sizeStr = utils.FormatFileSize(entry.Size)
	}

	nameWidth := max(4, fb.width-14)
	content := fmt.Sprintf(" %s %-*s %10s", icon, nameWidth, utils.TruncateString(entry.Name, nameWidth), sizeStr)

	return theme.RenderSelectableRow(content, fb.width, focused)
}

func (fb *FileBrowser) renderFooter() string {
	filter := "[.] All files"
	if fb.showAll {
		filter = "[.] Images only"
	}

	left := []string{"[Enter] Open", "[Backspace] Up", filter, "[Esc] Close"}
	right := []string{}
	if n := len(fb.entries); n > fb.visibleHeight() {
		right = append(right, fmt.Sprintf("%d/%d", fb.cursor+1, n))
	}
	return theme.RenderStatusBar(left, right, fb.width)
}
