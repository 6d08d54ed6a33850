// Package classifier is the main screen: pick or drop a retinal image,
// preview it and analyze it against the prediction endpoint.
package classifier

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatendakasirori/eye-disease-classification/internal/components"
	"github.com/tatendakasirori/eye-disease-classification/internal/theme"
	"github.com/tatendakasirori/eye-disease-classification/internal/workflow"
)

type mode int

const (
	modeMain mode = iota
	modePicker
	modeHistory
)

type Model struct {
	width  int
	height int
	ready  bool
	mode   mode

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model

	controller *workflow.Controller
	browser    *components.FileBrowser
	uploadBar  *components.ProgressBar

	endpoint    string
	themeName   string
	initialPath string
	showRaw     bool

	submittedAt time.Time
	elapsed     time.Duration

	history      []historyEntry
	historyTable table.Model
}

// Options configures a classifier screen.
type Options struct {
	Controller *workflow.Controller
	Browser    *components.FileBrowser
	Endpoint   string
	Theme      string
	// InitialPath is selected on start when set.
	InitialPath string
}

func New(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorAccent)

	browser := opts.Browser
	if browser == nil {
		browser = components.NewFileBrowser(".", nil)
	}

	return Model{
		keys:        defaultKeyMap(),
		help:        help.New(),
		spinner:     s,
		controller:  opts.Controller,
		browser:     browser,
		uploadBar:   components.NewIndeterminateProgressBar().SetLabel("Uploading"),
		endpoint:    opts.Endpoint,
		themeName:   opts.Theme,
		initialPath: opts.InitialPath,
	}
}

// Controller exposes the workflow behind the screen.
func (m Model) Controller() *workflow.Controller {
	return m.controller
}

// Picking reports whether the file picker is open.
func (m Model) Picking() bool {
	return m.mode == modePicker
}
