package classifier

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/tatendakasirori/eye-disease-classification/internal/components"
	"github.com/tatendakasirori/eye-disease-classification/internal/intake"
	"github.com/tatendakasirori/eye-disease-classification/internal/theme"
	"github.com/tatendakasirori/eye-disease-classification/internal/workflow"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.initialPath != "" {
		cmds = append(cmds, m.controller.SelectPath(m.initialPath))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(m.resultWidth()-2, m.rawHeight())
			m.viewport.HighPerformanceRendering = false
			m.ready = true
		}
		m.updateViewportSize()
		if m.mode == modeHistory {
			m.rebuildHistoryTable()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if _, ok := m.controller.State().(workflow.Submitting); ok {
			m.uploadBar.Tick()
		}
		return m, cmd

	case workflow.PickerRequestedMsg:
		m.mode = modePicker
		return m, m.browser.Load()

	case components.DirectoryLoadedMsg:
		m.browser.HandleLoaded(msg)
		return m, nil

	case workflow.PreviewLoadedMsg, workflow.PredictionMsg:
		if m.controller.Update(msg) {
			m.afterTransition()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Paste {
			return m.handleDrop(string(msg.Runes))
		}
		switch m.mode {
		case modePicker:
			return m.handlePickerKey(msg)
		case modeHistory:
			return m.handleHistoryKey(msg)
		}
		return m.handleMainKey(msg)
	}

	return m, nil
}

// handleDrop selects a file dropped onto the terminal, which arrives as a
// bracketed paste of its path.
func (m Model) handleDrop(payload string) (Model, tea.Cmd) {
	path, err := intake.ParseDrop(payload)
	if err != nil {
		log.Debug().Err(err).Msg("ignoring paste")
		return m, nil
	}
	m.mode = modeMain
	return m, m.controller.SelectPath(path)
}

func (m Model) handleMainKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Open):
		return m, m.controller.OpenFilePicker()

	case key.Matches(msg, m.keys.Analyze):
		cmd := m.controller.Submit()
		if cmd != nil {
			m.submittedAt = time.Now()
			m.elapsed = 0
		}
		return m, cmd

	case key.Matches(msg, m.keys.Raw):
		m.showRaw = !m.showRaw
		m.refreshRaw()

	case key.Matches(msg, m.keys.History):
		m.mode = modeHistory
		m.rebuildHistoryTable()

	case key.Matches(msg, m.keys.Theme):
		if m.themeName == theme.Dark {
			m.themeName = theme.Light
		} else {
			m.themeName = theme.Dark
		}
		theme.Apply(m.themeName)
		m.refreshRaw()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.updateViewportSize()

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)

	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
	}

	return m, nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.mode = modeMain

	case key.Matches(msg, m.keys.Up):
		m.browser.MoveUp()

	case key.Matches(msg, m.keys.Down):
		m.browser.MoveDown()

	case key.Matches(msg, m.keys.PageUp):
		m.browser.PageUp()

	case key.Matches(msg, m.keys.PageDown):
		m.browser.PageDown()

	case key.Matches(msg, m.keys.Parent):
		return m, m.browser.Parent()

	case key.Matches(msg, m.keys.ShowAll):
		m.browser.SetShowAll(!m.browser.ShowAll())

	case key.Matches(msg, m.keys.Refresh):
		return m, m.browser.Refresh()

	case key.Matches(msg, m.keys.Enter):
		cmd, path := m.browser.Enter()
		if path == "" {
			return m, cmd
		}
		m.mode = modeMain
		return m, m.controller.SelectPath(path)
	}

	return m, nil
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.History):
		m.mode = modeMain
		return m, nil
	}

	var cmd tea.Cmd
	m.historyTable, cmd = m.historyTable.Update(msg)
	return m, cmd
}

func (m *Model) afterTransition() {
	switch m.controller.State().(type) {
	case workflow.Succeeded, workflow.Failed:
		if !m.submittedAt.IsZero() {
			m.elapsed = time.Since(m.submittedAt)
		}
		m.recordHistory()
	}
	m.refreshRaw()
}

func (m *Model) refreshRaw() {
	if !m.ready {
		return
	}
	succeeded, ok := m.controller.State().(workflow.Succeeded)
	if !ok {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(highlightJSON(succeeded.Result.Raw, m.themeName == theme.Dark))
	m.viewport.GotoTop()
}

func (m *Model) updateViewportSize() {
	if !m.ready {
		return
	}
	m.viewport.Width = m.resultWidth() - 2
	m.viewport.Height = m.rawHeight()
	m.browser.SetSize(max(20, m.width-6), max(5, m.bodyHeight()-2))
	m.uploadBar.SetWidth(max(10, m.resultWidth()-16))
}
