package classifier

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatendakasirori/eye-disease-classification/internal/present"
	"github.com/tatendakasirori/eye-disease-classification/internal/theme"
	"github.com/tatendakasirori/eye-disease-classification/internal/utils"
	"github.com/tatendakasirori/eye-disease-classification/internal/workflow"
)

// historyEntry is one finished analysis of this session. Nothing is kept
// once the program exits.
type historyEntry struct {
	At         time.Time
	File       string
	Label      string
	Confidence string
	Status     string
}

func entryFor(s workflow.State, at time.Time) (historyEntry, bool) {
	switch s := s.(type) {
	case workflow.Succeeded:
		return historyEntry{
			At:         at,
			File:       s.File.Name,
			Label:      present.FormatLabel(s.Result.PredictedClass),
			Confidence: present.FormatConfidence(s.Result.Confidence),
			Status:     present.ConfidenceBand(s.Result.Confidence).String(),
		}, true
	case workflow.Failed:
		return historyEntry{
			At:     at,
			File:   s.File.Name,
			Label:  "-",
			Status: "failed",
		}, true
	}
	return historyEntry{}, false
}

func (m *Model) recordHistory() {
	if entry, ok := entryFor(m.controller.State(), time.Now()); ok {
		m.history = append(m.history, entry)
	}
}

func (m *Model) rebuildHistoryTable() {
	width := max(40, m.width-6)
	nameWidth := max(10, width-10-24-10-10-8)

	columns := []table.Column{
		{Title: "Time", Width: 10},
		{Title: "File", Width: nameWidth},
		{Title: "Prediction", Width: 24},
		{Title: "Confidence", Width: 10},
		{Title: "Band", Width: 10},
	}

	rows := make([]table.Row, 0, len(m.history))
	// newest first
	for i := len(m.history) - 1; i >= 0; i-- {
		entry := m.history[i]
		rows = append(rows, table.Row{
			entry.At.Format(time.Kitchen),
			utils.TruncateString(entry.File, nameWidth),
			entry.Label,
			entry.Confidence,
			entry.Status,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(3, m.bodyHeight()-4)),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorder).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(theme.ColorBG).
		Background(theme.ColorAccent).
		Bold(false)
	t.SetStyles(s)

	m.historyTable = t
}

func (m Model) renderHistory() string {
	content := theme.RenderHeader("Session History", 0) + "\n"
	if len(m.history) == 0 {
		content += theme.TextDimStyle.Render("No analyses yet")
	} else {
		content += m.historyTable.View()
	}
	return theme.RenderPanel(content, m.width-4, m.bodyHeight()-2, true)
}
