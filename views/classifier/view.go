package classifier

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tatendakasirori/eye-disease-classification/internal/components"
	"github.com/tatendakasirori/eye-disease-classification/internal/intake"
	"github.com/tatendakasirori/eye-disease-classification/internal/predict"
	"github.com/tatendakasirori/eye-disease-classification/internal/present"
	"github.com/tatendakasirori/eye-disease-classification/internal/preview"
	"github.com/tatendakasirori/eye-disease-classification/internal/theme"
	"github.com/tatendakasirori/eye-disease-classification/internal/utils"
	"github.com/tatendakasirori/eye-disease-classification/internal/workflow"
)

const (
	title              = "Eye Disease Classification"
	noImageText        = "No image uploaded"
	resultsPlaceholder = "Upload an image to see prediction results"
	analyzeHint        = "Press Enter to analyze this image"
	dropHint           = "Press o to browse, or drop an image onto the terminal"

	// title, divider and the summary rows above the raw response
	resultSummaryRows = 10
)

func (m Model) View() string {
	if !m.ready {
		return "\n  " + m.spinner.View() + " Loading..."
	}

	header := m.renderHeader()

	var body string
	switch m.mode {
	case modePicker:
		body = m.renderPicker()
	case modeHistory:
		body = m.renderHistory()
	default:
		body = m.renderMain()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderStatusLine(), m.renderHelp())
}

func (m Model) renderHeader() string {
	left := theme.TextBoldStyle.Render(" " + title)
	if m.controller.Busy() {
		left += " " + theme.InfoStyle.Render(theme.IconActive)
	}
	right := theme.SubtitleStyle.Render(m.endpoint + " ")
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))

	line := lipgloss.NewStyle().Inline(true).MaxWidth(m.width).Render(left + strings.Repeat(" ", gap) + right)
	return lipgloss.JoinVertical(lipgloss.Left, line, theme.RenderDivider(m.width))
}

func (m Model) renderPicker() string {
	return theme.RenderPanel(m.browser.Render(), m.width-4, m.bodyHeight()-2, true)
}

func (m Model) renderMain() string {
	height := m.bodyHeight() - 2
	// panel padding takes one column on each side
	left := theme.RenderPanel(m.renderImagePanel(m.imageWidth()-2), m.imageWidth(), height, false)
	right := theme.RenderPanel(m.renderResultsPanel(m.resultWidth()-2), m.resultWidth(), height, true)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m Model) renderImagePanel(width int) string {
	lines := []string{
		theme.RenderHeader("Upload Image", 0),
		theme.RenderDivider(width),
	}

	state := m.controller.State()
	selection := m.controller.Selection()

	f, rep, loaded := workflow.Loaded(state)
	switch {
	case loaded:
		if rep.HasThumbnail() {
			lines = append(lines, rep.Thumbnail)
		} else {
			lines = append(lines, theme.TextDimStyle.Render("Preview unavailable for this format"))
		}
		lines = append(lines, "", renderFileInfo(f, rep, width))

	case !selection.IsZero():
		lines = append(lines,
			m.spinner.View()+" Loading preview...",
			"",
			renderFileInfo(selection, preview.Representation{}, width))

	default:
		lines = append(lines,
			"",
			theme.TextDimStyle.Render(theme.IconImage+" "+noImageText),
			"",
			theme.TextDimStyle.Render(dropHint))
	}

	lines = append(lines, "", m.renderAnalyzeButton(state))
	return strings.Join(lines, "\n")
}

func renderFileInfo(f intake.File, rep preview.Representation, width int) string {
	details := []string{f.MediaType, utils.FormatFileSize(f.Size)}
	if rep.Width > 0 && rep.Height > 0 {
		details = append(details, fmt.Sprintf("%dx%d", rep.Width, rep.Height))
	}

	name := theme.TextStyle.Render(utils.TruncateString(f.Name, width))
	return name + "\n" + theme.TextDimStyle.Render(utils.TruncateString(strings.Join(details, " | "), width))
}

func (m Model) renderAnalyzeButton(state workflow.State) string {
	switch state.(type) {
	case workflow.Submitting:
		return theme.RenderButton(m.spinner.View()+" Analyzing...", false)
	case workflow.Ready, workflow.Succeeded, workflow.Failed:
		return theme.RenderButton("Analyze Image", true)
	default:
		return theme.RenderButton("Analyze Image", false)
	}
}

func (m Model) renderResultsPanel(width int) string {
	lines := []string{
		theme.RenderHeader("Analysis Results", 0),
		theme.RenderDivider(width),
	}

	switch state := m.controller.State().(type) {
	case workflow.Submitting:
		lines = append(lines,
			m.spinner.View()+" Analyzing...",
			"",
			m.uploadBar.Render(),
			theme.TextDimStyle.Render(utils.TruncateString(state.File.Name, width)))

	case workflow.Succeeded:
		lines = append(lines, m.renderResult(state.Result, width)...)

	case workflow.Failed:
		lines = append(lines, theme.RenderStatus("error", "Analysis failed"), "")
		for _, line := range utils.WrapText(state.Message, width) {
			lines = append(lines, theme.TextStyle.Render(line))
		}
		lines = append(lines, "", theme.TextDimStyle.Render("Press Enter to retry"))

	case workflow.Ready:
		lines = append(lines, theme.TextDimStyle.Render(analyzeHint))

	default:
		lines = append(lines, theme.TextDimStyle.Render(resultsPlaceholder))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderResult(result predict.Result, width int) []string {
	band := present.ConfidenceBand(result.Confidence)

	bar := components.NewConfidenceBar(result.Confidence).
		SetWidth(max(10, width-12))

	lines := []string{
		theme.TextDimStyle.Render("Predicted Disease"),
		theme.BandStyle(band).Render(present.FormatLabel(result.PredictedClass)),
		"",
		theme.TextDimStyle.Render("Confidence"),
		bar.Render(),
		"",
		theme.RenderStatus("success", "Analysis Status: Complete"),
	}
	if m.elapsed > 0 {
		lines = append(lines, theme.TextDimStyle.Render("Completed in "+utils.FormatDuration(m.elapsed)))
	}

	if m.showRaw {
		lines = append(lines, theme.RenderDivider(width), m.viewport.View())
	} else {
		lines = append(lines, theme.TextDimStyle.Render("Press r to view the raw response"))
	}
	return lines
}

// renderStatusLine shows transient notices. A failed analysis is shown in
// the results panel instead.
func (m Model) renderStatusLine() string {
	message := m.controller.Notice()
	if message == "" {
		return ""
	}
	kind := "error"
	if message == workflow.PreviewPendingMessage {
		kind = "warning"
	}
	return lipgloss.NewStyle().Inline(true).MaxWidth(m.width).Render(" " + theme.RenderStatus(kind, message))
}

func (m Model) renderHelp() string {
	switch m.mode {
	case modePicker:
		return theme.RenderHelpBar([]string{"Drop an image onto the terminal to select it directly"}, m.width)
	case modeHistory:
		return theme.RenderHelpBar([]string{"↑/↓ scroll", "h/esc close", "ctrl+c quit"}, m.width)
	}
	return " " + m.help.View(m.keys)
}

func (m Model) helpHeight() int {
	if m.mode == modeMain && m.help.ShowAll {
		return 4
	}
	return 1
}

func (m Model) bodyHeight() int {
	// header, divider and status line
	return max(6, m.height-3-m.helpHeight())
}

func (m Model) imageWidth() int {
	return max(24, m.width*2/5-4)
}

func (m Model) resultWidth() int {
	// borders, padding and the gap between panels
	return max(24, m.width-m.imageWidth()-9)
}

func (m Model) rawHeight() int {
	return max(3, m.bodyHeight()-2-resultSummaryRows)
}
