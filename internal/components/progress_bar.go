package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tatendakasirori/eye-disease-classification/internal/present"
	"github.com/tatendakasirori/eye-disease-classification/internal/theme"
)

// ProgressBar renders a confidence value as a bar colored by its band, or an
// animated bar while an upload is outstanding.
type ProgressBar struct {
	confidence float64
	width      int
	label      string

	indeterminate bool
	animFrame     int

	fillChar  string
	emptyChar string
}

// NewConfidenceBar creates a bar for a confidence in [0, 1].
func NewConfidenceBar(confidence float64) *ProgressBar {
	pb := &ProgressBar{
		width:     30,
		fillChar:  "█",
		emptyChar: "░",
	}
	return pb.SetConfidence(confidence)
}

// NewIndeterminateProgressBar creates a bar for work of unknown duration
func NewIndeterminateProgressBar() *ProgressBar {
	return &ProgressBar{
		indeterminate: true,
		width:         30,
		fillChar:      "▶",
		emptyChar:     "─",
	}
}

func (pb *ProgressBar) SetWidth(width int) *ProgressBar {
	pb.width = width
	return pb
}

func (pb *ProgressBar) SetLabel(label string) *ProgressBar {
	pb.label = label
	return pb
}

// SetConfidence clamps c into [0, 1].
func (pb *ProgressBar) SetConfidence(c float64) *ProgressBar {
	pb.confidence = math.Max(0, math.Min(1, c))
	return pb
}

// Tick advances the indeterminate animation by one frame
func (pb *ProgressBar) Tick() *ProgressBar {
	pb.animFrame++
	return pb
}

func (pb *ProgressBar) Band() present.Band {
	return present.ConfidenceBand(pb.confidence)
}

func (pb *ProgressBar) Render() string {
	lines := []string{}

	if pb.label != "" {
		lines = append(lines, theme.TextBoldStyle.Render(pb.label))
	}

	if pb.indeterminate {
		lines = append(lines, pb.renderIndeterminateBar())
	} else {
		lines = append(lines, pb.renderDeterminateBar()+" "+
			theme.BandStyle(pb.Band()).Render(present.FormatConfidence(pb.confidence)))
	}

	return strings.Join(lines, "\n")
}

// filled returns how many cells of the bar are filled
func (pb *ProgressBar) filled() int {
	if pb.width <= 0 {
		return 0
	}
	fill := int(math.Round(pb.confidence * float64(pb.width)))
	if fill > pb.width {
		fill = pb.width
	}
	return fill
}

func (pb *ProgressBar) renderDeterminateBar() string {
	if pb.width <= 0 {
		return ""
	}

	fill := pb.filled()
	filled := lipgloss.NewStyle().
		Foreground(theme.BandColor(pb.Band())).
		Render(strings.Repeat(pb.fillChar, fill))
	empty := theme.TextDimStyle.Render(strings.Repeat(pb.emptyChar, pb.width-fill))

	return filled + empty
}

func (pb *ProgressBar) renderIndeterminateBar() string {
	if pb.width <= 0 {
		return ""
	}

	const indicatorWidth = 3
	cells := []rune(strings.Repeat(pb.emptyChar, pb.width))
	fill := []rune(pb.fillChar)[0]

	start := pb.animFrame % (pb.width + indicatorWidth)
	for i := 0; i < indicatorWidth; i++ {
		if pos := start + i - indicatorWidth; pos >= 0 && pos < len(cells) {
			cells[pos] = fill
		}
	}

	return lipgloss.NewStyle().Foreground(theme.ColorAccent).Render(string(cells))
}
