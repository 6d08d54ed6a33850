package theme

import (
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/tatendakasirori/eye-disease-classification/internal/present"
)

// Names accepted by Apply.
const (
	Light = "light"
	Dark  = "dark"
)

var (
	// Light theme colors
	ColorLightBG     = lipgloss.Color("#FFFFFF")
	ColorLightFG     = lipgloss.Color("#1A1A1A")
	ColorLightFGDim  = lipgloss.Color("#666666")
	ColorLightBorder = lipgloss.Color("#D4D4D4")
	ColorLightAccent = lipgloss.Color("#2A2A2A")

	// Dark theme colors
	ColorDarkBG     = lipgloss.Color("#1A1A1A")
	ColorDarkFG     = lipgloss.Color("#F5F5F5")
	ColorDarkFGDim  = lipgloss.Color("#AAAAAA")
	ColorDarkBorder = lipgloss.Color("#3A3A3A")
	ColorDarkAccent = lipgloss.Color("#E5E5E5")

	// Confidence bands
	ColorBandGreen = lipgloss.Color("#10b981")
	ColorBandAmber = lipgloss.Color("#f59e0b")
	ColorBandRed   = lipgloss.Color("#ef4444")

	ColorSuccess = ColorBandGreen
	ColorWarning = ColorBandAmber
	ColorError   = ColorBandRed
	ColorInfo    = lipgloss.Color("#6366F1")

	// Active scheme
	ColorBG        = ColorLightBG
	ColorFG        = ColorLightFG
	ColorFGDim     = ColorLightFGDim
	ColorBorder    = ColorLightBorder
	ColorAccent    = ColorLightAccent
	ColorSelection = ColorLightAccent
)

var (
	BorderLight = "─"
	BorderVert  = "│"

	IconFolder  = "▶"
	IconFile    = "▫"
	IconImage   = "◧"
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "!"
	IconInfo    = "i"
	IconActive  = "●"
)

var (
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorFG)

	TextDimStyle = lipgloss.NewStyle().
			Foreground(ColorFGDim)

	TextBoldStyle = lipgloss.NewStyle().
			Foreground(ColorFG).
			Bold(true)

	SelectionStyle = lipgloss.NewStyle().
			Background(ColorSelection).
			Foreground(ColorBG).
			Bold(true)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	PanelActiveStyle = PanelStyle.
				BorderForeground(ColorAccent)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorFG).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorFGDim).
			Italic(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorFGDim).
			Padding(0, 1)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(ColorFG).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 2)

	ButtonActiveStyle = lipgloss.NewStyle().
				Background(ColorAccent).
				Foreground(ColorBG).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorAccent).
				Bold(true).
				Padding(0, 2)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)
)

var asciiMode bool

func init() {
	asciiMode = runtime.GOOS == "windows" || os.Getenv("RETINA_ASCII") == "1"

	if asciiMode {
		setupASCII()
	}
}

// setupASCII switches borders and icons to ASCII-safe alternatives
func setupASCII() {
	BorderLight = "-"
	BorderVert = "|"

	IconFolder = ">"
	IconFile = "-"
	IconImage = "#"
	IconSuccess = "+"
	IconError = "x"
	IconActive = "*"

	asciiBorder := lipgloss.Border{
		Top: BorderLight, Bottom: BorderLight,
		Left: BorderVert, Right: BorderVert,
		TopLeft: "+", TopRight: "+",
		BottomLeft: "+", BottomRight: "+",
	}

	PanelStyle = PanelStyle.Border(asciiBorder)
	PanelActiveStyle = PanelActiveStyle.Border(asciiBorder)
	ButtonStyle = ButtonStyle.Border(asciiBorder)
	ButtonActiveStyle = ButtonActiveStyle.Border(asciiBorder)
}

// Apply switches to the named theme. Unknown names fall back to light.
func Apply(name string) {
	if name == Dark {
		SetDarkTheme()
		return
	}
	SetLightTheme()
}

func SetDarkTheme() {
	ColorBG = ColorDarkBG
	ColorFG = ColorDarkFG
	ColorFGDim = ColorDarkFGDim
	ColorBorder = ColorDarkBorder
	ColorAccent = ColorDarkAccent
	ColorSelection = ColorDarkAccent
	updateAllStyles()
}

func SetLightTheme() {
	ColorBG = ColorLightBG
	ColorFG = ColorLightFG
	ColorFGDim = ColorLightFGDim
	ColorBorder = ColorLightBorder
	ColorAccent = ColorLightAccent
	ColorSelection = ColorLightAccent
	updateAllStyles()
}

func updateAllStyles() {
	TextStyle = TextStyle.Foreground(ColorFG)
	TextDimStyle = TextDimStyle.Foreground(ColorFGDim)
	TextBoldStyle = TextBoldStyle.Foreground(ColorFG)
	SelectionStyle = SelectionStyle.Background(ColorSelection).Foreground(ColorBG)
	PanelStyle = PanelStyle.BorderForeground(ColorBorder)
	PanelActiveStyle = PanelActiveStyle.BorderForeground(ColorAccent)
	HeaderStyle = HeaderStyle.Foreground(ColorFG)
	SubtitleStyle = SubtitleStyle.Foreground(ColorFGDim)
	FooterStyle = FooterStyle.Foreground(ColorFGDim)
	ButtonStyle = ButtonStyle.Foreground(ColorFG).BorderForeground(ColorBorder)
	ButtonActiveStyle = ButtonActiveStyle.Background(ColorAccent).Foreground(ColorBG).BorderForeground(ColorAccent)
}

// BandColor returns the display color of a confidence band.
func BandColor(b present.Band) lipgloss.Color {
	switch b {
	case present.Green:
		return ColorBandGreen
	case present.Amber:
		return ColorBandAmber
	default:
		return ColorBandRed
	}
}

// BandStyle is a bold style in the band's color.
func BandStyle(b present.Band) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(BandColor(b)).Bold(true)
}
