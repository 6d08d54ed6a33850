package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderPanel renders a bordered panel
func RenderPanel(content string, width, height int, active bool) string {
	style := PanelStyle
	if active {
		style = PanelActiveStyle
	}

	if width > 0 && height > 0 {
		return style.Width(width).Height(height).Render(content)
	}
	return style.Render(content)
}

// RenderHeader renders a consistent header
func RenderHeader(text string, width int) string {
	if width > 0 {
		return HeaderStyle.Width(width).Render(text)
	}
	return HeaderStyle.Render(text)
}

func RenderButton(text string, active bool) string {
	style := ButtonStyle
	if active {
		style = ButtonActiveStyle
	}
	return style.Render(text)
}

// RenderStatus renders a message with the icon and color of its kind:
// "success", "error", "warning" or anything else for info.
func RenderStatus(kind, text string) string {
	icon := IconInfo
	style := InfoStyle

	switch kind {
	case "success":
		icon = IconSuccess
		style = SuccessStyle
	case "error":
		icon = IconError
		style = ErrorStyle
	case "warning":
		icon = IconWarning
		style = WarningStyle
	}

	return style.Render(icon + " " + text)
}

func RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return TextDimStyle.Render(strings.Repeat(BorderLight, width))
}

// RenderSelectableRow renders a row with full-width selection highlighting
func RenderSelectableRow(content string, width int, selected bool) string {
	if width <= 0 {
		return content
	}

	if w := lipgloss.Width(content); w < width {
		content += strings.Repeat(" ", width-w)
	}

	if selected {
		return SelectionStyle.Inline(true).MaxWidth(width).Render(content)
	}
	return TextStyle.Inline(true).MaxWidth(width).Render(content)
}

// RenderBreadcrumb joins path parts, keeping the tail when it does not fit.
func RenderBreadcrumb(parts []string, width int) string {
	if len(parts) == 0 {
		return ""
	}

	separator := " " + IconFolder + " "
	breadcrumb := strings.Join(parts, separator)

	if lipgloss.Width(breadcrumb) > width-3 && len(parts) > 1 {
		last := parts[len(parts)-1]
		short := "…" + separator + parts[len(parts)-2] + separator + last
		if lipgloss.Width(short) <= width {
			breadcrumb = short
		} else {
			breadcrumb = "…" + separator + last
		}
	}

	return TextDimStyle.Inline(true).MaxWidth(width).Render(breadcrumb)
}

// RenderHelpBar renders key hints on one line
func RenderHelpBar(helpItems []string, width int) string {
	if len(helpItems) == 0 {
		return ""
	}

	helpText := strings.Join(helpItems, "  ")
	return FooterStyle.Inline(true).MaxWidth(width).Render(" " + helpText)
}

// RenderStatusBar renders left-aligned and right-aligned items on one line
func RenderStatusBar(leftItems, rightItems []string, width int) string {
	leftText := strings.Join(leftItems, " | ")
	rightText := strings.Join(rightItems, " | ")

	spacing := width - 2 - lipgloss.Width(leftText) - lipgloss.Width(rightText)
	if spacing < 1 {
		spacing = 1
	}

	return FooterStyle.Inline(true).MaxWidth(width).Render(" " + leftText + strings.Repeat(" ", spacing) + rightText)
}
