package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Theme styles command output.
type Theme struct {
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	muted lipgloss.Style
	err   lipgloss.Style
}

func New() Theme {
	return Theme{
		title: lipgloss.NewStyle().Foreground(ColorTeal).Bold(true),
		label: lipgloss.NewStyle().Foreground(ColorDim).Width(labelWidth),
		value: lipgloss.NewStyle().Foreground(ColorWhite),
		muted: lipgloss.NewStyle().Foreground(ColorDim),
		err:   lipgloss.NewStyle().Foreground(ColorLowRecovery).Bold(true),
	}
}

const labelWidth = 18

func (t Theme) Title(s string) string { return t.title.Render(s) }
func (t Theme) Muted(s string) string { return t.muted.Render(s) }
func (t Theme) Error(s string) string { return t.err.Render(s) }

// Field renders one aligned "label value" line.
func (t Theme) Field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, t.label.Render(label), t.value.Render(value))
}

// Colored renders s in c.
func (t Theme) Colored(c color.Color, s string) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

// RecoveryColor maps a recovery score in percent to its band color.
func RecoveryColor(score float64) color.Color {
	switch {
	case score >= 67:
		return ColorHighRecovery
	case score >= 34:
		return ColorMediumRecovery
	default:
		return ColorLowRecovery
	}
}

// KindColor is the accent used for a resource kind.
func KindColor(kind string) color.Color {
	switch kind {
	case "sleep":
		return ColorSleep
	case "workout", "cycle":
		return ColorStrain
	case "recovery":
		return ColorRecoveryBlue
	default:
		return ColorTeal
	}
}
