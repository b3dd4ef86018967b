package printing

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette of the plain tables. Colors degrade to plain text when
// the output is not a color terminal.
var (
	ColorPrimary = lipgloss.Color("#8B5CF6") // Violet
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	CellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	BorderStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// stateStyles colors the STATE column of job tables
var stateStyles = map[string]lipgloss.Style{
	"waiting":   CellStyle.Foreground(ColorWarning),
	"running":   CellStyle.Foreground(ColorPrimary),
	"succeeded": CellStyle.Foreground(ColorSuccess),
	"failed":    CellStyle.Foreground(ColorError),
}
