package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// humanizeMB renders a memory size in MB as M, G, or T with one decimal.
func humanizeMB(mb int) string {
	switch {
	case mb >= 1024*1024:
		return fmt.Sprintf("%.1fT", float64(mb)/(1024*1024))
	case mb >= 1024:
		return fmt.Sprintf("%.1fG", float64(mb)/1024)
	default:
		return fmt.Sprintf("%dM", mb)
	}
}

// percent formats a ratio as a whole percentage.
func percent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

// padRight pads a possibly-styled string to the given display width.
// lipgloss.Width ignores ANSI escape codes when measuring.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	for i := visible; i < width; i++ {
		s += " "
	}
	return s
}
