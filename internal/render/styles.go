// Package render turns the filtered node sequence and the cluster summary
// into terminal output and the JSON export payload.
package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rice8y/sdetails/internal/slurm"
)

// Color palette using ANSI color codes for terminal compatibility.
const (
	ColorGood      lipgloss.Color = "2" // Green
	ColorNeutral   lipgloss.Color = "3" // Yellow
	ColorAttention lipgloss.Color = "1" // Red
	ColorInfo      lipgloss.Color = "6" // Cyan
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Utilization bands for color mapping.
const (
	LowThreshold  = 0.50
	HighThreshold = 0.85
)

// Styles holds the lipgloss styles for one rendering pass. When color is
// disabled every style is a plain no-op so the column layout stays
// byte-identical minus escape codes.
type Styles struct {
	Enabled   bool
	Title     lipgloss.Style
	Header    lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Good      lipgloss.Style
	Neutral   lipgloss.Style
	Attention lipgloss.Style
}

// NewStyles builds the style set. Pass enabled=false for plain output.
func NewStyles(enabled bool) Styles {
	if !enabled {
		plain := lipgloss.NewStyle()
		return Styles{
			Title: plain, Header: plain, Bold: plain, Muted: plain,
			Good: plain, Neutral: plain, Attention: plain,
		}
	}
	return Styles{
		Enabled:   true,
		Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorInfo),
		Header:    lipgloss.NewStyle().Bold(true),
		Bold:      lipgloss.NewStyle().Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(ColorMuted),
		Good:      lipgloss.NewStyle().Foreground(ColorGood),
		Neutral:   lipgloss.NewStyle().Foreground(ColorNeutral),
		Attention: lipgloss.NewStyle().Foreground(ColorAttention),
	}
}

// Util returns the style for a utilization ratio: below LowThreshold is
// low-emphasis, above HighThreshold needs attention, in between is neutral.
func (s Styles) Util(ratio float64) lipgloss.Style {
	switch {
	case ratio > HighThreshold:
		return s.Attention
	case ratio >= LowThreshold:
		return s.Neutral
	default:
		return s.Good
	}
}

// State returns the style for a node state. Down and drained nodes always
// render in the attention color regardless of utilization.
func (s Styles) State(st slurm.State) lipgloss.Style {
	switch st {
	case slurm.StateDown, slurm.StateDrained:
		return s.Attention
	case slurm.StateDraining, slurm.StateAllocated, slurm.StateMixed:
		return s.Neutral
	case slurm.StateIdle:
		return s.Good
	default:
		return s.Muted
	}
}
