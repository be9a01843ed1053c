package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the lipgloss styles applied to the grid.
type Theme struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Disabled lipgloss.Style
	Border   lipgloss.Style
	// Marker prefixes selected rows when the table allows selection.
	Marker string
}

// DefaultTheme mirrors the panel colours of the HTML surface.
func DefaultTheme() Theme {
	return Theme{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
			Bold(true).
			Padding(0, 1),
		Cell: lipgloss.NewStyle().Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#5599FF"}).
			Padding(0, 1),
		Disabled: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
		Border: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#444444"}),
		Marker: "*",
	}
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by Run.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput directs the default driver's messages to w.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.out = w
		}
	}
}

// WithTheme replaces the grid styles.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithBorder sets the grid border. The default is lipgloss.NormalBorder.
func WithBorder(border lipgloss.Border) Option {
	return func(r *Renderer) {
		r.border = border
	}
}

// WithWidth caps the grid width in cells. Zero lets the grid size itself.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		if width >= 0 {
			r.width = width
		}
	}
}

// WithPageSize sets how many entries the row picker shows at once.
func WithPageSize(size int) Option {
	return func(r *Renderer) {
		if size > 0 {
			r.pageSize = size
		}
	}
}
