package tui

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"

	"github.com/goliatone/go-tablegen/pkg/render"
	"github.com/goliatone/go-tablegen/pkg/table"
)

// Name is the registry name of the renderer.
const Name = "tui"

// Renderer draws a table view as a text grid and drives interactive
// sessions over a live table through a PromptDriver.
type Renderer struct {
	driver   PromptDriver
	out      io.Writer
	theme    Theme
	border   lipgloss.Border
	width    int
	pageSize int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver on stdout).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		theme:    DefaultTheme(),
		border:   lipgloss.NormalBorder(),
		pageSize: 10,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render draws the title, the grid of visible columns and the control bar.
func (r *Renderer) Render(ctx context.Context, view table.View, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	render.LocalizeView(&view, opts)
	render.ApplySubset(&view, opts.Subset)

	var b strings.Builder
	if view.Title != "" {
		b.WriteString(r.theme.Header.Render(view.Title))
		b.WriteString("\n")
	}
	b.WriteString(r.grid(view))
	b.WriteString("\n")
	if bar := r.controlBar(view.Controls); bar != "" {
		b.WriteString(bar)
		b.WriteString("\n")
	}
	return []byte(b.String()), nil
}

func (r *Renderer) grid(view table.View) string {
	visible := view.Visible()
	marked := view.RowSelect != table.SelectNone

	headers := make([]string, 0, len(visible)+1)
	if marked {
		headers = append(headers, "")
	}
	for _, idx := range visible {
		headers = append(headers, view.Columns[idx].Title)
	}

	rows := make([][]string, 0, len(view.Rows))
	for _, row := range view.Rows {
		line := make([]string, 0, len(visible)+1)
		if marked {
			marker := ""
			if row.Selected {
				marker = r.theme.Marker
			}
			line = append(line, marker)
		}
		for _, cell := range row.Pick(visible) {
			line = append(line, cell.Text)
		}
		rows = append(rows, line)
	}

	theme := r.theme
	grid := lgtable.New().
		Border(r.border).
		BorderStyle(theme.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return theme.Header
			}
			if row >= 0 && row < len(view.Rows) && view.Rows[row].Selected {
				return theme.Selected
			}
			return theme.Cell
		})
	if r.width > 0 {
		grid = grid.Width(r.width)
	}
	return grid.String()
}

func (r *Renderer) controlBar(controls []table.ControlState) string {
	if len(controls) == 0 {
		return ""
	}
	parts := make([]string, 0, len(controls))
	for _, state := range controls {
		label := "[" + state.Label + "]"
		if state.Busy {
			label = "[" + state.Label + "...]"
		}
		if !state.Enabled {
			label = r.theme.Disabled.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}
