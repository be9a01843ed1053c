package table

import (
	"slices"

	"github.com/goliatone/go-tablegen/pkg/cells"
	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/style"
)

// View is the render-ready snapshot a surface consumes.
type View struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Columns   []ViewColumn   `json:"columns"`
	Rows      []ViewRow      `json:"rows"`
	Controls  []ControlState `json:"controls,omitempty"`
	RowSelect SelectMode     `json:"rowSelect,omitempty"`
	Busy      bool           `json:"busy,omitempty"`
	Style     style.Block    `json:"style"`
}

// ViewColumn carries the host-widget hints of a column.
type ViewColumn struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	Type       string `json:"type,omitempty"`
	Width      string `json:"width,omitempty"`
	Visible    bool   `json:"visible"`
	Sortable   *bool  `json:"sortable,omitempty"`
	Searchable *bool  `json:"searchable,omitempty"`
	SortType   string `json:"sortType,omitempty"`
}

// ViewRow holds one cell per column, hidden columns included, so cell i
// always belongs to column i. Sort holds the raw-mode values.
type ViewRow struct {
	Index    int          `json:"index"`
	Type     string       `json:"type,omitempty"`
	Selected bool         `json:"selected,omitempty"`
	Cells    []model.Cell `json:"cells"`
	Sort     []string     `json:"sort"`
}

// View renders every loaded row.
func (t *Table) View() View {
	t.mu.RLock()
	rows := t.rows
	selected := slices.Clone(t.selected)
	t.mu.RUnlock()

	view := View{
		ID:        t.id,
		Title:     t.title,
		Columns:   make([]ViewColumn, len(t.columns)),
		Rows:      make([]ViewRow, 0, len(rows)),
		Controls:  t.ControlStates(),
		RowSelect: t.opts.RowSelect,
		Busy:      t.busy.Load(),
		Style:     t.block,
	}
	for i, col := range t.columns {
		view.Columns[i] = ViewColumn{
			Key:        col.Key,
			Title:      col.Title,
			Type:       col.Type.String(),
			Width:      col.Width,
			Visible:    col.IsVisible(),
			Sortable:   col.Sortable,
			Searchable: col.Searchable,
			SortType:   col.SortType,
		}
	}

	for idx, row := range rows {
		rowType := cells.Canonical(row[t.opts.TypeKey])
		displayCtx := model.RenderContext{Mode: model.ModeDisplay, RowType: rowType}
		rawCtx := model.RenderContext{Mode: model.ModeRaw, RowType: rowType}

		vr := ViewRow{
			Index:    idx,
			Type:     rowType,
			Selected: slices.Contains(selected, idx),
			Cells:    make([]model.Cell, len(t.columns)),
			Sort:     make([]string, len(t.columns)),
		}
		for i, col := range t.columns {
			raw := row[col.Key]
			vr.Cells[i] = col.Render(raw, displayCtx)
			vr.Sort[i] = col.Render(raw, rawCtx).Text
		}
		view.Rows = append(view.Rows, vr)
	}
	return view
}

// Visible returns the indices of the visible columns.
func (v View) Visible() []int {
	out := make([]int, 0, len(v.Columns))
	for i, col := range v.Columns {
		if col.Visible {
			out = append(out, i)
		}
	}
	return out
}

// Pick returns the cells at indices, typically View.Visible().
func (r ViewRow) Pick(indices []int) []model.Cell {
	out := make([]model.Cell, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(r.Cells) {
			out = append(out, r.Cells[i])
		}
	}
	return out
}

// Control returns the state of button and whether it is attached.
func (v View) Control(button Button) (ControlState, bool) {
	for _, state := range v.Controls {
		if state.Button == button {
			return state, true
		}
	}
	return ControlState{}, false
}
