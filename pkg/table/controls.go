package table

import (
	"context"
	"fmt"

	"github.com/goliatone/go-tablegen/pkg/export"
)

// Selection is the state controls derive their enablement from.
type Selection struct {
	Indices []int
	// Busy is true while a refresh is outstanding.
	Busy bool
}

// Len returns the number of selected rows.
func (s Selection) Len() int {
	return len(s.Indices)
}

// Control is an action button attached to a table.
type Control interface {
	Button() Button
	Label() string
	IsEnabled(sel Selection) bool
	Activate(ctx context.Context, t *Table) error
}

// ControlState is the evaluated state of a control.
type ControlState struct {
	Button  Button `json:"button"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
	Busy    bool   `json:"busy,omitempty"`
}

func newControl(button Button) (Control, error) {
	switch button {
	case ButtonEdit:
		return editControl{}, nil
	case ButtonDelete:
		return deleteControl{}, nil
	case ButtonRefresh:
		return refreshControl{}, nil
	case ButtonXLS:
		return exportControl{format: export.FormatXLS}, nil
	case ButtonXLSX:
		return exportControl{format: export.FormatXLSX}, nil
	default:
		return nil, fmt.Errorf("table: unknown button %q", button)
	}
}

type editControl struct{}

func (editControl) Button() Button { return ButtonEdit }
func (editControl) Label() string  { return "Edit" }

func (editControl) IsEnabled(sel Selection) bool {
	return sel.Len() == 1
}

func (editControl) Activate(_ context.Context, t *Table) error {
	rows := t.SelectedRows()
	if len(rows) != 1 {
		return fmt.Errorf("table: edit needs exactly one selected row, have %d", len(rows))
	}
	if t.opts.OnEdit != nil {
		t.opts.OnEdit(rows[0])
	}
	return nil
}

type deleteControl struct{}

func (deleteControl) Button() Button { return ButtonDelete }
func (deleteControl) Label() string  { return "Delete" }

func (deleteControl) IsEnabled(sel Selection) bool {
	return sel.Len() > 0
}

func (deleteControl) Activate(_ context.Context, t *Table) error {
	rows := t.SelectedRows()
	if len(rows) == 0 {
		return fmt.Errorf("table: delete needs a selection")
	}
	if t.opts.OnDelete != nil {
		t.opts.OnDelete(rows)
	}
	return nil
}

type refreshControl struct{}

func (refreshControl) Button() Button { return ButtonRefresh }
func (refreshControl) Label() string  { return "Refresh" }

func (refreshControl) IsEnabled(sel Selection) bool {
	return !sel.Busy
}

func (refreshControl) Activate(ctx context.Context, t *Table) error {
	return t.Refresh(ctx)
}

type exportControl struct {
	format export.Format
}

func (c exportControl) Button() Button { return Button(c.format) }
func (c exportControl) Label() string  { return string(c.format) }

func (exportControl) IsEnabled(Selection) bool {
	return true
}

func (c exportControl) Activate(_ context.Context, t *Table) error {
	artifact, err := t.Export(c.format)
	if err != nil {
		return err
	}
	if t.opts.OnExport != nil {
		t.opts.OnExport(artifact)
	}
	return nil
}
