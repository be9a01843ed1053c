package table

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/goliatone/go-tablegen/pkg/cells"
	"github.com/goliatone/go-tablegen/pkg/export"
	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/sanitize"
	"github.com/goliatone/go-tablegen/pkg/source"
	"github.com/goliatone/go-tablegen/pkg/style"
)

var (
	// ErrShapeMismatch is returned when columns and rows cannot form a
	// table: duplicate column keys or missing rows.
	ErrShapeMismatch = errors.New("table: column/row shape mismatch")
	// ErrSelectionDisabled is returned by Select when RowSelect is unset.
	ErrSelectionDisabled = errors.New("table: row selection disabled")
)

// Table is an assembled table. It is safe for concurrent use.
type Table struct {
	mu       sync.RWMutex
	id       string
	title    string
	columns  []model.Column
	rows     []model.Row
	selected []int
	controls []Control
	block    style.Block
	tornDown bool

	opts Options
	gate *semaphore.Weighted
	busy atomic.Bool
}

// Assemble binds spec and opts into a Table. Columns without a render
// function get the default cell renderer for their type.
func Assemble(spec Spec, opts Options) (*Table, error) {
	opts = opts.normalize()

	if err := checkColumns(spec.Columns); err != nil {
		return nil, err
	}
	if err := checkRows(spec.Rows); err != nil {
		return nil, err
	}
	switch opts.RowSelect {
	case SelectNone, SelectSingle, SelectMulti:
	default:
		return nil, fmt.Errorf("table: unknown row select mode %q", opts.RowSelect)
	}

	controls, err := buildControls(opts.Buttons)
	if err != nil {
		return nil, err
	}

	id := sanitize.ClassName(spec.ID)
	if id == "" {
		id = "table"
	}
	columns := bindColumns(spec.Columns)

	t := &Table{
		id:       id,
		title:    spec.Title,
		columns:  columns,
		rows:     source.CloneRows(spec.Rows),
		controls: controls,
		block:    style.Responsive(id, columns),
		opts:     opts,
		gate:     semaphore.NewWeighted(1),
	}

	opts.Logger.Debug("table composed",
		slog.String("table", id),
		slog.Int("columns", len(columns)),
		slog.Int("rows", len(spec.Rows)),
		slog.Int("controls", len(controls)),
	)
	return t, nil
}

func checkColumns(columns []model.Column) error {
	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		if _, dup := seen[col.Key]; dup {
			return fmt.Errorf("%w: duplicate column key %q", ErrShapeMismatch, col.Key)
		}
		seen[col.Key] = struct{}{}
	}
	return nil
}

func checkRows(rows []model.Row) error {
	for i, row := range rows {
		if row == nil {
			return fmt.Errorf("%w: row %d is nil", ErrShapeMismatch, i)
		}
	}
	return nil
}

func buildControls(buttons []Button) ([]Control, error) {
	var controls []Control
	seen := make(map[Button]struct{}, len(buttons))
	for _, button := range buttons {
		if _, dup := seen[button]; dup {
			continue
		}
		seen[button] = struct{}{}
		control, err := newControl(button)
		if err != nil {
			return nil, err
		}
		controls = append(controls, control)
	}
	return controls, nil
}

func bindColumns(columns []model.Column) []model.Column {
	var registry *cells.Registry
	out := make([]model.Column, len(columns))
	for i, col := range columns {
		if col.Render == nil {
			if registry == nil {
				registry = cells.New()
			}
			col.Render = registry.Resolve(col)
		}
		out[i] = col
	}
	return out
}

// ID returns the table identifier.
func (t *Table) ID() string {
	return t.id
}

// Title returns the table title.
func (t *Table) Title() string {
	return t.title
}

// Columns returns the bound columns in schema order.
func (t *Table) Columns() []model.Column {
	return slices.Clone(t.columns)
}

// Style returns the responsive style block of the table.
func (t *Table) Style() style.Block {
	return t.block
}

// Rows returns a copy of the loaded rows.
func (t *Table) Rows() []model.Row {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return source.CloneRows(t.rows)
}

// Len returns the number of loaded rows.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Controls returns the attached controls in button order.
func (t *Table) Controls() []Control {
	return slices.Clone(t.controls)
}

// Busy reports whether a refresh is outstanding.
func (t *Table) Busy() bool {
	return t.busy.Load()
}

// Selection returns the current selection state.
func (t *Table) Selection() Selection {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Selection{Indices: slices.Clone(t.selected), Busy: t.busy.Load()}
}

// SelectedRows returns copies of the selected rows in row order.
func (t *Table) SelectedRows() []model.Row {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rowsAt(t.selected)
}

func (t *Table) rowsAt(indices []int) []model.Row {
	if len(indices) == 0 {
		return nil
	}
	picked := make([]model.Row, 0, len(indices))
	for _, idx := range indices {
		picked = append(picked, t.rows[idx])
	}
	return source.CloneRows(picked)
}

// Select adds rows to the selection. In single mode only the last index is
// kept and any previous selection is released.
func (t *Table) Select(indices ...int) error {
	t.mu.Lock()
	if err := t.checkSelectable(indices); err != nil {
		t.mu.Unlock()
		return err
	}

	var added, removed []int
	switch t.opts.RowSelect {
	case SelectSingle:
		if len(indices) == 0 {
			break
		}
		idx := indices[len(indices)-1]
		if len(t.selected) == 1 && t.selected[0] == idx {
			break
		}
		removed = t.selected
		added = []int{idx}
		t.selected = []int{idx}
	default:
		for _, idx := range indices {
			if slices.Contains(t.selected, idx) || slices.Contains(added, idx) {
				continue
			}
			added = append(added, idx)
		}
		t.selected = append(t.selected, added...)
		slices.Sort(t.selected)
	}

	addedRows, removedRows := t.rowsAt(added), t.rowsAt(removed)
	t.mu.Unlock()

	t.notify(addedRows, removedRows)
	return nil
}

// Deselect removes rows from the selection.
func (t *Table) Deselect(indices ...int) error {
	t.mu.Lock()
	if err := t.checkSelectable(indices); err != nil {
		t.mu.Unlock()
		return err
	}

	var removed []int
	kept := t.selected[:0:0]
	for _, idx := range t.selected {
		if slices.Contains(indices, idx) {
			removed = append(removed, idx)
			continue
		}
		kept = append(kept, idx)
	}
	t.selected = kept
	removedRows := t.rowsAt(removed)
	t.mu.Unlock()

	t.notify(nil, removedRows)
	return nil
}

// ClearSelection deselects every row.
func (t *Table) ClearSelection() error {
	t.mu.Lock()
	if t.tornDown {
		t.mu.Unlock()
		return model.ErrTornDown
	}
	removedRows := t.rowsAt(t.selected)
	t.selected = nil
	t.mu.Unlock()

	t.notify(nil, removedRows)
	return nil
}

func (t *Table) checkSelectable(indices []int) error {
	if t.tornDown {
		return model.ErrTornDown
	}
	if t.opts.RowSelect == SelectNone {
		return ErrSelectionDisabled
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(t.rows) {
			return fmt.Errorf("table: row index %d out of range [0,%d)", idx, len(t.rows))
		}
	}
	return nil
}

func (t *Table) notify(added, removed []model.Row) {
	if len(removed) > 0 && t.opts.OnRowDeselect != nil {
		t.opts.OnRowDeselect(removed)
	}
	if len(added) > 0 && t.opts.OnRowSelect != nil {
		t.opts.OnRowSelect(added)
	}
}

// ControlStates evaluates every control against the current selection.
func (t *Table) ControlStates() []ControlState {
	sel := t.Selection()
	states := make([]ControlState, 0, len(t.controls))
	for _, control := range t.controls {
		states = append(states, ControlState{
			Button:  control.Button(),
			Label:   control.Label(),
			Enabled: control.IsEnabled(sel),
			Busy:    control.Button() == ButtonRefresh && sel.Busy,
		})
	}
	return states
}

// Activate runs the control attached for button. Disabled controls return
// ErrControlDisabled, a refresh requested while one is outstanding returns
// ErrBusy.
func (t *Table) Activate(ctx context.Context, button Button) error {
	var control Control
	for _, c := range t.controls {
		if c.Button() == button {
			control = c
			break
		}
	}
	if control == nil {
		return fmt.Errorf("table: no %q control attached", button)
	}
	if t.isTornDown() {
		return model.ErrTornDown
	}

	sel := t.Selection()
	if !control.IsEnabled(sel) {
		if button == ButtonRefresh && sel.Busy {
			return model.ErrBusy
		}
		return model.ErrControlDisabled
	}
	return control.Activate(ctx, t)
}

// Refresh re-requests every row from the row source and swaps them in at
// once, clearing the selection. On failure the loaded rows and selection are
// left untouched and a *model.FetchFailure is returned. Only one refresh
// runs at a time; concurrent calls return model.ErrBusy.
func (t *Table) Refresh(ctx context.Context) error {
	if t.isTornDown() {
		return model.ErrTornDown
	}
	if t.opts.Source == nil {
		return model.ErrNoRowSource
	}
	if !t.gate.TryAcquire(1) {
		return model.ErrBusy
	}
	t.busy.Store(true)
	defer func() {
		t.busy.Store(false)
		t.gate.Release(1)
	}()

	t.opts.Logger.Debug("refreshing table", slog.String("table", t.id))
	if t.opts.OnRefresh != nil {
		t.opts.OnRefresh()
	}

	rows, err := t.opts.Source.Rows(ctx)
	if err == nil {
		err = checkRows(rows)
	}
	if err != nil {
		t.opts.Logger.Debug("refresh failed", slog.String("table", t.id), slog.Any("error", err))
		return &model.FetchFailure{Stage: model.StageRows, Err: err}
	}
	rows = source.CloneRows(rows)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.tornDown {
		return model.ErrTornDown
	}
	t.rows = rows
	t.selected = nil
	return nil
}

// RefreshAsync runs Refresh on a new goroutine and reports the outcome to
// done. Results arriving after Teardown are dropped without calling done.
func (t *Table) RefreshAsync(ctx context.Context, done func(error)) {
	go func() {
		err := t.Refresh(ctx)
		if errors.Is(err, model.ErrTornDown) {
			return
		}
		if done != nil {
			done(err)
		}
	}()
}

// Export renders the loaded rows through the visible columns.
func (t *Table) Export(format export.Format) (export.Artifact, error) {
	t.mu.RLock()
	rows := t.rows
	t.mu.RUnlock()

	opt := export.WithTypeKey(t.opts.TypeKey)
	switch format {
	case export.FormatXLS:
		return export.HTML(t.title, t.columns, rows, opt)
	case export.FormatXLSX:
		return export.XLSX(t.title, t.columns, rows, opt)
	default:
		return export.Artifact{}, &model.ExportFailure{Format: string(format), Err: errors.New("unsupported format")}
	}
}

// Teardown detaches the table. Later refresh results are discarded and
// mutating calls return model.ErrTornDown.
func (t *Table) Teardown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tornDown = true
	t.selected = nil
}

// TornDown reports whether Teardown ran.
func (t *Table) TornDown() bool {
	return t.isTornDown()
}

func (t *Table) isTornDown() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tornDown
}
