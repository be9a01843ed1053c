package deployed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goliatone/go-tablegen/pkg/cells"
	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/orchestrator"
	"github.com/goliatone/go-tablegen/pkg/render"
	"github.com/goliatone/go-tablegen/pkg/source"
	"github.com/goliatone/go-tablegen/pkg/table"
)

var (
	// ErrNotOpen is returned by operations that need an open panel.
	ErrNotOpen = errors.New("deployed: panel is not open")
	// ErrNothingSelected is returned by Delete without a selection.
	ErrNothingSelected = errors.New("deployed: no services selected")
	// ErrNotErrorRow is returned by ErrorInfo unless exactly one service in
	// error state is selected.
	ErrNotErrorRow = errors.New("deployed: select a single service in error state")
)

// MenuAction is the context menu the panel offers for the current
// selection.
type MenuAction string

const (
	MenuNone   MenuAction = ""
	MenuAssign MenuAction = "assign"
	MenuInfo   MenuAction = "info"
	MenuDelete MenuAction = "delete"
)

// Option configures a Panel.
type Option func(*Panel)

// WithOrchestrator builds the panel's table through orch.
func WithOrchestrator(orch *orchestrator.Orchestrator) Option {
	return func(p *Panel) {
		if orch != nil {
			p.orch = orch
		}
	}
}

// WithManualAssignment marks the deployed service as requiring services to
// be assigned to users by hand, which enables the assign menu.
func WithManualAssignment(manual bool) Option {
	return func(p *Panel) {
		p.manualAssign = manual
	}
}

// WithID overrides the element id. It defaults to "deployed-<mode>".
func WithID(id string) Option {
	return func(p *Panel) {
		if id != "" {
			p.id = id
		}
	}
}

// WithTableOptions adds buttons and hooks to the panel's table. Row
// selection is always multi and the row source is always the service.
func WithTableOptions(opts table.Options) Option {
	return func(p *Panel) {
		p.tableOpts = opts
	}
}

// WithLogger routes panel logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Panel) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Panel lists the cached or assigned user services of a deployed service.
type Panel struct {
	svc          Service
	mode         Mode
	id           string
	manualAssign bool
	tableOpts    table.Options
	orch         *orchestrator.Orchestrator
	logger       *slog.Logger

	mu      sync.RWMutex
	element *orchestrator.Element
}

// New constructs a panel for svc in mode.
func New(svc Service, mode Mode, options ...Option) (*Panel, error) {
	if svc == nil {
		return nil, errors.New("deployed: service is required")
	}
	if !mode.valid() {
		return nil, fmt.Errorf("deployed: unknown mode %q", mode)
	}
	p := &Panel{
		svc:    svc,
		mode:   mode,
		id:     "deployed-" + string(mode),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	if p.orch == nil {
		p.orch = orchestrator.New(orchestrator.WithLogger(p.logger))
	}
	return p, nil
}

// Mode returns the listing mode.
func (p *Panel) Mode() Mode {
	return p.mode
}

// Source returns the schema and row source backing the panel.
func (p *Panel) Source() source.Source {
	return source.Funcs{
		TableInfoFn: func(context.Context) (model.TableInfo, error) {
			return TableInfo(p.mode), nil
		},
		RowsFn: p.rows,
	}
}

func (p *Panel) rows(ctx context.Context) ([]model.Row, error) {
	var (
		services []UserService
		err      error
	)
	if p.mode == ModeCache {
		services, err = p.svc.Cached(ctx)
	} else {
		services, err = p.svc.Assigned(ctx)
	}
	if err != nil {
		return nil, err
	}
	rows := make([]model.Row, len(services))
	for i, svc := range services {
		rows[i] = Row(p.mode, svc)
	}
	return rows, nil
}

// Open builds the table. Opening an open panel replaces its table.
func (p *Panel) Open(ctx context.Context) error {
	opts := p.tableOpts
	opts.RowSelect = table.SelectMulti
	opts.Source = nil

	el, err := p.orch.Open(ctx, orchestrator.Request{
		ID:     p.id,
		Source: p.Source(),
		Table:  opts,
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	previous := p.element
	p.element = el
	p.mu.Unlock()
	if previous != nil {
		previous.Teardown()
	}
	p.logger.Debug("deployed panel opened", slog.String("mode", string(p.mode)), slog.Int("rows", el.Table().Len()))
	return nil
}

// Close tears the table down.
func (p *Panel) Close() {
	p.mu.Lock()
	el := p.element
	p.element = nil
	p.mu.Unlock()
	if el != nil {
		el.Teardown()
	}
}

// Table returns the open table.
func (p *Panel) Table() (*table.Table, error) {
	el, err := p.current()
	if err != nil {
		return nil, err
	}
	return el.Table(), nil
}

// Refresh reloads the services.
func (p *Panel) Refresh(ctx context.Context) error {
	el, err := p.current()
	if err != nil {
		return err
	}
	return el.Refresh(ctx)
}

// Delete removes the selected services and reloads the list. The list is
// reloaded even when removal fails; both errors are returned.
func (p *Panel) Delete(ctx context.Context) error {
	el, err := p.current()
	if err != nil {
		return err
	}
	ids := selectedIDs(el.Table())
	if len(ids) == 0 {
		return ErrNothingSelected
	}

	var removeErr error
	if err := p.svc.Remove(ctx, ids); err != nil {
		p.logger.Debug("remove failed", slog.Any("ids", ids), slog.Any("error", err))
		removeErr = fmt.Errorf("deployed: remove %d services: %w", len(ids), err)
	}
	return errors.Join(removeErr, el.Refresh(ctx))
}

// ErrorInfo returns the error report of the selected service.
func (p *Panel) ErrorInfo(ctx context.Context) (string, error) {
	el, err := p.current()
	if err != nil {
		return "", err
	}
	rows := el.Table().SelectedRows()
	if len(rows) != 1 || !inError(rows[0]) {
		return "", ErrNotErrorRow
	}
	report, err := p.svc.Error(ctx, cells.Canonical(rows[0]["id"]))
	if err != nil {
		return "", fmt.Errorf("deployed: error info: %w", err)
	}
	return report, nil
}

// Menu resolves the context menu for the current selection: assign when
// nothing is selected and services are assigned by hand, info for a single
// service in error state, delete for any other selection.
func (p *Panel) Menu() MenuAction {
	el, err := p.current()
	if err != nil {
		return MenuNone
	}
	rows := el.Table().SelectedRows()
	switch {
	case len(rows) == 0 && p.manualAssign:
		return MenuAssign
	case len(rows) == 0:
		return MenuNone
	case len(rows) == 1 && inError(rows[0]):
		return MenuInfo
	default:
		return MenuDelete
	}
}

// Render renders the panel through the named surface of its orchestrator.
func (p *Panel) Render(ctx context.Context, name string, opts render.RenderOptions) ([]byte, error) {
	el, err := p.current()
	if err != nil {
		return nil, err
	}
	return p.orch.Render(ctx, el, name, opts)
}

func (p *Panel) current() (*orchestrator.Element, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.element == nil {
		return nil, ErrNotOpen
	}
	return p.element, nil
}

func selectedIDs(tbl *table.Table) []string {
	rows := tbl.SelectedRows()
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if id := cells.Canonical(row["id"]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func inError(row model.Row) bool {
	return cells.Canonical(row["state"]) == StateError
}
