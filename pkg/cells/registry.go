package cells

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/goliatone/go-tablegen/pkg/locale"
	"github.com/goliatone/go-tablegen/pkg/model"
)

// Option configures a Registry.
type Option func(*Registry)

// WithFormats sets the strftime patterns for date, datetime and time
// columns. Empty patterns fall back to locale.Default.
func WithFormats(formats locale.Formats) Option {
	return func(r *Registry) {
		r.formats = formats.Merge(locale.Default)
	}
}

// WithLocation sets the zone timestamps are shown in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(r *Registry) {
		if loc != nil {
			r.location = loc
		}
	}
}

// WithCatalog supplies the type catalog read by iconType columns.
func WithCatalog(catalog *TypeCatalog) Option {
	return func(r *Registry) {
		r.catalog = catalog
	}
}

// WithLogger routes recovered render failures to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry resolves render functions for columns. Renderers for
// server-defined types can be registered by name; unregistered ones render
// like plain columns.
type Registry struct {
	mu     sync.RWMutex
	others map[string]model.RenderFunc

	formats  locale.Formats
	location *time.Location
	catalog  *TypeCatalog
	logger   *slog.Logger
}

// New builds a Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		others:   make(map[string]model.RenderFunc),
		formats:  locale.Default,
		location: time.UTC,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Register installs fn for the server-defined type name. Built-in type names
// cannot be overridden.
func (r *Registry) Register(name string, fn model.RenderFunc) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("cells: renderer name is required")
	}
	if fn == nil {
		return fmt.Errorf("cells: renderer %q is nil", name)
	}
	if model.ParseSemanticType(name).Kind != model.KindOther {
		return fmt.Errorf("cells: %q is a built-in type", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.others[name]; exists {
		return fmt.Errorf("cells: renderer %q already registered", name)
	}
	r.others[name] = fn
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(name string, fn model.RenderFunc) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// List returns the registered server-defined type names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.others))
	for name := range r.others {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog returns the type catalog iconType columns resolve against.
func (r *Registry) Catalog() *TypeCatalog {
	return r.catalog
}

// Formats returns the active date patterns.
func (r *Registry) Formats() locale.Formats {
	return r.formats
}

// Resolve returns the render function for col.
func (r *Registry) Resolve(col model.Column) model.RenderFunc {
	var fn model.RenderFunc
	switch col.Type.Kind {
	case model.KindPlain:
		fn = renderPlain
	case model.KindDate:
		fn = r.renderDate(r.formats.ShortDate)
	case model.KindDateTime:
		fn = r.renderDate(r.formats.ShortDateTime)
	case model.KindTime:
		fn = r.renderDate(r.formats.Time)
	case model.KindIconType:
		fn = renderTypeIcon(r.catalog)
	case model.KindIcon:
		fn = renderIcon(col.Icon)
	case model.KindDict:
		fn = renderDict(col.Dict)
	case model.KindOther:
		fn = r.other(col.Type.Name)
	default:
		fn = renderPlain
	}
	return r.guard(col.Key, fn)
}

// Bind returns a copy of columns with Render attached to each one.
func (r *Registry) Bind(columns []model.Column) []model.Column {
	out := make([]model.Column, len(columns))
	for i, col := range columns {
		col.Render = r.Resolve(col)
		out[i] = col
	}
	return out
}

func (r *Registry) other(name string) model.RenderFunc {
	r.mu.RLock()
	fn, ok := r.others[name]
	r.mu.RUnlock()
	if ok {
		return fn
	}
	return renderPlain
}

func (r *Registry) guard(column string, fn model.RenderFunc) model.RenderFunc {
	logger := r.logger
	return func(raw any, ctx model.RenderContext) (cell model.Cell) {
		defer func() {
			if rec := recover(); rec != nil {
				err := &model.RenderError{Column: column, Value: raw, Err: fmt.Errorf("%v", rec)}
				logger.Debug("render failed", slog.String("column", column), slog.Any("error", err))
				cell = model.Cell{Text: Placeholder}
			}
		}()
		return fn(raw, ctx)
	}
}

func renderPlain(raw any, _ model.RenderContext) model.Cell {
	return model.Cell{Text: orPlaceholder(raw)}
}

func (r *Registry) renderDate(pattern string) model.RenderFunc {
	loc := r.location
	return func(raw any, ctx model.RenderContext) model.Cell {
		millis, err := epochMillis(raw)
		if errors.Is(err, errEpochOutRange) {
			return model.Cell{Text: Placeholder}
		}
		if err != nil {
			return renderPlain(raw, ctx)
		}
		return model.Cell{Text: strftime.Format(pattern, time.UnixMilli(millis).In(loc))}
	}
}

func renderTypeIcon(catalog *TypeCatalog) model.RenderFunc {
	return func(raw any, ctx model.RenderContext) model.Cell {
		cell := model.Cell{Text: orPlaceholder(raw)}
		if ctx.Mode == model.ModeDisplay {
			cell.IconClass = catalog.Class(ctx.RowType)
		}
		return cell
	}
}

func renderIcon(class string) model.RenderFunc {
	class = strings.TrimSpace(class)
	return func(raw any, ctx model.RenderContext) model.Cell {
		cell := model.Cell{Text: orPlaceholder(raw)}
		if ctx.Mode == model.ModeDisplay {
			cell.IconClass = class
		}
		return cell
	}
}

func renderDict(dict map[string]string) model.RenderFunc {
	return func(raw any, _ model.RenderContext) model.Cell {
		if label := dict[Canonical(raw)]; label != "" {
			return model.Cell{Text: label}
		}
		return model.Cell{Text: Placeholder}
	}
}
