package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tablegen/pkg/cells"
	"github.com/goliatone/go-tablegen/pkg/locale"
	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/render"
	"github.com/goliatone/go-tablegen/pkg/renderers/html"
	"github.com/goliatone/go-tablegen/pkg/source"
	"github.com/goliatone/go-tablegen/pkg/style"
	"github.com/goliatone/go-tablegen/pkg/table"
)

const defaultRendererName = html.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithModelBuilder injects a custom schema builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSources registers named sources requests can refer to.
func WithSources(sources *SourceRegistry) Option {
	return func(o *Orchestrator) {
		o.sources = sources
	}
}

// WithSchemaTransformer registers a Transformer that runs after the schema
// is built and before decorators.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDecorators registers decorators that run against every built schema.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithLocale picks the date format preset for locale.
func WithLocale(tag string) Option {
	return func(o *Orchestrator) {
		o.formats = locale.Match(tag)
	}
}

// WithFormats sets the date patterns explicitly.
func WithFormats(formats locale.Formats) Option {
	return func(o *Orchestrator) {
		o.formats = formats
	}
}

// WithLocation renders dates in loc.
func WithLocation(loc *time.Location) Option {
	return func(o *Orchestrator) {
		o.location = loc
	}
}

// WithCellRenderer registers a renderer for a server-defined column type.
func WithCellRenderer(name string, fn model.RenderFunc) Option {
	return func(o *Orchestrator) {
		if o.cellRenderers == nil {
			o.cellRenderers = make(map[string]model.RenderFunc)
		}
		o.cellRenderers[name] = fn
	}
}

// WithFallbackClass sets the icon class used for row types missing from
// the type catalog.
func WithFallbackClass(class string) Option {
	return func(o *Orchestrator) {
		o.fallbackClass = class
	}
}

// WithSheet shares a style sheet between elements. Each element replaces
// its own blocks.
func WithSheet(sheet *style.Sheet) Option {
	return func(o *Orchestrator) {
		o.sheet = sheet
	}
}

// WithLogger routes pipeline logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator builds elements from sources and renders them. The zero
// configuration uses the built-in builder and the HTML surface.
type Orchestrator struct {
	builder         model.Builder
	registry        *render.Registry
	defaultRenderer string
	sources         *SourceRegistry
	transformer     Transformer
	decorators      []model.Decorator
	formats         locale.Formats
	location        *time.Location
	cellRenderers   map[string]model.RenderFunc
	fallbackClass   string
	sheet           *style.Sheet
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	logger          *slog.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		formats:         locale.Default,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one element.
type Request struct {
	// ID names the element. The table id is "<ID>-table" and type icon
	// classes are "<ID>-<type>".
	ID string

	// Source provides schema, catalog and rows. SourceName selects a
	// registered source instead.
	Source     source.Source
	SourceName string

	// Table configures controls and hooks. Its Source defaults to the
	// request source.
	Table table.Options

	// Renderer names the surface used by Generate. Empty uses the default.
	Renderer      string
	RenderOptions render.RenderOptions

	// ThemeName and ThemeVariant are handed to the theme selector when the
	// element is rendered. Empty values select the selector's defaults.
	ThemeName    string
	ThemeVariant string
}

// Open runs the fetch and build pipeline and returns the element. Schema
// and catalog are fetched concurrently; rows are fetched once both are
// ready.
func (o *Orchestrator) Open(ctx context.Context, req Request) (*Element, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, errors.New("orchestrator: element id is required")
	}

	src, err := o.resolveSource(req)
	if err != nil {
		return nil, err
	}
	return o.open(ctx, req, src)
}

// Generate opens the element described by req and renders it once.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	el, err := o.Open(ctx, req)
	if err != nil {
		return nil, err
	}
	defer el.Teardown()
	return o.Render(ctx, el, req.Renderer, req.RenderOptions)
}

// Render renders el through the named surface. The element's type icon
// block is passed along with any styles already in opts.
func (o *Orchestrator) Render(ctx context.Context, el *Element, name string, opts render.RenderOptions) ([]byte, error) {
	if el == nil {
		return nil, errors.New("orchestrator: element is nil")
	}
	renderer, err := o.rendererFor(name)
	if err != nil {
		return nil, err
	}

	if opts.Theme == nil {
		cfg, err := o.resolveTheme(el.themeName, el.themeVariant)
		if err != nil {
			return nil, err
		}
		opts.Theme = cfg
	}

	opts.Styles = append([]style.Block{el.IconStyle()}, opts.Styles...)
	output, err := renderer.Render(ctx, el.View(), opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Renderers returns the renderer registry.
func (o *Orchestrator) Renderers() *render.Registry {
	return o.registry
}

// Sheet returns the style sheet shared by the elements of o.
func (o *Orchestrator) Sheet() *style.Sheet {
	return o.sheet
}

func (o *Orchestrator) resolveSource(req Request) (source.Source, error) {
	if req.Source != nil {
		return req.Source, nil
	}
	if req.SourceName == "" {
		return nil, errors.New("orchestrator: source is required")
	}
	if o.sources == nil {
		return nil, fmt.Errorf("orchestrator: source %q: no source registry", req.SourceName)
	}
	return o.sources.Get(req.SourceName)
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) applyDecorators(schema *model.Schema) error {
	for _, decorator := range o.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(schema); err != nil {
			return fmt.Errorf("orchestrator: decorate schema: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, schema *model.Schema) error {
	if o.transformer == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, schema); err != nil {
		return fmt.Errorf("orchestrator: transform schema: %w", err)
	}
	return nil
}

func (o *Orchestrator) cellRegistry(catalog *cells.TypeCatalog) (*cells.Registry, error) {
	registry := cells.New(
		cells.WithFormats(o.formats),
		cells.WithLocation(o.location),
		cells.WithCatalog(catalog),
		cells.WithLogger(o.logger),
	)
	for name, fn := range o.cellRenderers {
		if err := registry.Register(name, fn); err != nil {
			return nil, fmt.Errorf("orchestrator: cell renderer: %w", err)
		}
	}
	return registry, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.builder == nil {
		o.builder = model.NewBuilder(model.WithTitler(model.KeyTitle), model.WithLogger(o.logger))
	}
	if o.location == nil {
		o.location = time.UTC
	}
	if o.sheet == nil {
		o.sheet = style.NewSheet()
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = defaultThemeFallbacks()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
