package tablegen

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tablegen/pkg/orchestrator"
	"github.com/goliatone/go-tablegen/pkg/render"
	"github.com/goliatone/go-tablegen/pkg/source"
	"github.com/goliatone/go-tablegen/pkg/table"
)

// RenderOptions describes per-request overrides such as locale, translator
// and column subset.
type RenderOptions = render.RenderOptions

// ColumnSubset aliases render.ColumnSubset for callers narrowing the visible
// columns of a single render.
type ColumnSubset = render.ColumnSubset

// TableOptions configure controls, selection and hooks of the assembled
// table.
type TableOptions = table.Options

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML fetches schema, catalog and rows from src and renders the
// table panel using the named renderer. It is the simplest entry point for
// callers that just want markup.
func GenerateHTML(ctx context.Context, src source.Source, id, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		ID:       id,
		Source:   src,
		Renderer: rendererName,
	})
}

// GenerateWith renders like GenerateHTML but lets callers configure the table
// controls and the render options.
func GenerateWith(ctx context.Context, src source.Source, id, rendererName string, tableOpts TableOptions, renderOpts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		ID:            id,
		Source:        src,
		Table:         tableOpts,
		Renderer:      rendererName,
		RenderOptions: renderOpts,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme and variant choices are resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}
