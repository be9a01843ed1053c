package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-tablegen/pkg/cells"
	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/source"
	"github.com/goliatone/go-tablegen/pkg/style"
	"github.com/goliatone/go-tablegen/pkg/table"
)

// Element is an opened table together with the schema, type catalog and
// style blocks it was built from.
type Element struct {
	id      string
	schema  model.Schema
	catalog *cells.TypeCatalog
	table   *table.Table
	sheet   *style.Sheet
	icons   style.Block
	logger  *slog.Logger

	themeName    string
	themeVariant string

	teardownOnce sync.Once
}

func (o *Orchestrator) open(ctx context.Context, req Request, src source.Source) (*Element, error) {
	logger := o.logger.With(slog.String("element", req.ID))
	logger.Debug("element init")

	var (
		info  model.TableInfo
		types []model.TypeInfo
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		if info, err = src.TableInfo(groupCtx); err != nil {
			return &model.FetchFailure{Stage: model.StageTableInfo, Err: err}
		}
		return nil
	})
	group.Go(func() error {
		var err error
		if types, err = src.Types(groupCtx); err != nil {
			return &model.FetchFailure{Stage: model.StageTypes, Err: err}
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		logger.Debug("element fetch failed", slog.Any("error", err))
		return nil, err
	}

	var catalogOpts []cells.CatalogOption
	if o.fallbackClass != "" {
		catalogOpts = append(catalogOpts, cells.WithFallbackClass(o.fallbackClass))
	}
	catalog := cells.NewTypeCatalog(req.ID, types, catalogOpts...)
	icons := style.TypeIcons(req.ID, catalog)
	logger.Debug("type style created", slog.Int("types", catalog.Len()), slog.Int("rules", len(icons.Rules)))

	schema, err := o.builder.Build(info)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build schema: %w", err)
	}
	if err := o.applyTransformer(ctx, &schema); err != nil {
		return nil, err
	}
	if err := o.applyDecorators(&schema); err != nil {
		return nil, err
	}

	registry, err := o.cellRegistry(catalog)
	if err != nil {
		return nil, err
	}
	columns := registry.Bind(schema.Columns)
	schema.Columns = columns

	rows, err := src.Rows(ctx)
	if err != nil {
		logger.Debug("row fetch failed", slog.Any("error", err))
		return nil, &model.FetchFailure{Stage: model.StageRows, Err: err}
	}

	opts := req.Table
	if opts.Source == nil {
		opts.Source = src
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}
	tbl, err := table.Assemble(table.Spec{
		ID:      req.ID + "-table",
		Title:   schema.Title,
		Columns: columns,
		Rows:    rows,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: assemble table: %w", err)
	}

	el := &Element{
		id:      req.ID,
		schema:  schema,
		catalog: catalog,
		table:   tbl,
		sheet:   o.sheet,
		icons:   icons,
		logger:  logger,

		themeName:    req.ThemeName,
		themeVariant: req.ThemeVariant,
	}
	o.sheet.Acquire(el, icons)
	o.sheet.Acquire(el, tbl.Style())
	return el, nil
}

// ID returns the element identifier.
func (e *Element) ID() string {
	return e.id
}

// Schema returns the schema the table was built from, with render
// functions bound.
func (e *Element) Schema() model.Schema {
	return e.schema
}

// Catalog returns the type catalog fetched at open.
func (e *Element) Catalog() *cells.TypeCatalog {
	return e.catalog
}

// Table returns the assembled table.
func (e *Element) Table() *table.Table {
	return e.table
}

// IconStyle returns the type icon block of the element.
func (e *Element) IconStyle() style.Block {
	return e.icons
}

// View returns the current render-ready view of the table.
func (e *Element) View() table.View {
	return e.table.View()
}

// Refresh reloads the rows through the table's refresh flow.
func (e *Element) Refresh(ctx context.Context) error {
	return e.table.Refresh(ctx)
}

// Teardown detaches the table and releases the element's style blocks.
// Blocks shared with another open element of the same ID stay on the sheet
// until that element is torn down too. Calling it more than once is
// harmless.
func (e *Element) Teardown() {
	e.teardownOnce.Do(func() {
		e.table.Teardown()
		e.sheet.Release(e, e.icons.ID)
		e.sheet.Release(e, e.table.Style().ID)
		e.logger.Debug("element torn down")
	})
}
