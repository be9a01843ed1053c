package source

import (
	"context"
	"errors"

	"github.com/goliatone/go-tablegen/pkg/model"
)

// SchemaSource describes a table: its fields and the catalog of row types.
type SchemaSource interface {
	TableInfo(ctx context.Context) (model.TableInfo, error)
	Types(ctx context.Context) ([]model.TypeInfo, error)
}

// RowSource returns the full row set. It is invoked again on every refresh.
type RowSource interface {
	Rows(ctx context.Context) ([]model.Row, error)
}

// Source combines both collaborators, the usual shape of a REST item.
type Source interface {
	SchemaSource
	RowSource
}

// ErrNotConfigured is returned by Funcs when the requested callback is nil.
var ErrNotConfigured = errors.New("source: callback not configured")

// Static serves fixed values. It is mostly useful in tests and for
// documents loaded up front.
type Static struct {
	Info    model.TableInfo
	Catalog []model.TypeInfo
	Records []model.Row
}

var _ Source = Static{}

// TableInfo returns s.Info.
func (s Static) TableInfo(ctx context.Context) (model.TableInfo, error) {
	if err := ctx.Err(); err != nil {
		return model.TableInfo{}, err
	}
	return s.Info, nil
}

// Types returns a copy of s.Catalog.
func (s Static) Types(ctx context.Context) ([]model.TypeInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]model.TypeInfo(nil), s.Catalog...), nil
}

// Rows returns a copy of s.Records.
func (s Static) Rows(ctx context.Context) ([]model.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return CloneRows(s.Records), nil
}

// Funcs adapts plain functions to Source. A nil TypesFn yields an empty
// catalog; the other callbacks are required.
type Funcs struct {
	TableInfoFn func(ctx context.Context) (model.TableInfo, error)
	TypesFn     func(ctx context.Context) ([]model.TypeInfo, error)
	RowsFn      func(ctx context.Context) ([]model.Row, error)
}

var _ Source = Funcs{}

func (f Funcs) TableInfo(ctx context.Context) (model.TableInfo, error) {
	if f.TableInfoFn == nil {
		return model.TableInfo{}, ErrNotConfigured
	}
	return f.TableInfoFn(ctx)
}

func (f Funcs) Types(ctx context.Context) ([]model.TypeInfo, error) {
	if f.TypesFn == nil {
		return nil, nil
	}
	return f.TypesFn(ctx)
}

func (f Funcs) Rows(ctx context.Context) ([]model.Row, error) {
	if f.RowsFn == nil {
		return nil, ErrNotConfigured
	}
	return f.RowsFn(ctx)
}

// Join pairs a schema source with a separate row source, e.g. an OpenAPI
// document describing rows served by a REST endpoint.
func Join(schema SchemaSource, rows RowSource) Source {
	return joined{SchemaSource: schema, RowSource: rows}
}

type joined struct {
	SchemaSource
	RowSource
}

// RowsFunc adapts a function to RowSource.
type RowsFunc func(ctx context.Context) ([]model.Row, error)

// Rows calls fn.
func (fn RowsFunc) Rows(ctx context.Context) ([]model.Row, error) {
	return fn(ctx)
}

// CloneRows returns a shallow copy of every row so callers cannot mutate
// the source's records.
func CloneRows(rows []model.Row) []model.Row {
	if rows == nil {
		return nil
	}
	out := make([]model.Row, len(rows))
	for i, row := range rows {
		if row == nil {
			continue
		}
		clone := make(model.Row, len(row))
		for k, v := range row {
			clone[k] = v
		}
		out[i] = clone
	}
	return out
}
