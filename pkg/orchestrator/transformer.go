package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tablegen/pkg/model"
)

// Transformer mutates a parsed schema before decorators run and render
// functions are bound.
type Transformer interface {
	Transform(ctx context.Context, schema *model.Schema) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, schema *model.Schema) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, schema *model.Schema) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, schema)
}

// PresetTransformer applies declarative column overrides loaded from a YAML
// or JSON document:
//
//	title: Deployed services
//	order: [name, state]
//	columns:
//	  state: {title: Status, width: 10%}
//	  comments: {visible: false}
//
// Columns named in order move to the front in that order; the rest keep
// their relative order.
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Title   string                 `yaml:"title"`
	Order   []string               `yaml:"order"`
	Columns map[string]columnPatch `yaml:"columns"`
}

type columnPatch struct {
	Title      string `yaml:"title"`
	Width      string `yaml:"width"`
	Visible    *bool  `yaml:"visible"`
	Sortable   *bool  `yaml:"sortable"`
	Searchable *bool  `yaml:"searchable"`
}

// NewPresetTransformer parses a preset document.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from fsys.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the overrides. Unknown column keys are an error.
func (t *PresetTransformer) Transform(ctx context.Context, schema *model.Schema) error {
	if schema == nil {
		return errors.New("preset transformer: schema is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if title := strings.TrimSpace(t.document.Title); title != "" {
		schema.Title = title
	}

	for key, patch := range t.document.Columns {
		idx := columnIndex(schema.Columns, key)
		if idx < 0 {
			return fmt.Errorf("preset transformer: column %q not found", key)
		}
		applyColumnPatch(&schema.Columns[idx], patch)
	}

	if len(t.document.Order) > 0 {
		ordered, err := reorderColumns(schema.Columns, t.document.Order)
		if err != nil {
			return err
		}
		schema.Columns = ordered
	}
	return nil
}

func applyColumnPatch(col *model.Column, patch columnPatch) {
	if patch.Title != "" {
		col.Title = patch.Title
	}
	if patch.Width != "" {
		col.Width = patch.Width
	}
	if patch.Visible != nil {
		col.Visible = model.Bool(*patch.Visible)
	}
	if patch.Sortable != nil {
		col.Sortable = model.Bool(*patch.Sortable)
	}
	if patch.Searchable != nil {
		col.Searchable = model.Bool(*patch.Searchable)
	}
}

func reorderColumns(columns []model.Column, order []string) ([]model.Column, error) {
	out := make([]model.Column, 0, len(columns))
	used := make([]bool, len(columns))
	for _, key := range order {
		idx := columnIndex(columns, key)
		if idx < 0 {
			return nil, fmt.Errorf("preset transformer: order names unknown column %q", key)
		}
		if used[idx] {
			continue
		}
		used[idx] = true
		out = append(out, columns[idx])
	}
	for idx, col := range columns {
		if !used[idx] {
			out = append(out, col)
		}
	}
	return out, nil
}

func columnIndex(columns []model.Column, key string) int {
	return slices.IndexFunc(columns, func(col model.Column) bool {
		return col.Key == key
	})
}
