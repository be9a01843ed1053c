// Package openapi derives table schemas from OpenAPI component schemas.
//
// Each property of the component becomes a field. Column options come from
// the property's x-table extension (the same keys as a field descriptor:
// title, type, width, visible, sortable, searchable, icon, dict); without
// one, the title falls back to the property title and the type is inferred
// from the string format. Component maps are unordered, so the component
// may list its field order in x-table-order; remaining properties follow in
// key order. A component level x-table-types list provides the type
// catalog.
package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/source"
)

// Extension keys read from component schemas.
const (
	TableExtension = "x-table"
	OrderExtension = "x-table-order"
	TypesExtension = "x-table-types"
)

// Source serves one component schema as a table schema.
type Source struct {
	component string
	schema    *openapi3.Schema
}

var _ source.SchemaSource = (*Source)(nil)

// Load parses an OpenAPI document (JSON or YAML) and selects component.
func Load(ctx context.Context, data []byte, component string) (*Source, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return FromDocument(doc, component)
}

// FromDocument selects component from an already loaded document.
func FromDocument(doc *openapi3.T, component string) (*Source, error) {
	if doc == nil {
		return nil, errors.New("openapi: document is nil")
	}
	component = strings.TrimSpace(component)
	if component == "" {
		return nil, errors.New("openapi: component name is required")
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("openapi: component %q not found", component)
	}
	ref, ok := doc.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: component %q not found", component)
	}
	schema := ref.Value
	if types := schema.Type; types != nil && types.Is(openapi3.TypeArray) && schema.Items != nil && schema.Items.Value != nil {
		schema = schema.Items.Value
	}
	return &Source{component: component, schema: schema}, nil
}

// TableInfo converts the component properties into field descriptors.
func (s *Source) TableInfo(ctx context.Context) (model.TableInfo, error) {
	if err := ctx.Err(); err != nil {
		return model.TableInfo{}, err
	}

	info := model.TableInfo{Title: s.schema.Title}
	if info.Title == "" {
		info.Title = s.component
	}

	order, err := s.order()
	if err != nil {
		return model.TableInfo{}, err
	}
	for _, key := range order {
		prop := s.schema.Properties[key]
		if prop == nil || prop.Value == nil {
			continue
		}
		opts, err := fieldOptions(prop.Value)
		if err != nil {
			return model.TableInfo{}, fmt.Errorf("openapi: property %q: %w", key, err)
		}
		info.Fields = append(info.Fields, model.FieldDescriptor{Key: key, Options: opts})
	}
	return info, nil
}

// Types returns the x-table-types catalog, or nil.
func (s *Source) Types(ctx context.Context) ([]model.TypeInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, ok := s.schema.Extensions[TypesExtension]
	if !ok {
		return nil, nil
	}
	var types []model.TypeInfo
	if err := remarshal(raw, &types); err != nil {
		return nil, fmt.Errorf("openapi: %s: %w", TypesExtension, err)
	}
	return types, nil
}

func (s *Source) order() ([]string, error) {
	keys := make([]string, 0, len(s.schema.Properties))
	for key := range s.schema.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	raw, ok := s.schema.Extensions[OrderExtension]
	if !ok {
		return keys, nil
	}
	var preferred []string
	if err := remarshal(raw, &preferred); err != nil {
		return nil, fmt.Errorf("openapi: %s: %w", OrderExtension, err)
	}

	out := make([]string, 0, len(keys))
	for _, key := range preferred {
		if _, exists := s.schema.Properties[key]; exists && !slices.Contains(out, key) {
			out = append(out, key)
		}
	}
	for _, key := range keys {
		if !slices.Contains(out, key) {
			out = append(out, key)
		}
	}
	return out, nil
}

func fieldOptions(prop *openapi3.Schema) (model.FieldOptions, error) {
	var opts model.FieldOptions
	if raw, ok := prop.Extensions[TableExtension]; ok {
		if err := remarshal(raw, &opts); err != nil {
			return model.FieldOptions{}, fmt.Errorf("%s: %w", TableExtension, err)
		}
	}
	if opts.Title == "" {
		opts.Title = prop.Title
	}
	if opts.Type == "" {
		opts.Type = formatType(prop.Format)
	}
	return opts, nil
}

func formatType(format string) string {
	switch format {
	case "date":
		return "date"
	case "date-time":
		return "datetime"
	case "time":
		return "time"
	default:
		return ""
	}
}

// remarshal converts a decoded extension value into out through its JSON
// form.
func remarshal(raw any, out any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
