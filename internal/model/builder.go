package model

import (
	"log/slog"
	"strings"
)

// Builder converts server-described table schemas into ordered column
// descriptors. Render functions are bound later by the cell registry.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Titler != nil {
		opts.Titler = options.Titler
	}
	if options.Logger != nil {
		opts.Logger = options.Logger
	}
	return &Builder{opts: opts}
}

// Build normalises every descriptor of info into a Column, preserving the
// schema order. Malformed descriptors never fail the build: they are either
// skipped or downgraded to plain columns and reported through
// Schema.Issues.
func (b *Builder) Build(info TableInfo) (Schema, error) {
	schema := Schema{
		Title:   info.Title,
		Columns: make([]Column, 0, len(info.Fields)),
	}

	for idx, field := range info.Fields {
		column, issue, ok := b.column(idx, field)
		if issue != nil {
			b.opts.Logger.Debug("schema issue",
				slog.Int("index", issue.Index),
				slog.String("key", issue.Key),
				slog.String("reason", issue.Reason),
			)
			schema.Issues = append(schema.Issues, issue)
		}
		if !ok {
			continue
		}
		schema.Columns = append(schema.Columns, column)
	}

	return schema, nil
}

func (b *Builder) column(idx int, field FieldDescriptor) (Column, *SchemaError, bool) {
	opts := field.Options
	key := field.Key
	title := opts.Title

	if strings.TrimSpace(key) == "" && strings.TrimSpace(title) == "" {
		return Column{}, &SchemaError{Index: idx, Reason: "descriptor has neither key nor title"}, false
	}
	if title == "" && b.opts.Titler != nil {
		title = b.opts.Titler(key)
	}

	column := Column{
		Key:        key,
		Title:      title,
		Type:       ParseSemanticType(opts.Type),
		Width:      opts.Width,
		Visible:    cloneBool(opts.Visible),
		Sortable:   cloneBool(opts.Sortable),
		Searchable: cloneBool(opts.Searchable),
	}

	var issue *SchemaError
	switch column.Type.Kind {
	case KindIcon:
		if strings.TrimSpace(opts.Icon) == "" {
			issue = &SchemaError{Index: idx, Key: key, Reason: "icon type without icon class, using plain"}
			column.Type = TypePlain
			break
		}
		column.Icon = strings.TrimSpace(opts.Icon)
	case KindDict:
		if opts.Dict == nil {
			issue = &SchemaError{Index: idx, Key: key, Reason: "dict type without dict payload, using plain"}
			column.Type = TypePlain
			break
		}
		column.Dict = cloneDict(opts.Dict)
	}
	column.SortType = column.Type.SortType()

	return column, issue, true
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneDict(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
