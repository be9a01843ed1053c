package model

import (
	"encoding/json"
	"strings"
)

// TypeKind enumerates the semantic column types understood by the cell
// renderer registry. KindOther carries server-defined types that only
// influence sorting on the host widget.
type TypeKind uint8

const (
	KindPlain TypeKind = iota
	KindDate
	KindDateTime
	KindTime
	KindIconType
	KindIcon
	KindDict
	KindOther
)

var kindNames = map[TypeKind]string{
	KindPlain:    "",
	KindDate:     "date",
	KindDateTime: "datetime",
	KindTime:     "time",
	KindIconType: "iconType",
	KindIcon:     "icon",
	KindDict:     "dict",
}

// SemanticType is the parsed form of a field descriptor "type". Name holds
// the literal type string for KindOther and the canonical name otherwise.
type SemanticType struct {
	Kind TypeKind
	Name string
}

// Canonical semantic types.
var (
	TypePlain    = SemanticType{Kind: KindPlain}
	TypeDate     = SemanticType{Kind: KindDate, Name: "date"}
	TypeDateTime = SemanticType{Kind: KindDateTime, Name: "datetime"}
	TypeTime     = SemanticType{Kind: KindTime, Name: "time"}
	TypeIconType = SemanticType{Kind: KindIconType, Name: "iconType"}
	TypeIcon     = SemanticType{Kind: KindIcon, Name: "icon"}
	TypeDict     = SemanticType{Kind: KindDict, Name: "dict"}
)

// ParseSemanticType maps a descriptor type string onto the closed set of
// semantic types. Empty strings are plain; anything unrecognised becomes
// KindOther with the literal preserved.
func ParseSemanticType(raw string) SemanticType {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return TypePlain
	}
	for kind, name := range kindNames {
		if name != "" && name == trimmed {
			return SemanticType{Kind: kind, Name: name}
		}
	}
	return SemanticType{Kind: KindOther, Name: trimmed}
}

// Other builds a KindOther type for the supplied literal.
func Other(name string) SemanticType {
	return SemanticType{Kind: KindOther, Name: strings.TrimSpace(name)}
}

// String returns the type name as it appears in descriptors.
func (t SemanticType) String() string {
	if t.Kind == KindOther {
		return t.Name
	}
	return kindNames[t.Kind]
}

// SortType returns the sort hint negotiated with the host table widget:
// "date" for date and datetime columns, the literal for server-defined
// types, and empty when the widget default applies.
func (t SemanticType) SortType() string {
	switch t.Kind {
	case KindDate, KindDateTime:
		return "date"
	case KindOther:
		return t.Name
	default:
		return ""
	}
}

// MarshalJSON encodes the type as its descriptor string.
func (t SemanticType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a descriptor string.
func (t *SemanticType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = ParseSemanticType(raw)
	return nil
}

// Mode distinguishes values used for sorting/filtering from values shown to
// the user.
type Mode string

const (
	ModeDisplay Mode = "display"
	ModeRaw     Mode = "raw"
)

// RenderContext is passed to every RenderFunc invocation.
type RenderContext struct {
	Mode Mode
	// RowType is the row's own type key. Only iconType columns read it.
	RowType string
}

// Cell is a rendered cell value. IconClass is set only for icon columns in
// display mode; surfaces turn it into an inline marker before Text.
type Cell struct {
	Text      string `json:"text"`
	IconClass string `json:"iconClass,omitempty"`
}

// String returns the cell text.
func (c Cell) String() string {
	return c.Text
}

// RenderFunc converts a raw row value into a cell. Implementations must not
// panic and must not return the raw value for lookups that miss.
type RenderFunc func(raw any, ctx RenderContext) Cell

// Row is an opaque record keyed by field key.
type Row map[string]any

// FieldOptions carries the optional attributes of a field descriptor.
// Pointer booleans keep "absent" distinct from false so the host table's own
// defaults apply when a flag is not sent.
type FieldOptions struct {
	Title      string            `json:"title,omitempty" yaml:"title,omitempty"`
	Type       string            `json:"type,omitempty" yaml:"type,omitempty"`
	Width      string            `json:"width,omitempty" yaml:"width,omitempty"`
	Visible    *bool             `json:"visible,omitempty" yaml:"visible,omitempty"`
	Sortable   *bool             `json:"sortable,omitempty" yaml:"sortable,omitempty"`
	Searchable *bool             `json:"searchable,omitempty" yaml:"searchable,omitempty"`
	Icon       string            `json:"icon,omitempty" yaml:"icon,omitempty"`
	Dict       map[string]string `json:"dict,omitempty" yaml:"dict,omitempty"`
}

// FieldDescriptor pairs a field key with its options.
type FieldDescriptor struct {
	Key     string
	Options FieldOptions
}

// TableInfo is the server-described table schema.
type TableInfo struct {
	Title  string    `json:"title" yaml:"title"`
	Fields FieldList `json:"fields" yaml:"fields"`
}

// TypeInfo describes one entry of the type catalog. Icon is a base64 PNG.
type TypeInfo struct {
	Type        string `json:"type" yaml:"type"`
	Icon        string `json:"icon" yaml:"icon"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Column is the normalised column descriptor derived from a field
// descriptor. Render is attached by the cell renderer registry.
type Column struct {
	Key        string            `json:"key"`
	Title      string            `json:"title"`
	Type       SemanticType      `json:"type"`
	Width      string            `json:"width,omitempty"`
	Visible    *bool             `json:"visible,omitempty"`
	Sortable   *bool             `json:"sortable,omitempty"`
	Searchable *bool             `json:"searchable,omitempty"`
	Icon       string            `json:"icon,omitempty"`
	Dict       map[string]string `json:"dict,omitempty"`
	SortType   string            `json:"sortType,omitempty"`
	Render     RenderFunc        `json:"-"`
}

// IsVisible reports whether the column is shown; absent means visible.
func (c Column) IsVisible() bool {
	return c.Visible == nil || *c.Visible
}

// Schema is the parser output: ordered columns plus any non-fatal issues
// found while normalising descriptors.
type Schema struct {
	Title   string
	Columns []Column
	Issues  []*SchemaError
}

// VisibleColumns returns the visible columns in schema order.
func VisibleColumns(columns []Column) []Column {
	out := make([]Column, 0, len(columns))
	for _, col := range columns {
		if col.IsVisible() {
			out = append(out, col)
		}
	}
	return out
}

// Bool returns a pointer to v, handy when declaring descriptors in code.
func Bool(v bool) *bool {
	return &v
}
