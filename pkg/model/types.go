package model

import internalmodel "github.com/goliatone/go-tablegen/internal/model"

// TypeKind re-exports the internal semantic type kinds.
type TypeKind = internalmodel.TypeKind

const (
	KindPlain    = internalmodel.KindPlain
	KindDate     = internalmodel.KindDate
	KindDateTime = internalmodel.KindDateTime
	KindTime     = internalmodel.KindTime
	KindIconType = internalmodel.KindIconType
	KindIcon     = internalmodel.KindIcon
	KindDict     = internalmodel.KindDict
	KindOther    = internalmodel.KindOther
)

type SemanticType = internalmodel.SemanticType

var (
	TypePlain    = internalmodel.TypePlain
	TypeDate     = internalmodel.TypeDate
	TypeDateTime = internalmodel.TypeDateTime
	TypeTime     = internalmodel.TypeTime
	TypeIconType = internalmodel.TypeIconType
	TypeIcon     = internalmodel.TypeIcon
	TypeDict     = internalmodel.TypeDict
)

// ParseSemanticType maps a descriptor type string onto a SemanticType.
func ParseSemanticType(raw string) SemanticType {
	return internalmodel.ParseSemanticType(raw)
}

// Other builds a server-defined semantic type.
func Other(name string) SemanticType {
	return internalmodel.Other(name)
}

type Mode = internalmodel.Mode

const (
	ModeDisplay = internalmodel.ModeDisplay
	ModeRaw     = internalmodel.ModeRaw
)

type RenderContext = internalmodel.RenderContext
type Cell = internalmodel.Cell
type RenderFunc = internalmodel.RenderFunc
type Row = internalmodel.Row
type FieldOptions = internalmodel.FieldOptions
type FieldDescriptor = internalmodel.FieldDescriptor
type FieldList = internalmodel.FieldList
type TableInfo = internalmodel.TableInfo
type TypeInfo = internalmodel.TypeInfo
type Column = internalmodel.Column
type Schema = internalmodel.Schema

// VisibleColumns returns the visible columns in schema order.
func VisibleColumns(columns []Column) []Column {
	return internalmodel.VisibleColumns(columns)
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return internalmodel.Bool(v)
}

// KeyTitle derives a human title from a field key.
func KeyTitle(key string) string {
	return internalmodel.KeyTitle(key)
}
