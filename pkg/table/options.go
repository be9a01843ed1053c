package table

import (
	"log/slog"

	"github.com/goliatone/go-tablegen/pkg/export"
	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/source"
)

// Button names an action control.
type Button string

const (
	ButtonEdit    Button = "edit"
	ButtonDelete  Button = "delete"
	ButtonRefresh Button = "refresh"
	ButtonXLS     Button = "xls"
	ButtonXLSX    Button = "xlsx"
)

// SelectMode controls row selection.
type SelectMode string

const (
	// SelectNone disables row selection.
	SelectNone   SelectMode = ""
	SelectSingle SelectMode = "single"
	SelectMulti  SelectMode = "multi"
)

// DefaultTypeKey is the row field holding the row's type.
const DefaultTypeKey = "type"

// Options configure Assemble. Every field is optional.
type Options struct {
	Buttons   []Button
	RowSelect SelectMode

	// OnRowSelect and OnRowDeselect receive the rows whose selection
	// changed.
	OnRowSelect   func(rows []model.Row)
	OnRowDeselect func(rows []model.Row)
	// OnRefresh runs when the refresh control is activated, before rows are
	// requested.
	OnRefresh func()
	OnEdit    func(row model.Row)
	OnDelete  func(rows []model.Row)
	OnExport  func(artifact export.Artifact)

	// Source is re-queried on every refresh.
	Source source.RowSource
	// TypeKey names the row field passed to iconType renderers.
	TypeKey string
	Logger  *slog.Logger
}

func (o Options) normalize() Options {
	if o.TypeKey == "" {
		o.TypeKey = DefaultTypeKey
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Spec is the input of Assemble.
type Spec struct {
	ID      string
	Title   string
	Columns []model.Column
	Rows    []model.Row
}
