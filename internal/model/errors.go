package model

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a control is activated while a previous
	// activation of the same table is still outstanding.
	ErrBusy = errors.New("table: refresh already in progress")
	// ErrTornDown is returned when a table is used after Teardown.
	ErrTornDown = errors.New("table: torn down")
	// ErrControlDisabled is returned when activating a control whose
	// enablement predicate is false for the current selection.
	ErrControlDisabled = errors.New("table: control disabled")
	// ErrNoRowSource is returned by refresh when no row source is wired.
	ErrNoRowSource = errors.New("table: row source is required")
)

// SchemaError describes a malformed field descriptor. The parser records it
// as an issue and keeps going: the entry is either skipped or downgraded to
// a plain column.
type SchemaError struct {
	Index  int
	Key    string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("schema: field #%d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("schema: field %q: %s", e.Key, e.Reason)
}

// RenderError describes a value a renderer could not interpret. It never
// escapes a renderer; it is only logged.
type RenderError struct {
	Column string
	Value  any
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render: column %q value %v: %v", e.Column, e.Value, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Fetch stages reported by FetchFailure.
const (
	StageTableInfo = "tableinfo"
	StageTypes     = "types"
	StageRows      = "rows"
)

// FetchFailure reports a failed collaborator fetch. Already rendered state is
// left untouched when it is returned.
type FetchFailure struct {
	Stage string
	Err   error
}

func (e *FetchFailure) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Stage, e.Err)
}

func (e *FetchFailure) Unwrap() error {
	return e.Err
}

// ExportFailure reports an encoding failure for a single export action.
type ExportFailure struct {
	Format string
	Err    error
}

func (e *ExportFailure) Error() string {
	return fmt.Sprintf("export %s: %v", e.Format, e.Err)
}

func (e *ExportFailure) Unwrap() error {
	return e.Err
}
