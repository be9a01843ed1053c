package model

import internalmodel "github.com/goliatone/go-tablegen/internal/model"

var (
	ErrBusy            = internalmodel.ErrBusy
	ErrTornDown        = internalmodel.ErrTornDown
	ErrControlDisabled = internalmodel.ErrControlDisabled
	ErrNoRowSource     = internalmodel.ErrNoRowSource
)

const (
	StageTableInfo = internalmodel.StageTableInfo
	StageTypes     = internalmodel.StageTypes
	StageRows      = internalmodel.StageRows
)

type SchemaError = internalmodel.SchemaError
type RenderError = internalmodel.RenderError
type FetchFailure = internalmodel.FetchFailure
type ExportFailure = internalmodel.ExportFailure
