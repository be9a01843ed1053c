package export

import (
	"encoding/base64"
	"strings"

	"github.com/goliatone/go-tablegen/pkg/cells"
	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/render/template"
	"github.com/goliatone/go-tablegen/pkg/sanitize"
)

// Format identifies an export flavour.
type Format string

const (
	FormatXLS  Format = "xls"
	FormatXLSX Format = "xlsx"
)

// Media types of the generated documents.
const (
	MediaTypeXLS  = "application/vnd.ms-excel"
	MediaTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DefaultTypeKey is the row field holding the row type.
const DefaultTypeKey = "type"

// Artifact is a generated document ready for download.
type Artifact struct {
	Format    Format `json:"format"`
	Filename  string `json:"filename"`
	MediaType string `json:"mediaType"`
	Data      []byte `json:"-"`
}

// DataURI returns the document as a base64 data URI.
func (a Artifact) DataURI() string {
	return "data:" + a.MediaType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// Option configures an export.
type Option func(*config)

type config struct {
	typeKey string
	engine  template.TemplateRenderer
}

// WithTypeKey names the row field passed to iconType renderers.
func WithTypeKey(key string) Option {
	return func(cfg *config) {
		if key = strings.TrimSpace(key); key != "" {
			cfg.typeKey = key
		}
	}
}

// WithEngine renders the HTML document through engine instead of the
// bundled one. The engine must resolve the "workbook" template.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(cfg *config) {
		cfg.engine = engine
	}
}

func newConfig(opts []Option) config {
	cfg := config{typeKey: DefaultTypeKey}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Sheet is the tabular content shared by every format: the titles of the
// visible columns and, per row, their display values in column order.
type Sheet struct {
	Title   string     `json:"worksheet"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// BuildSheet renders rows through the visible columns. Columns without a
// render function show their canonical raw value.
func BuildSheet(title string, columns []model.Column, rows []model.Row, opts ...Option) Sheet {
	cfg := newConfig(opts)
	visible := model.VisibleColumns(columns)

	sheet := Sheet{
		Title:   sanitize.Text(title),
		Headers: make([]string, len(visible)),
		Rows:    make([][]string, 0, len(rows)),
	}
	for i, col := range visible {
		sheet.Headers[i] = sanitize.Text(col.Title)
	}

	for _, row := range rows {
		ctx := model.RenderContext{Mode: model.ModeDisplay, RowType: rowType(row, cfg.typeKey)}
		values := make([]string, len(visible))
		for i, col := range visible {
			values[i] = displayValue(col, row[col.Key], ctx)
		}
		sheet.Rows = append(sheet.Rows, values)
	}
	return sheet
}

// Filename derives a download name from title.
func Filename(title string, format Format) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, sanitize.Text(title))
	name = strings.TrimSpace(name)
	if name == "" {
		name = "export"
	}
	return name + "." + string(format)
}

func displayValue(col model.Column, raw any, ctx model.RenderContext) string {
	if col.Render == nil {
		return cells.Canonical(raw)
	}
	return col.Render(raw, ctx).Text
}

func rowType(row model.Row, key string) string {
	if row == nil {
		return ""
	}
	return cells.Canonical(row[key])
}
