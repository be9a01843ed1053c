package export

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

const workbookTemplate = "workbook"

var (
	engineOnce sync.Once
	engine     *gotemplate.Engine
	engineErr  error
)

// Templates exposes the bundled export templates.
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return templatesFS
	}
	return sub
}

// HTML renders the visible columns of rows into the Excel-compatible HTML
// document. The worksheet is named after title.
func HTML(title string, columns []model.Column, rows []model.Row, opts ...Option) (Artifact, error) {
	cfg := newConfig(opts)
	sheet := BuildSheet(title, columns, rows, opts...)

	renderer := cfg.engine
	if renderer == nil {
		bundled, err := defaultEngine()
		if err != nil {
			return Artifact{}, &model.ExportFailure{Format: string(FormatXLS), Err: err}
		}
		renderer = bundled
	}

	doc, err := renderer.RenderTemplate(workbookTemplate, sheet)
	if err != nil {
		return Artifact{}, &model.ExportFailure{Format: string(FormatXLS), Err: fmt.Errorf("export: render workbook: %w", err)}
	}

	return Artifact{
		Format:    FormatXLS,
		Filename:  Filename(title, FormatXLS),
		MediaType: MediaTypeXLS,
		Data:      []byte(doc),
	}, nil
}

func defaultEngine() (*gotemplate.Engine, error) {
	engineOnce.Do(func() {
		engine, engineErr = gotemplate.New(
			gotemplate.WithFS(Templates()),
			gotemplate.WithExtension(".tpl"),
		)
	})
	return engine, engineErr
}
