package template

import (
	"io"
)

// TemplateRenderer is the engine contract surfaces depend on: execute a
// named template with data, optionally copying the output to writers.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
