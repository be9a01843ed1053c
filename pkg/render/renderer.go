package render

import (
	"context"

	"github.com/goliatone/go-tablegen/pkg/table"
)

// Renderer turns a table view into a byte representation (HTML, text, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view table.View, options RenderOptions) ([]byte, error)
}
