package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded panel templates so callers can copy and
// override them with WithTemplatesFS.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
