package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tablegen/pkg/style"
)

// RenderOptions carry per-request settings that do not belong to the table
// itself.
type RenderOptions struct {
	// Locale selects translations for control labels, column titles and the
	// table widget strings.
	Locale     string
	Translator Translator
	// OnMissing decides the text used when a translation is missing. The
	// default keeps the untranslated fallback.
	OnMissing MissingTranslationHandler

	// Subset narrows the visible columns for this render only.
	Subset ColumnSubset

	// Styles are extra style blocks emitted next to the table's own
	// responsive block, usually the type icon classes of the element.
	Styles []style.Block

	// Theme carries the resolved theme: class tokens, CSS variables,
	// template partials and asset URLs. Nil renders the built-in look.
	Theme *theme.RendererConfig
}
