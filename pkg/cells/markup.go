package cells

import (
	"strings"

	"github.com/google/safehtml"
	"github.com/google/safehtml/uncheckedconversions"

	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/sanitize"
)

// Markup returns the display markup for cell: the escaped text, preceded by
// an inline icon marker when the cell carries an icon class.
func Markup(cell model.Cell) safehtml.HTML {
	text := safehtml.HTMLEscaped(cell.Text)
	classes := iconClasses(cell.IconClass)
	if classes == "" {
		return text
	}
	// classes only holds [A-Za-z0-9_ -], so it cannot leave the attribute.
	marker := uncheckedconversions.HTMLFromStringKnownToSatisfyTypeContract(`<span class="` + classes + `"></span> `)
	return safehtml.HTMLConcat(marker, text)
}

func iconClasses(raw string) string {
	fields := strings.Fields(raw)
	out := fields[:0]
	for _, field := range fields {
		if class := sanitize.ClassName(field); class != "" {
			out = append(out, class)
		}
	}
	return strings.Join(out, " ")
}
