package gotemplate

import (
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-tablegen/pkg/sanitize"
)

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("placeholder") {
		_ = pongo2.RegisterFilter("placeholder", filterPlaceholder)
	}
	if !pongo2.FilterExists("cssclass") {
		_ = pongo2.RegisterFilter("cssclass", filterCSSClass)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterPlaceholder substitutes "-" (or the parameter) for empty values.
func filterPlaceholder(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() || strings.TrimSpace(in.String()) == "" {
		if param != nil && !param.IsNil() && param.String() != "" {
			return param, nil
		}
		return pongo2.AsValue("-"), nil
	}
	return in, nil
}

// filterCSSClass keeps only tokens that are valid class names.
func filterCSSClass(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	fields := strings.Fields(in.String())
	out := fields[:0]
	for _, field := range fields {
		if class := sanitize.ClassName(field); class != "" {
			out = append(out, class)
		}
	}
	return pongo2.AsValue(strings.Join(out, " ")), nil
}
