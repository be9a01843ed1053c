package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-tablegen/pkg/model"
)

// Violation is a problem found in the table extensions of a document.
type Violation struct {
	Location string
	Message  string
}

func (v Violation) String() string {
	return v.Location + " -> " + v.Message
}

type optionKind int

const (
	kindString optionKind = iota
	kindBool
	kindDict
)

var optionKinds = map[string]optionKind{
	"title":      kindString,
	"type":       kindString,
	"width":      kindString,
	"icon":       kindString,
	"visible":    kindBool,
	"sortable":   kindBool,
	"searchable": kindBool,
	"dict":       kindDict,
}

// OptionKeys lists the keys accepted inside x-table, sorted.
func OptionKeys() []string {
	keys := make([]string, 0, len(optionKinds))
	for key := range optionKinds {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Lint checks the table extensions of every component schema in doc:
// x-table must be an object of known keys holding values of the right kind,
// x-table-order must name existing properties and x-table-types must decode
// to a type catalog. Violations are sorted by location.
func Lint(doc *openapi3.T) []Violation {
	if doc == nil || doc.Components == nil {
		return nil
	}
	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Violation
	for _, name := range names {
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		schema := ref.Value
		if schema.Type != nil && schema.Type.Is(openapi3.TypeArray) && schema.Items != nil && schema.Items.Value != nil {
			schema = schema.Items.Value
		}
		out = append(out, lintComponent([]string{"components", name}, schema)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Location < out[j].Location
	})
	return out
}

func lintComponent(path []string, schema *openapi3.Schema) []Violation {
	var out []Violation
	if raw, ok := schema.Extensions[OrderExtension]; ok {
		var order []string
		if err := remarshal(raw, &order); err != nil {
			out = append(out, violation(appendPath(path, OrderExtension), "must be a list of property names"))
		}
		for _, key := range order {
			if _, exists := schema.Properties[key]; !exists {
				out = append(out, violation(appendPath(path, OrderExtension), fmt.Sprintf("names unknown property %q", key)))
			}
		}
	}
	if raw, ok := schema.Extensions[TypesExtension]; ok {
		var types []model.TypeInfo
		if err := remarshal(raw, &types); err != nil {
			out = append(out, violation(appendPath(path, TypesExtension), "must be a list of type entries"))
		}
		for i, info := range types {
			if strings.TrimSpace(info.Type) == "" {
				out = append(out, violation(appendPath(path, TypesExtension, fmt.Sprint(i)), "type is required"))
			}
		}
	}

	keys := make([]string, 0, len(schema.Properties))
	for key := range schema.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		prop := schema.Properties[key]
		if prop == nil || prop.Value == nil {
			continue
		}
		if raw, ok := prop.Value.Extensions[TableExtension]; ok {
			out = append(out, lintOptions(appendPath(path, "properties", key, TableExtension), raw)...)
		}
	}
	return out
}

func lintOptions(path []string, raw any) []Violation {
	options, ok := raw.(map[string]any)
	if !ok {
		return []Violation{violation(path, fmt.Sprintf("%s must be an object, found %T", TableExtension, raw))}
	}

	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []Violation
	for _, key := range keys {
		kind, known := optionKinds[key]
		if !known {
			out = append(out, violation(path, fmt.Sprintf("unsupported key %q (supported: %s)", key, strings.Join(OptionKeys(), ", "))))
			continue
		}
		if msg := checkKind(kind, options[key]); msg != "" {
			out = append(out, violation(appendPath(path, key), msg))
		}
	}

	typ, _ := options["type"].(string)
	_, hasDict := options["dict"]
	switch {
	case hasDict && typ != "dict":
		out = append(out, violation(path, `dict is only used by columns of type "dict"`))
	case typ == "dict" && !hasDict:
		out = append(out, violation(path, `type "dict" needs a dict`))
	}
	return out
}

func checkKind(kind optionKind, value any) string {
	switch kind {
	case kindBool:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("must be a boolean, found %T", value)
		}
	case kindDict:
		dict, ok := value.(map[string]any)
		if !ok {
			return fmt.Sprintf("must be an object, found %T", value)
		}
		for key, label := range dict {
			if _, ok := label.(string); !ok {
				return fmt.Sprintf("label for %q must be a string, found %T", key, label)
			}
		}
	default:
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("must be a string, found %T", value)
		}
	}
	return ""
}

func violation(path []string, message string) Violation {
	return Violation{Location: strings.Join(path, " > "), Message: message}
}

func appendPath(path []string, segments ...string) []string {
	next := append([]string(nil), path...)
	return append(next, segments...)
}
