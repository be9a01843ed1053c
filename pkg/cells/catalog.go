package cells

import (
	"strings"

	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/sanitize"
)

// TypeCatalog holds the row types an element knows about, fetched once at
// element initialisation. Each type gets the CSS class "<element>-<type>"
// which iconType cells reference.
type TypeCatalog struct {
	element  string
	entries  []model.TypeInfo
	classes  map[string]string
	fallback string
}

// CatalogOption customises a TypeCatalog.
type CatalogOption func(*TypeCatalog)

// WithFallbackClass sets the class used for row types missing from the
// catalog. The default is no class at all.
func WithFallbackClass(class string) CatalogOption {
	return func(c *TypeCatalog) {
		c.fallback = strings.TrimSpace(class)
	}
}

// NewTypeCatalog indexes types for element. Entries without a type are
// ignored; later duplicates replace earlier ones.
func NewTypeCatalog(element string, types []model.TypeInfo, opts ...CatalogOption) *TypeCatalog {
	catalog := &TypeCatalog{
		element: strings.TrimSpace(element),
		classes: make(map[string]string, len(types)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(catalog)
		}
	}

	for _, info := range types {
		key := strings.TrimSpace(info.Type)
		if key == "" {
			continue
		}
		info.Type = key
		info.Name = sanitize.Text(info.Name)
		info.Description = sanitize.Text(info.Description)
		if _, exists := catalog.classes[key]; exists {
			for i := range catalog.entries {
				if catalog.entries[i].Type == key {
					catalog.entries[i] = info
				}
			}
		} else {
			catalog.entries = append(catalog.entries, info)
		}
		catalog.classes[key] = ClassName(catalog.element, key)
	}
	return catalog
}

// ClassName returns the icon class registered for typ under element.
func ClassName(element, typ string) string {
	el := sanitize.ClassName(element)
	t := sanitize.ClassName(typ)
	switch {
	case el == "":
		return t
	case t == "":
		return el
	default:
		return el + "-" + t
	}
}

// Element returns the element name the catalog was built for.
func (c *TypeCatalog) Element() string {
	if c == nil {
		return ""
	}
	return c.element
}

// Lookup returns the class for rowType and whether the type is known.
func (c *TypeCatalog) Lookup(rowType string) (string, bool) {
	if c == nil {
		return "", false
	}
	class, ok := c.classes[strings.TrimSpace(rowType)]
	return class, ok
}

// Class returns the class for rowType, or the fallback class when the type
// is not part of the catalog.
func (c *TypeCatalog) Class(rowType string) string {
	if class, ok := c.Lookup(rowType); ok {
		return class
	}
	if c == nil {
		return ""
	}
	return c.fallback
}

// Types returns the catalog entries in fetch order.
func (c *TypeCatalog) Types() []model.TypeInfo {
	if c == nil {
		return nil
	}
	out := make([]model.TypeInfo, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len reports the number of known types.
func (c *TypeCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
