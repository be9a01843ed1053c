package render

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// CatalogTranslator is a Translator backed by an x/text message catalog.
// Messages use fmt verbs for their arguments. Locales are matched against
// the languages that hold at least one message; unmatched locales use the
// first language added.
type CatalogTranslator struct {
	mu      sync.RWMutex
	builder *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
}

// NewCatalogTranslator returns a translator holding the built-in English
// and Spanish table strings.
func NewCatalogTranslator() *CatalogTranslator {
	t := &CatalogTranslator{builder: catalog.NewBuilder(catalog.Fallback(language.English))}
	for _, tag := range []language.Tag{language.English, language.Spanish} {
		for key, msg := range defaultMessages[tag] {
			_ = t.Set(tag, key, msg)
		}
	}
	return t
}

// Set adds or replaces the message for key in tag.
func (t *CatalogTranslator) Set(tag language.Tag, key, msg string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("render: message key is required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.builder.SetString(tag, key, msg); err != nil {
		return fmt.Errorf("render: set message %q: %w", key, err)
	}
	if !t.hasTag(tag) {
		t.tags = append(t.tags, tag)
		t.matcher = nil
	}
	return nil
}

// SetMessages adds every message of messages to the language named by
// locale.
func (t *CatalogTranslator) SetMessages(locale string, messages map[string]string) error {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
	if err != nil {
		return fmt.Errorf("render: parse locale %q: %w", locale, err)
	}
	for key, msg := range messages {
		if err := t.Set(tag, key, msg); err != nil {
			return err
		}
	}
	return nil
}

// Translate implements Translator.
func (t *CatalogTranslator) Translate(locale, key string, args ...any) (string, error) {
	tag := t.match(locale)

	t.mu.RLock()
	found := t.builder.Context(tag, discardRenderer{}).Execute(key) == nil
	t.mu.RUnlock()
	if !found {
		return "", fmt.Errorf("render: no %s message for %q", tag, key)
	}

	printer := message.NewPrinter(tag, message.Catalog(t.builder))
	return printer.Sprintf(key, args...), nil
}

func (t *CatalogTranslator) match(locale string) language.Tag {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.tags) == 0 {
		return language.English
	}
	if t.matcher == nil {
		t.matcher = language.NewMatcher(t.tags)
	}
	requested, _, err := language.ParseAcceptLanguage(strings.ReplaceAll(locale, "_", "-"))
	if err != nil || len(requested) == 0 {
		return t.tags[0]
	}
	_, idx, confidence := t.matcher.Match(requested...)
	if confidence == language.No {
		return t.tags[0]
	}
	return t.tags[idx]
}

func (t *CatalogTranslator) hasTag(tag language.Tag) bool {
	for _, existing := range t.tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// discardRenderer satisfies the catalog renderer contract for lookups that
// only check whether a key exists.
type discardRenderer struct{}

func (discardRenderer) Render(string) {}
func (discardRenderer) Arg(int) any   { return nil }

var defaultMessages = map[language.Tag]map[string]string{
	language.English: {
		"table.control.edit":               "Edit",
		"table.control.delete":             "Delete",
		"table.control.refresh":            "Refresh",
		"table.control.xls":                "xls",
		"table.control.xlsx":               "xlsx",
		"table.toolbar":                    "Table actions",
		"table.language.lengthMenu":        "_MENU_ records per page",
		"table.language.zeroRecords":       "Empty",
		"table.language.info":              "Records _START_ to _END_ of _TOTAL_",
		"table.language.infoEmpty":         "No records",
		"table.language.infoFiltered":      "(filtered from _MAX_ total records)",
		"table.language.processing":        "Please wait, processing",
		"table.language.search":            "Filter",
		"table.language.paginate.first":    "First",
		"table.language.paginate.last":     "Last",
		"table.language.paginate.next":     "Next",
		"table.language.paginate.previous": "Previous",
	},
	language.Spanish: {
		"table.control.edit":               "Editar",
		"table.control.delete":             "Borrar",
		"table.control.refresh":            "Actualizar",
		"table.control.xls":                "xls",
		"table.control.xlsx":               "xlsx",
		"table.toolbar":                    "Acciones de la tabla",
		"table.language.lengthMenu":        "_MENU_ registros por página",
		"table.language.zeroRecords":       "Vacío",
		"table.language.info":              "Registros _START_ a _END_ de _TOTAL_",
		"table.language.infoEmpty":         "Sin registros",
		"table.language.infoFiltered":      "(filtrado de _MAX_ registros en total)",
		"table.language.processing":        "Espere, procesando",
		"table.language.search":            "Filtrar",
		"table.language.paginate.first":    "Primero",
		"table.language.paginate.last":     "Último",
		"table.language.paginate.next":     "Siguiente",
		"table.language.paginate.previous": "Anterior",
	},
}
