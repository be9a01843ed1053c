package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-tablegen/pkg/table"
)

// Translator resolves a message key for locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler returns the text to use when key could not be
// translated. args carries the call arguments; translations requested by
// the localisers pass a map with the "default" fallback as the only
// argument.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// ErrMissingTranslator is passed to the missing handler when no translator
// is configured.
var ErrMissingTranslator = errors.New("render: translator is not configured")

// Message keys used by LocalizeView and Language.
const (
	controlKeyPrefix  = "table.control."
	columnKeyPrefix   = "table.column."
	languageKeyPrefix = "table.language."
)

// ControlKey returns the message key of a control label.
func ControlKey(button table.Button) string {
	return controlKeyPrefix + string(button)
}

// ColumnKey returns the message key of a column title.
func ColumnKey(key string) string {
	return columnKeyPrefix + key
}

// LocalizeView translates control labels and column titles in place. Keys
// that do not resolve keep their current text. When a title changes the
// responsive style block is rebuilt so its labels follow the translation.
func LocalizeView(view *table.View, opts RenderOptions) {
	if view == nil {
		return
	}
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	for i := range view.Controls {
		state := &view.Controls[i]
		state.Label = translate(opts.Locale, ControlKey(state.Button), state.Label, opts.Translator, onMissing)
	}
	retitled := false
	for i := range view.Columns {
		col := &view.Columns[i]
		title := translate(opts.Locale, ColumnKey(col.Key), col.Title, opts.Translator, onMissing)
		if title != col.Title {
			col.Title = title
			retitled = true
		}
	}
	if retitled {
		restyle(view)
	}
}

// TableLanguage holds the strings of the host table widget: paging,
// filtering and empty states. _MENU_, _START_, _END_, _TOTAL_ and _MAX_ are
// placeholders the widget substitutes.
type TableLanguage struct {
	LengthMenu   string `json:"lengthMenu"`
	ZeroRecords  string `json:"zeroRecords"`
	Info         string `json:"info"`
	InfoEmpty    string `json:"infoEmpty"`
	InfoFiltered string `json:"infoFiltered"`
	Processing   string `json:"processing"`
	Search       string `json:"search"`
	Paginate     struct {
		First    string `json:"first"`
		Last     string `json:"last"`
		Next     string `json:"next"`
		Previous string `json:"previous"`
	} `json:"paginate"`
}

// DefaultLanguage returns the English widget strings.
func DefaultLanguage() TableLanguage {
	var lang TableLanguage
	lang.LengthMenu = "_MENU_ records per page"
	lang.ZeroRecords = "Empty"
	lang.Info = "Records _START_ to _END_ of _TOTAL_"
	lang.InfoEmpty = "No records"
	lang.InfoFiltered = "(filtered from _MAX_ total records)"
	lang.Processing = "Please wait, processing"
	lang.Search = "Filter"
	lang.Paginate.First = "First"
	lang.Paginate.Last = "Last"
	lang.Paginate.Next = "Next"
	lang.Paginate.Previous = "Previous"
	return lang
}

// Language translates the widget strings for opts.Locale, falling back to
// DefaultLanguage entry by entry.
func Language(opts RenderOptions) TableLanguage {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	lang := DefaultLanguage()
	for key, target := range languageFields(&lang) {
		*target = translate(opts.Locale, languageKeyPrefix+key, *target, opts.Translator, onMissing)
	}
	return lang
}

func languageFields(lang *TableLanguage) map[string]*string {
	return map[string]*string{
		"lengthMenu":        &lang.LengthMenu,
		"zeroRecords":       &lang.ZeroRecords,
		"info":              &lang.Info,
		"infoEmpty":         &lang.InfoEmpty,
		"infoFiltered":      &lang.InfoFiltered,
		"processing":        &lang.Processing,
		"search":            &lang.Search,
		"paginate.first":    &lang.Paginate.First,
		"paginate.last":     &lang.Paginate.Last,
		"paginate.next":     &lang.Paginate.Next,
		"paginate.previous": &lang.Paginate.Previous,
	}
}

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	if len(args) == 1 {
		if payload, ok := args[0].(map[string]any); ok {
			if fallback, ok := payload["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
		}
		if strings.TrimSpace(fallback) != "" {
			return fallback
		}
		return key
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}

	if onMissing != nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
