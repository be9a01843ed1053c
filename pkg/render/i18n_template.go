package render

// Template helper names supplied by TemplateI18nFuncs.
const (
	TranslateFunc     = "translate"
	CurrentLocaleFunc = "current_locale"
)

// TemplateI18nFuncs returns the translation helpers a surface hands to its
// templates for one render:
//
//	translate(key, fallback) string
//	current_locale() string
//
// translate resolves key for opts.Locale the same way LocalizeView does,
// so opts.OnMissing sees the fallback under the "default" argument.
func TemplateI18nFuncs(opts RenderOptions) map[string]any {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	locale := opts.Locale
	t := opts.Translator

	return map[string]any{
		TranslateFunc: func(key, fallback string) string {
			return translate(locale, key, fallback, t, onMissing)
		},
		CurrentLocaleFunc: func() string {
			return locale
		},
	}
}
