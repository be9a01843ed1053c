package orchestrator

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tablegen/pkg/renderers/html"
)

// WithThemeSelector resolves a theme for every render whose options do not
// already carry one. The element's ThemeName and ThemeVariant are passed to
// the selector.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeFallbacks sets the partials used when the selected theme does not
// name its own. Entries replace the defaults key by key.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		if o.themeFallbacks == nil {
			o.themeFallbacks = defaultThemeFallbacks()
		}
		for key, value := range fallbacks {
			o.themeFallbacks[key] = value
		}
	}
}

func defaultThemeFallbacks() map[string]string {
	return map[string]string{
		html.PanelPartial: "templates/panel.tpl",
	}
}

func (o *Orchestrator) resolveTheme(name, variant string) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme %q: %w", name, err)
	}
	if selection == nil {
		return nil, nil
	}
	return rendererConfig(selection, o.themeFallbacks), nil
}

// rendererConfig flattens a selection: variant tokens, templates and assets
// override the manifest's, fallbacks fill partials neither defines, and
// every token is exposed as a --<token> CSS variable.
func rendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: make(map[string]string),
		Tokens:   make(map[string]string),
		CSSVars:  make(map[string]string),
	}
	for key, value := range fallbacks {
		cfg.Partials[key] = value
	}

	prefix := ""
	files := make(map[string]string)
	if manifest := selection.Manifest; manifest != nil {
		if cfg.Theme == "" {
			cfg.Theme = manifest.Name
		}
		mergeStrings(cfg.Tokens, manifest.Tokens)
		mergeStrings(cfg.Partials, manifest.Templates)
		mergeStrings(files, manifest.Assets.Files)
		prefix = manifest.Assets.Prefix

		if variant, ok := manifest.Variants[selection.Variant]; ok {
			mergeStrings(cfg.Tokens, variant.Tokens)
			mergeStrings(cfg.Partials, variant.Templates)
			mergeStrings(files, variant.Assets.Files)
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
		}
	}

	for token, value := range cfg.Tokens {
		cfg.CSSVars["--"+token] = value
	}
	cfg.AssetURL = assetResolver(prefix, files)
	return cfg
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
			return file
		}
		return prefix + "/" + file
	}
}

func mergeStrings(dst, src map[string]string) {
	for key, value := range src {
		if value != "" {
			dst[key] = value
		}
	}
}
