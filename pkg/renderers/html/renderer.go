package html

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tablegen/pkg/cells"
	"github.com/goliatone/go-tablegen/pkg/render"
	rendertemplate "github.com/goliatone/go-tablegen/pkg/render/template"
	gotemplate "github.com/goliatone/go-tablegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-tablegen/pkg/style"
	"github.com/goliatone/go-tablegen/pkg/table"
)

// Name is the registry name of the renderer.
const Name = "html"

// DefaultIcon is the font-awesome icon of the panel heading.
const DefaultIcon = "table"

const panelTemplate = "templates/panel.tpl"

// Theme keys read from render.RenderOptions.Theme.
const (
	// PanelPartial names a template, inside the renderer's template bundle,
	// rendered instead of templates/panel.tpl.
	PanelPartial = "table.panel"
	// StylesheetAsset is linked ahead of the panel when the theme resolves it.
	StylesheetAsset = "table.stylesheet"
)

var widthPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(px|%|em|rem|ch)?$`)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	templateFuncs    map[string]any
	icon             string
	classes          Classes
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must provide templates/panel.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTemplateFuncs registers helpers with the default engine. The
// translate and current_locale helpers of render.TemplateI18nFuncs are
// supplied on every render and take precedence over same-named helpers.
func WithTemplateFuncs(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFuncs == nil {
			cfg.templateFuncs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFuncs[name] = fn
		}
	}
}

// WithIcon sets the icon shown in the panel heading.
func WithIcon(icon string) Option {
	return func(cfg *config) {
		if icon = strings.TrimSpace(icon); icon != "" {
			cfg.icon = icon
		}
	}
}

// WithClasses overrides chrome classes. Empty fields keep the defaults.
func WithClasses(classes Classes) Option {
	return func(cfg *config) {
		cfg.classes = cfg.classes.merge(classes)
	}
}

// Renderer writes a table view as a bootstrap panel holding the table, its
// toolbar, the style blocks and a JSON config for the host widget.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	icon      string
	classes   Classes
}

// New constructs the html renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		icon:       DefaultIcon,
		classes:    DefaultClasses(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
			gotemplate.WithTemplateFunc(cfg.templateFuncs),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, icon: cfg.icon, classes: cfg.classes}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, view table.View, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	render.LocalizeView(&view, opts)
	render.ApplySubset(&view, opts.Subset)

	data, err := r.templateData(view, opts)
	if err != nil {
		return nil, err
	}

	result, err := r.templates.RenderTemplate(panelTemplateFor(opts.Theme), data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// widgetConfig is consumed by the client-side table widget.
type widgetConfig struct {
	ID        string               `json:"id"`
	RowSelect table.SelectMode     `json:"rowSelect,omitempty"`
	Columns   []widgetColumn       `json:"columns"`
	Language  render.TableLanguage `json:"language"`
	Dom       string               `json:"dom"`
}

type widgetColumn struct {
	Key        string `json:"data"`
	Title      string `json:"title"`
	Visible    bool   `json:"visible"`
	Sortable   bool   `json:"orderable"`
	Searchable bool   `json:"searchable"`
	SortType   string `json:"type,omitempty"`
	Width      string `json:"width,omitempty"`
}

// widgetDom lays out toolbar and filter on top, info and paging below.
const widgetDom = "<'row'<'col-xs-6'T><'col-xs-6'f>r>t<'row'<'col-xs-5'i><'col-xs-7'p>>"

func (r *Renderer) templateData(view table.View, opts render.RenderOptions) (map[string]any, error) {
	visible := view.Visible()
	classes := r.classes
	if opts.Theme != nil {
		classes = classes.themed(opts.Theme.Tokens)
	}

	columns := make([]map[string]any, 0, len(visible))
	widgetCols := make([]widgetColumn, 0, len(view.Columns))
	for _, col := range view.Columns {
		width := cssWidth(col.Width)
		widgetCols = append(widgetCols, widgetColumn{
			Key:        col.Key,
			Title:      col.Title,
			Visible:    col.Visible,
			Sortable:   boolOr(col.Sortable, true),
			Searchable: boolOr(col.Searchable, true),
			SortType:   col.SortType,
			Width:      width,
		})
		if !col.Visible {
			continue
		}
		columns = append(columns, map[string]any{
			"key":   col.Key,
			"title": col.Title,
			"type":  col.Type,
			"width": width,
		})
	}

	rows := make([]map[string]any, 0, len(view.Rows))
	for _, row := range view.Rows {
		picked := make([]map[string]any, 0, len(visible))
		for _, idx := range visible {
			if idx >= len(row.Cells) {
				continue
			}
			order := ""
			if idx < len(row.Sort) {
				order = row.Sort[idx]
			}
			picked = append(picked, map[string]any{
				"html":  cells.Markup(row.Cells[idx]).String(),
				"order": order,
			})
		}
		rows = append(rows, map[string]any{
			"index":    strconv.Itoa(row.Index),
			"type":     row.Type,
			"selected": row.Selected,
			"cells":    picked,
		})
	}

	controls := make([]map[string]any, 0, len(view.Controls))
	for _, state := range view.Controls {
		controls = append(controls, map[string]any{
			"button":  string(state.Button),
			"label":   state.Label,
			"enabled": state.Enabled,
			"busy":    state.Busy,
			"class":   classes.Button(state),
		})
	}

	blocks := make([]style.Block, 0, len(opts.Styles)+2)
	if opts.Theme != nil {
		blocks = append(blocks, style.Variables(ThemeBlockID(view.ID), opts.Theme.CSSVars))
	}
	blocks = append(blocks, opts.Styles...)
	blocks = append(blocks, view.Style)

	config, err := json.Marshal(widgetConfig{
		ID:        view.ID,
		RowSelect: view.RowSelect,
		Columns:   widgetCols,
		Language:  render.Language(opts),
		Dom:       widgetDom,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: encode widget config: %w", err)
	}

	data := map[string]any{
		"id":         view.ID,
		"title":      view.Title,
		"icon":       r.icon,
		"busy":       view.Busy,
		"row_select": string(view.RowSelect),
		"classes":    classMap(classes),
		"columns":    columns,
		"rows":       rows,
		"controls":   controls,
		"styles":     styleData(blocks),
		"config":     string(config),
	}
	for key, value := range themeData(opts.Theme) {
		data[key] = value
	}
	for name, fn := range render.TemplateI18nFuncs(opts) {
		data[name] = fn
	}
	return data, nil
}

func classMap(classes Classes) map[string]any {
	return map[string]any{
		"panel":   classes.Panel,
		"heading": classes.Heading,
		"title":   classes.Title,
		"body":    classes.Body,
		"toolbar": classes.Toolbar,
		"table":   classes.Table,
	}
}

// ThemeBlockID returns the ID of the style block holding a theme's CSS
// variables for the table with tableID.
func ThemeBlockID(tableID string) string {
	return "theme-" + tableID
}

func panelTemplateFor(cfg *theme.RendererConfig) string {
	if cfg == nil {
		return panelTemplate
	}
	if name := strings.TrimSpace(cfg.Partials[PanelPartial]); name != "" {
		return name
	}
	return panelTemplate
}

func themeData(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return nil
	}
	data := map[string]any{
		"theme_name":    cfg.Theme,
		"theme_variant": cfg.Variant,
	}
	if cfg.AssetURL != nil {
		data["theme_stylesheet"] = cfg.AssetURL(StylesheetAsset)
	}
	return data
}

func styleData(blocks []style.Block) []map[string]any {
	out := make([]map[string]any, 0, len(blocks))
	seen := make(map[string]struct{}, len(blocks))
	for _, block := range blocks {
		if len(block.Rules) == 0 {
			continue
		}
		if _, dup := seen[block.ID]; dup && block.ID != "" {
			continue
		}
		seen[block.ID] = struct{}{}
		out = append(out, map[string]any{
			"id":    block.ID,
			"media": block.Media,
			"css":   block.StyleSheet().String(),
		})
	}
	return out
}

// cssWidth drops widths that are not a plain CSS length.
func cssWidth(width string) string {
	width = strings.TrimSpace(width)
	if !widthPattern.MatchString(width) {
		return ""
	}
	return width
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
