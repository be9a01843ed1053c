package html_test

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tablegen/pkg/render"
	"github.com/goliatone/go-tablegen/pkg/renderers/html"
	"github.com/goliatone/go-tablegen/pkg/style"
	"github.com/goliatone/go-tablegen/pkg/table"
	"github.com/goliatone/go-tablegen/pkg/testsupport"
)

func renderServices(t *testing.T, opts table.Options, renderOpts render.RenderOptions, options ...html.Option) string {
	t.Helper()
	tbl := testsupport.ServicesTable(t, opts)
	renderer, err := html.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), tbl.View(), renderOpts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderer_Metadata(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != html.Name {
		t.Fatalf("unexpected name %q", renderer.Name())
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}

func TestRenderer_PanelMarkup(t *testing.T) {
	out := renderServices(t, table.Options{}, render.RenderOptions{})

	for _, want := range []string{
		`<div class="panel panel-primary" id="services-table-panel">`,
		`<h3 class="panel-title"><span class="fa fa-table"></span> Services</h3>`,
		`<table class="table table-striped table-bordered table-hover" id="services-table"`,
		`<style id="style-services-table" media="screen">`,
		`<span class="services-linux"></span> web`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	headers := regexp.MustCompile(`<th data-key="([a-z]+)"`).FindAllStringSubmatch(out, -1)
	var keys []string
	for _, m := range headers {
		keys = append(keys, m[1])
	}
	if diff := cmp.Diff([]string{"name", "state", "created", "comments"}, keys); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	if got := strings.Count(out, "<tr data-index="); got != 3 {
		t.Fatalf("expected 3 body rows, got %d", got)
	}
	if strings.Contains(out, "a1") {
		t.Fatalf("hidden id column leaked into the markup")
	}
}

func TestRenderer_ControlsFollowState(t *testing.T) {
	tbl := testsupport.ServicesTable(t, table.Options{
		Buttons:   []table.Button{table.ButtonEdit, table.ButtonDelete, table.ButtonRefresh},
		RowSelect: table.SelectSingle,
	})
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), tbl.View(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	body := string(out)
	if !strings.Contains(body, `class="btn disabled" data-button="edit" disabled>Edit</button>`) {
		t.Fatalf("edit should start disabled:\n%s", body)
	}
	if !strings.Contains(body, `class="btn btn-info" data-button="refresh">Refresh</button>`) {
		t.Fatalf("refresh should be enabled:\n%s", body)
	}

	if err := tbl.Select(0); err != nil {
		t.Fatalf("select: %v", err)
	}
	out, err = renderer.Render(context.Background(), tbl.View(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	body = string(out)
	for _, want := range []string{
		`class="btn btn-info" data-button="edit">Edit</button>`,
		`class="btn btn-warning" data-button="delete">Delete</button>`,
		`data-type="linux" class="selected">`,
		`data-row-select="single"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("output missing %q:\n%s", want, body)
		}
	}
}

func TestRenderer_LocalizesAndSubsets(t *testing.T) {
	out := renderServices(t,
		table.Options{Buttons: []table.Button{table.ButtonRefresh}},
		render.RenderOptions{
			Locale:     "es",
			Translator: render.NewCatalogTranslator(),
			Subset:     render.ColumnSubset{Exclude: []string{"comm*"}},
		},
	)

	if !strings.Contains(out, ">Actualizar</button>") {
		t.Fatalf("refresh label not translated:\n%s", out)
	}
	if strings.Contains(out, `data-key="comments"`) {
		t.Fatalf("excluded column rendered:\n%s", out)
	}

	config := widgetConfig(t, out)
	if config.Language.Search != "Filtrar" {
		t.Fatalf("language not translated: %+v", config.Language)
	}
	var visible []string
	for _, col := range config.Columns {
		if col.Visible {
			visible = append(visible, col.Data)
		}
	}
	if diff := cmp.Diff([]string{"name", "state", "created"}, visible); diff != "" {
		t.Fatalf("visible widget columns mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_TranslatesTemplateLabels(t *testing.T) {
	tbl := testsupport.ServicesTable(t, table.Options{Buttons: []table.Button{table.ButtonRefresh}})
	view := tbl.View()
	view.Controls[0].Busy = true

	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), view, render.RenderOptions{
		Locale:     "es",
		Translator: render.NewCatalogTranslator(),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	body := string(out)
	for _, want := range []string{
		`role="toolbar" aria-label="Acciones de la tabla"`,
		`<span class="fa fa-spinner fa-spin" title="Espere, procesando"></span>`,
		`id="services-table-panel" lang="es"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("output missing %q:\n%s", want, body)
		}
	}

	plain := renderServices(t, table.Options{Buttons: []table.Button{table.ButtonRefresh}}, render.RenderOptions{})
	if !strings.Contains(plain, `aria-label="Table actions"`) {
		t.Fatalf("untranslated render should use the fallback label:\n%s", plain)
	}
	if strings.Contains(plain, ` lang="`) {
		t.Fatalf("lang attribute should be omitted without a locale")
	}
}

func TestRenderer_WidgetConfigHints(t *testing.T) {
	out := renderServices(t, table.Options{}, render.RenderOptions{})
	config := widgetConfig(t, out)

	if config.ID != "services-table" || len(config.Columns) != 5 {
		t.Fatalf("unexpected config %+v", config)
	}
	if config.Columns[0].Visible {
		t.Fatalf("id column should stay hidden in the widget config")
	}
	if config.Columns[4].Orderable {
		t.Fatalf("comments is not sortable")
	}
	if !config.Columns[1].Orderable || !config.Columns[1].Searchable {
		t.Fatalf("name should default to sortable and searchable: %+v", config.Columns[1])
	}
}

func TestRenderer_ExtraStylesAndClasses(t *testing.T) {
	extra := style.Block{ID: "style-extra", Rules: []string{".x { color: red; }"}}
	out := renderServices(t, table.Options{}, render.RenderOptions{Styles: []style.Block{extra, {ID: "empty"}}},
		html.WithIcon("server"),
		html.WithClasses(html.Classes{Panel: "card"}),
	)

	if !strings.Contains(out, `<style id="style-extra">.x { color: red; }</style>`) {
		t.Fatalf("extra style block missing:\n%s", out)
	}
	if strings.Contains(out, `id="empty"`) {
		t.Fatalf("empty style blocks should be skipped")
	}
	if !strings.Contains(out, `<div class="card" id="services-table-panel">`) || !strings.Contains(out, `fa fa-server`) {
		t.Fatalf("overrides not applied:\n%s", out)
	}
	if !strings.Contains(out, `class="panel-heading"`) {
		t.Fatalf("unset class overrides should keep defaults")
	}
}

func TestRenderer_ThemeConfig(t *testing.T) {
	cfg := &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		Tokens: map[string]string{
			"class-panel":          "card",
			"class-button-refresh": "btn-outline-primary",
			"brand":                "#123456",
		},
		CSSVars: map[string]string{"--brand": "#123456"},
		AssetURL: func(key string) string {
			if key == html.StylesheetAsset {
				return "/assets/themes/acme/table.css"
			}
			return ""
		},
	}
	out := renderServices(t, table.Options{Buttons: []table.Button{table.ButtonRefresh}}, render.RenderOptions{Theme: cfg},
		html.WithClasses(html.Classes{Heading: "card-header"}),
	)

	for _, want := range []string{
		`<link rel="stylesheet" href="/assets/themes/acme/table.css">`,
		`<style id="theme-services-table">:root {`,
		`--brand: #123456;`,
		`<div class="card" id="services-table-panel" data-theme="acme" data-theme-variant="dark">`,
		`<div class="card-header">`,
		`class="btn btn-outline-primary" data-button="refresh">Refresh</button>`,
		`class="panel-body"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	plain := renderServices(t, table.Options{}, render.RenderOptions{})
	if strings.Contains(plain, "data-theme") || strings.Contains(plain, "<link") {
		t.Fatalf("unthemed render should not carry theme markup:\n%s", plain)
	}
}

func TestRenderer_ThemePanelPartial(t *testing.T) {
	files := fstest.MapFS{
		"templates/panel.tpl":   &fstest.MapFile{Data: []byte(`default`)},
		"templates/compact.tpl": &fstest.MapFile{Data: []byte(`compact:{{ theme_name }}:{{ classes.panel }}`)},
	}
	cfg := &theme.RendererConfig{
		Theme:    "acme",
		Partials: map[string]string{html.PanelPartial: "templates/compact.tpl"},
	}
	out := renderServices(t, table.Options{}, render.RenderOptions{Theme: cfg}, html.WithTemplatesFS(files))
	if out != "compact:acme:panel panel-primary" {
		t.Fatalf("unexpected partial output %q", out)
	}
}

func TestRenderer_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"templates/panel.tpl": &fstest.MapFile{Data: []byte(`{{ title }}:{% for row in rows %}[{{ row.index }}]{% endfor %}`)},
	}
	out := renderServices(t, table.Options{}, render.RenderOptions{}, html.WithTemplatesFS(files))
	if out != "Services:[0][1][2]" {
		t.Fatalf("unexpected custom output %q", out)
	}
}

func TestRenderer_EscapesCellText(t *testing.T) {
	tbl := testsupport.ServicesTable(t, table.Options{})
	view := tbl.View()
	view.Rows[0].Cells[4].Text = `<script>alert(1)</script>`

	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), view, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<script>alert") {
		t.Fatalf("cell text was not escaped")
	}
	if !strings.Contains(string(out), "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("escaped cell text missing:\n%s", out)
	}
}

type configDoc struct {
	ID       string               `json:"id"`
	Language render.TableLanguage `json:"language"`
	Columns  []struct {
		Data       string `json:"data"`
		Visible    bool   `json:"visible"`
		Orderable  bool   `json:"orderable"`
		Searchable bool   `json:"searchable"`
	} `json:"columns"`
}

func widgetConfig(t *testing.T, out string) configDoc {
	t.Helper()
	m := regexp.MustCompile(`(?s)<script type="application/json" id="[^"]+-config">(.*?)</script>`).FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("widget config missing:\n%s", out)
	}
	var doc configDoc
	if err := json.Unmarshal([]byte(m[1]), &doc); err != nil {
		t.Fatalf("decode widget config: %v", err)
	}
	return doc
}
