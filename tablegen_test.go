package tablegen

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tablegen/pkg/source"
	"github.com/goliatone/go-tablegen/pkg/table"
	"github.com/goliatone/go-tablegen/pkg/testsupport"
)

func servicesSource() source.Static {
	return source.Static{
		Info:    testsupport.ServicesTableInfo(),
		Catalog: testsupport.ServiceTypes(),
		Records: testsupport.ServiceRows(),
	}
}

func TestEmbeddedTemplatesContainPanel(t *testing.T) {
	data, err := fs.ReadFile(EmbeddedTemplates(), "templates/panel.tpl")
	if err != nil {
		t.Fatalf("expected panel template to be readable: %v", err)
	}
	if !strings.Contains(string(data), "-panel") {
		t.Fatalf("expected panel template to carry the panel id")
	}
}

func TestGenerateHTML(t *testing.T) {
	out, err := GenerateHTML(context.Background(), servicesSource(), "services", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	for _, want := range []string{`id="services-panel"`, `id="services-table"`, "Services"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestGenerateWithSubsetAndControls(t *testing.T) {
	out, err := GenerateWith(context.Background(), servicesSource(), "services", "",
		TableOptions{Buttons: []table.Button{table.ButtonRefresh}},
		RenderOptions{Subset: ColumnSubset{Exclude: []string{"comments"}}},
	)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `data-button="refresh"`) {
		t.Fatalf("expected refresh control:\n%s", html)
	}
	if strings.Contains(html, `data-key="comments"`) {
		t.Fatalf("expected comments column to be excluded:\n%s", html)
	}
}

func TestExampleFixtureBuilds(t *testing.T) {
	info := testsupport.MustLoadTableInfo(t, filepath.Join("examples", "fixtures", "services", "tableinfo.yaml"))
	schema, err := NewModelBuilder().Build(info)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(schema.Issues) != 0 {
		t.Fatalf("unexpected schema issues: %v", schema.Issues)
	}
	keys := make([]string, 0, len(schema.Columns))
	for _, col := range schema.Columns {
		keys = append(keys, col.Key)
	}
	if got, want := strings.Join(keys, ","), "id,name,state,created,comments"; got != want {
		t.Fatalf("column order = %q, want %q", got, want)
	}
}

func TestLoadOpenAPI(t *testing.T) {
	doc := `openapi: 3.0.3
info:
  title: Services API
  version: "1.0"
paths: {}
components:
  schemas:
    Service:
      type: object
      title: Services
      properties:
        name:
          type: string
          title: Name
`
	path := filepath.Join(t.TempDir(), "api.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	src, err := LoadOpenAPI(context.Background(), path, "Service")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	info, err := src.TableInfo(context.Background())
	if err != nil {
		t.Fatalf("table info: %v", err)
	}
	if info.Title != "Services" || len(info.Fields) != 1 || info.Fields[0].Key != "name" {
		t.Fatalf("unexpected table info: %+v", info)
	}

	if _, err := LoadOpenAPI(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), "Service"); err == nil {
		t.Fatalf("expected missing document to fail")
	}
}

type fixedThemeSelector struct {
	selection *theme.Selection
}

func (s fixedThemeSelector) Select(string, string, ...theme.QueryOption) (*theme.Selection, error) {
	return s.selection, nil
}

func TestGenerateHTMLWithThemeSelector(t *testing.T) {
	selector := fixedThemeSelector{selection: &theme.Selection{
		Theme:    "acme",
		Manifest: &theme.Manifest{Name: "acme", Tokens: map[string]string{"class-table": "table table-sm"}},
	}}
	out, err := GenerateHTML(context.Background(), servicesSource(), "services", "", WithThemeSelector(selector))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), `<table class="table table-sm" id="services-table"`) {
		t.Fatalf("theme table class not applied:\n%s", out)
	}
}
