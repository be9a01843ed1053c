package export_test

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-tablegen/pkg/cells"
	"github.com/goliatone/go-tablegen/pkg/export"
	"github.com/goliatone/go-tablegen/pkg/model"
)

func exportColumns() []model.Column {
	registry := cells.New()
	return registry.Bind([]model.Column{
		{Key: "id", Title: "Id", Visible: model.Bool(false)},
		{Key: "name", Title: "Name"},
		{Key: "state", Title: "State", Type: model.TypeDict, Dict: map[string]string{"1": "Up", "2": "Down"}},
	})
}

func exportRows() []model.Row {
	return []model.Row{
		{"id": 1, "name": "alpha", "state": 1},
		{"id": 2, "name": "beta", "state": 2},
		{"id": 3, "name": "<gamma>", "state": 7},
	}
}

func TestBuildSheet_VisibleColumnsInOrder(t *testing.T) {
	sheet := export.BuildSheet("Hosts", exportColumns(), exportRows())

	want := export.Sheet{
		Title:   "Hosts",
		Headers: []string{"Name", "State"},
		Rows: [][]string{
			{"alpha", "Up"},
			{"beta", "Down"},
			{"<gamma>", "-"},
		},
	}
	if diff := cmp.Diff(want, sheet); diff != "" {
		t.Fatalf("sheet mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSheet_UnboundColumnsUseCanonicalValue(t *testing.T) {
	sheet := export.BuildSheet("", []model.Column{{Key: "n", Title: "N"}}, []model.Row{{"n": 2.5}, {"n": true}})
	if diff := cmp.Diff([][]string{{"2.5"}, {"true"}}, sheet.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestHTML_WorkbookDocument(t *testing.T) {
	artifact, err := export.HTML("Hosts", exportColumns(), exportRows())
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if artifact.Filename != "Hosts.xls" || artifact.MediaType != export.MediaTypeXLS {
		t.Fatalf("unexpected artifact metadata %+v", artifact)
	}

	doc := string(artifact.Data)
	if !strings.Contains(doc, "<x:Name>Hosts</x:Name>") {
		t.Fatalf("worksheet name missing: %s", doc)
	}
	if got := strings.Count(doc, "<th>"); got != 2 {
		t.Fatalf("expected 2 headers, got %d", got)
	}
	if !strings.Contains(doc, "<th><b>Name</b></th><th><b>State</b></th>") {
		t.Fatalf("headers out of order: %s", doc)
	}
	if got := strings.Count(doc, "<tr>"); got != 3 {
		t.Fatalf("expected 3 body rows, got %d", got)
	}
	alpha := strings.Index(doc, "<td>alpha</td>")
	beta := strings.Index(doc, "<td>beta</td>")
	if alpha < 0 || beta < alpha {
		t.Fatalf("rows out of order: %s", doc)
	}
	if strings.Contains(doc, "<gamma>") || !strings.Contains(doc, "&lt;gamma&gt;") {
		t.Fatalf("cell values must be escaped: %s", doc)
	}

	uri := artifact.DataURI()
	prefix := "data:application/vnd.ms-excel;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("unexpected data uri prefix: %.60s", uri)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded, artifact.Data) {
		t.Fatalf("data uri does not round trip")
	}
}

type failingEngine struct{}

func (failingEngine) RenderTemplate(string, any, ...io.Writer) (string, error) {
	return "", errors.New("boom")
}

func TestHTML_EngineFailure(t *testing.T) {
	_, err := export.HTML("Hosts", exportColumns(), exportRows(), export.WithEngine(failingEngine{}))
	var failure *model.ExportFailure
	if !errors.As(err, &failure) || failure.Format != "xls" {
		t.Fatalf("expected xls export failure, got %v", err)
	}
}

func TestXLSX_Workbook(t *testing.T) {
	artifact, err := export.XLSX("Hosts: [prod]", exportColumns(), exportRows())
	if err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	if artifact.Filename != "Hosts_ [prod].xlsx" || artifact.MediaType != export.MediaTypeXLSX {
		t.Fatalf("unexpected artifact metadata %+v", artifact)
	}

	f, err := excelize.OpenReader(bytes.NewReader(artifact.Data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 {
		t.Fatalf("expected a single sheet, got %v", sheets)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	want := [][]string{
		{"Name", "State"},
		{"alpha", "Up"},
		{"beta", "Down"},
		{"<gamma>", "-"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("workbook mismatch (-want +got):\n%s", diff)
	}
}

func TestFilename(t *testing.T) {
	cases := map[string]string{
		"":           "export.xls",
		"  ":         "export.xls",
		"a/b":        "a_b.xls",
		"<b>Hi</b>":  "Hi.xls",
		"Q3 report?": "Q3 report_.xls",
	}
	for title, want := range cases {
		if got := export.Filename(title, export.FormatXLS); got != want {
			t.Fatalf("Filename(%q) = %q, want %q", title, got, want)
		}
	}
}
