package files_test

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/source"
	"github.com/goliatone/go-tablegen/pkg/source/files"
)

const tableInfoYAML = `title: Services
fields:
  - name: {title: Name, type: iconType}
  - state:
      title: State
      type: dict
      dict: {"1": Active, "2": Error}
  - created: {title: Created, type: datetime, visible: false}
`

func TestSource_YAMLDocuments(t *testing.T) {
	fsys := fstest.MapFS{
		"tableinfo.yaml": {Data: []byte(tableInfoYAML)},
		"types.yaml":     {Data: []byte("- {type: linux, icon: iVBORw0KGgo=, name: Linux}\n")},
		"rows.yaml":      {Data: []byte("- {name: web, state: 1, type: linux}\n- {name: db, state: 2}\n")},
	}
	src, err := files.New(fsys)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	info, err := src.TableInfo(ctx)
	if err != nil {
		t.Fatalf("table info: %v", err)
	}
	if diff := cmp.Diff([]string{"name", "state", "created"}, info.Fields.Keys()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if info.Fields[2].Options.Visible == nil || *info.Fields[2].Options.Visible {
		t.Fatalf("visible flag not decoded: %+v", info.Fields[2].Options)
	}
	if info.Fields[1].Options.Dict["2"] != "Error" {
		t.Fatalf("dict not decoded: %+v", info.Fields[1].Options)
	}

	types, err := src.Types(ctx)
	if err != nil || len(types) != 1 || types[0].Name != "Linux" {
		t.Fatalf("types = %+v, %v", types, err)
	}

	rows, err := src.Rows(ctx)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	want := []model.Row{
		{"name": "web", "state": 1, "type": "linux"},
		{"name": "db", "state": 2},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestSource_JSONDocuments(t *testing.T) {
	fsys := fstest.MapFS{
		"schema/services.json": {Data: []byte(`{"title":"S","fields":[{"b":{}},{"a":{}}]}`)},
		"data/services.json":   {Data: []byte(`[{"a":1.5}]`)},
	}
	src, err := files.New(fsys,
		files.WithTableInfoPath("schema/services.json"),
		files.WithTypesPath(""),
		files.WithRowsPath("data/services.json"),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	info, err := src.TableInfo(ctx)
	if err != nil {
		t.Fatalf("table info: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a"}, info.Fields.Keys()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	types, err := src.Types(ctx)
	if err != nil || types != nil {
		t.Fatalf("expected empty catalog, got %v, %v", types, err)
	}
	rows, err := src.Rows(ctx)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if rows[0]["a"] != json.Number("1.5") {
		t.Fatalf("expected json.Number, got %#v", rows[0]["a"])
	}
}

func TestSource_Errors(t *testing.T) {
	src, err := files.New(fstest.MapFS{"rows.yaml": {Data: []byte("  \n")}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	if _, err := src.TableInfo(ctx); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not exist, got %v", err)
	}
	if types, err := src.Types(ctx); err != nil || types != nil {
		t.Fatalf("missing default catalog should be empty, got %v, %v", types, err)
	}
	if _, err := src.Rows(ctx); err == nil {
		t.Fatalf("expected empty document error")
	}

	src, _ = files.New(fstest.MapFS{}, files.WithRowsPath(""))
	if _, err := src.Rows(ctx); !errors.Is(err, source.ErrNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
	if _, err := files.New(nil); err == nil {
		t.Fatalf("expected nil fs error")
	}
}
