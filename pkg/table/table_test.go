package table_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tablegen/pkg/cells"
	"github.com/goliatone/go-tablegen/pkg/export"
	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/table"
	"github.com/goliatone/go-tablegen/pkg/testsupport"
)

func servicesSpec(t *testing.T) table.Spec {
	t.Helper()
	schema, err := model.NewBuilder().Build(testsupport.ServicesTableInfo())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	catalog := cells.NewTypeCatalog("services", testsupport.ServiceTypes())
	registry := cells.New(cells.WithCatalog(catalog))
	return table.Spec{
		ID:      "services-table",
		Title:   schema.Title,
		Columns: registry.Bind(schema.Columns),
		Rows:    testsupport.ServiceRows(),
	}
}

func assemble(t *testing.T, opts table.Options) *table.Table {
	t.Helper()
	tbl, err := table.Assemble(servicesSpec(t), opts)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	return tbl
}

func enabled(t *testing.T, tbl *table.Table, button table.Button) bool {
	t.Helper()
	for _, state := range tbl.ControlStates() {
		if state.Button == button {
			return state.Enabled
		}
	}
	t.Fatalf("control %q not attached", button)
	return false
}

func TestAssemble_RejectsShapeMismatch(t *testing.T) {
	spec := table.Spec{Columns: []model.Column{{Key: "a"}, {Key: "a"}}}
	if _, err := table.Assemble(spec, table.Options{}); !errors.Is(err, table.ErrShapeMismatch) {
		t.Fatalf("expected shape mismatch for duplicate keys, got %v", err)
	}

	spec = table.Spec{Columns: []model.Column{{Key: "a"}}, Rows: []model.Row{{"a": 1}, nil}}
	if _, err := table.Assemble(spec, table.Options{}); !errors.Is(err, table.ErrShapeMismatch) {
		t.Fatalf("expected shape mismatch for nil row, got %v", err)
	}

	if _, err := table.Assemble(table.Spec{}, table.Options{Buttons: []table.Button{"print"}}); err == nil {
		t.Fatalf("expected unknown button to fail")
	}
	if _, err := table.Assemble(table.Spec{}, table.Options{RowSelect: "many"}); err == nil {
		t.Fatalf("expected unknown select mode to fail")
	}
}

func TestEditDeleteEnablementFollowsSelection(t *testing.T) {
	tbl := assemble(t, table.Options{
		Buttons:   []table.Button{table.ButtonEdit, table.ButtonDelete, table.ButtonXLS},
		RowSelect: table.SelectMulti,
	})

	steps := []struct {
		name       string
		apply      func() error
		wantEdit   bool
		wantDelete bool
	}{
		{name: "none", apply: func() error { return nil }, wantEdit: false, wantDelete: false},
		{name: "one", apply: func() error { return tbl.Select(0) }, wantEdit: true, wantDelete: true},
		{name: "two", apply: func() error { return tbl.Select(2) }, wantEdit: false, wantDelete: true},
		{name: "back to one", apply: func() error { return tbl.Deselect(0) }, wantEdit: true, wantDelete: true},
		{name: "cleared", apply: tbl.ClearSelection, wantEdit: false, wantDelete: false},
	}
	for _, step := range steps {
		if err := step.apply(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if got := enabled(t, tbl, table.ButtonEdit); got != step.wantEdit {
			t.Fatalf("%s: edit enabled = %v, want %v", step.name, got, step.wantEdit)
		}
		if got := enabled(t, tbl, table.ButtonDelete); got != step.wantDelete {
			t.Fatalf("%s: delete enabled = %v, want %v", step.name, got, step.wantDelete)
		}
		if !enabled(t, tbl, table.ButtonXLS) {
			t.Fatalf("%s: xls must always be enabled", step.name)
		}
	}
}

func TestSelect_SingleModeReplacesSelection(t *testing.T) {
	var selected, deselected []string
	tbl := assemble(t, table.Options{
		RowSelect: table.SelectSingle,
		OnRowSelect: func(rows []model.Row) {
			for _, row := range rows {
				selected = append(selected, row["id"].(string))
			}
		},
		OnRowDeselect: func(rows []model.Row) {
			for _, row := range rows {
				deselected = append(deselected, row["id"].(string))
			}
		},
	})

	if err := tbl.Select(0); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := tbl.Select(1); err != nil {
		t.Fatalf("select: %v", err)
	}
	if diff := cmp.Diff([]int{1}, tbl.Selection().Indices); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a1", "b2"}, selected); diff != "" {
		t.Fatalf("select hooks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a1"}, deselected); diff != "" {
		t.Fatalf("deselect hooks mismatch (-want +got):\n%s", diff)
	}
}

func TestSelect_Errors(t *testing.T) {
	tbl := assemble(t, table.Options{})
	if err := tbl.Select(0); !errors.Is(err, table.ErrSelectionDisabled) {
		t.Fatalf("expected selection disabled, got %v", err)
	}

	tbl = assemble(t, table.Options{RowSelect: table.SelectMulti})
	if err := tbl.Select(3); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestActivate_EditAndDelete(t *testing.T) {
	var edited model.Row
	var deleted []model.Row
	tbl := assemble(t, table.Options{
		Buttons:   []table.Button{table.ButtonEdit, table.ButtonDelete},
		RowSelect: table.SelectMulti,
		OnEdit:    func(row model.Row) { edited = row },
		OnDelete:  func(rows []model.Row) { deleted = rows },
	})
	ctx := context.Background()

	if err := tbl.Activate(ctx, table.ButtonEdit); !errors.Is(err, model.ErrControlDisabled) {
		t.Fatalf("expected disabled edit, got %v", err)
	}
	if err := tbl.Select(1); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := tbl.Activate(ctx, table.ButtonEdit); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited["id"] != "b2" {
		t.Fatalf("edit hook got %v", edited)
	}
	if err := tbl.Select(0); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := tbl.Activate(ctx, table.ButtonDelete); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(deleted) != 2 || deleted[0]["id"] != "a1" || deleted[1]["id"] != "b2" {
		t.Fatalf("delete hook got %v", deleted)
	}
	if err := tbl.Activate(ctx, table.ButtonRefresh); err == nil {
		t.Fatalf("expected error for unattached control")
	}
}

func TestRefresh_ReplacesRowsEachTime(t *testing.T) {
	script := testsupport.NewRowScript(
		testsupport.RowStep{Rows: []model.Row{{"id": "x1"}, {"id": "x2"}}},
		testsupport.RowStep{Rows: []model.Row{{"id": "y1"}}},
	)
	refreshed := 0
	tbl := assemble(t, table.Options{
		Buttons:   []table.Button{table.ButtonRefresh},
		RowSelect: table.SelectMulti,
		Source:    script,
		OnRefresh: func() { refreshed++ },
	})
	if err := tbl.Select(0, 1); err != nil {
		t.Fatalf("select: %v", err)
	}

	ctx := context.Background()
	if err := tbl.Activate(ctx, table.ButtonRefresh); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if got := ids(tbl.Rows()); !cmp.Equal(got, []string{"x1", "x2"}) {
		t.Fatalf("after first refresh got %v", got)
	}
	if tbl.Selection().Len() != 0 {
		t.Fatalf("refresh should clear the selection")
	}

	if err := tbl.Activate(ctx, table.ButtonRefresh); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if got := ids(tbl.Rows()); !cmp.Equal(got, []string{"y1"}) {
		t.Fatalf("after second refresh got %v", got)
	}
	if refreshed != 2 || script.Calls() != 2 {
		t.Fatalf("expected 2 refreshes, hook=%d source=%d", refreshed, script.Calls())
	}
	if !enabled(t, tbl, table.ButtonRefresh) || tbl.Busy() {
		t.Fatalf("refresh control should be enabled again")
	}
}

func TestRefresh_FailStale(t *testing.T) {
	script := testsupport.NewRowScript(testsupport.RowStep{Err: errors.New("backend down")})
	tbl := assemble(t, table.Options{
		Buttons:   []table.Button{table.ButtonEdit, table.ButtonDelete, table.ButtonRefresh},
		RowSelect: table.SelectMulti,
		Source:    script,
	})
	if err := tbl.Select(2); err != nil {
		t.Fatalf("select: %v", err)
	}
	beforeRows := tbl.Rows()
	beforeStates := tbl.ControlStates()

	err := tbl.Refresh(context.Background())
	var failure *model.FetchFailure
	if !errors.As(err, &failure) || failure.Stage != model.StageRows {
		t.Fatalf("expected rows fetch failure, got %v", err)
	}

	if diff := cmp.Diff(beforeRows, tbl.Rows()); diff != "" {
		t.Fatalf("rows changed after failure (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(beforeStates, tbl.ControlStates()); diff != "" {
		t.Fatalf("control states changed after failure (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2}, tbl.Selection().Indices); diff != "" {
		t.Fatalf("selection changed after failure (-want +got):\n%s", diff)
	}
}

func TestRefresh_RejectsMalformedRows(t *testing.T) {
	script := testsupport.NewRowScript(testsupport.RowStep{Rows: []model.Row{{"id": "x"}, nil}})
	tbl := assemble(t, table.Options{Source: script})

	err := tbl.Refresh(context.Background())
	if !errors.Is(err, table.ErrShapeMismatch) {
		t.Fatalf("expected shape mismatch, got %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("stale rows should be kept, got %d", tbl.Len())
	}
}

func TestRefresh_BusyGate(t *testing.T) {
	script := testsupport.NewRowScript(testsupport.RowStep{Rows: []model.Row{{"id": "z"}}})
	script.Gate = make(chan struct{})
	tbl := assemble(t, table.Options{Buttons: []table.Button{table.ButtonRefresh}, Source: script})

	done := make(chan error, 1)
	tbl.RefreshAsync(context.Background(), func(err error) { done <- err })

	deadline := time.Now().Add(2 * time.Second)
	for !tbl.Busy() {
		if time.Now().After(deadline) {
			t.Fatalf("refresh never started")
		}
		time.Sleep(time.Millisecond)
	}

	if enabled(t, tbl, table.ButtonRefresh) {
		t.Fatalf("refresh control must be disabled while busy")
	}
	if err := tbl.Activate(context.Background(), table.ButtonRefresh); !errors.Is(err, model.ErrBusy) {
		t.Fatalf("expected busy, got %v", err)
	}
	if err := tbl.Refresh(context.Background()); !errors.Is(err, model.ErrBusy) {
		t.Fatalf("expected busy, got %v", err)
	}

	close(script.Gate)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("refresh: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("refresh did not complete")
	}
	if !enabled(t, tbl, table.ButtonRefresh) {
		t.Fatalf("refresh control should be enabled after completion")
	}
	if script.Calls() != 1 {
		t.Fatalf("expected a single fetch, got %d", script.Calls())
	}
}

func TestRefresh_AfterTeardownIsNoop(t *testing.T) {
	script := testsupport.NewRowScript(testsupport.RowStep{Rows: []model.Row{{"id": "late"}}})
	script.Gate = make(chan struct{})
	tbl := assemble(t, table.Options{Source: script})

	var mu sync.Mutex
	called := false
	tbl.RefreshAsync(context.Background(), func(error) {
		mu.Lock()
		called = true
		mu.Unlock()
	})

	deadline := time.Now().Add(2 * time.Second)
	for !tbl.Busy() {
		if time.Now().After(deadline) {
			t.Fatalf("refresh never started")
		}
		time.Sleep(time.Millisecond)
	}
	tbl.Teardown()
	close(script.Gate)

	deadline = time.Now().Add(2 * time.Second)
	for tbl.Busy() {
		if time.Now().After(deadline) {
			t.Fatalf("refresh never finished")
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if called {
		t.Fatalf("late completion must not reach the callback")
	}
	if got := ids(tbl.Rows()); cmp.Equal(got, []string{"late"}) {
		t.Fatalf("late rows must be discarded")
	}
	if err := tbl.Refresh(context.Background()); !errors.Is(err, model.ErrTornDown) {
		t.Fatalf("expected torn down, got %v", err)
	}
	if err := tbl.Activate(context.Background(), table.ButtonRefresh); err == nil {
		t.Fatalf("expected error after teardown")
	}
}

func TestRefresh_WithoutSource(t *testing.T) {
	tbl := assemble(t, table.Options{})
	if err := tbl.Refresh(context.Background()); !errors.Is(err, model.ErrNoRowSource) {
		t.Fatalf("expected missing source error, got %v", err)
	}
}

func TestView_RendersEveryColumn(t *testing.T) {
	tbl := assemble(t, table.Options{RowSelect: table.SelectSingle})
	if err := tbl.Select(1); err != nil {
		t.Fatalf("select: %v", err)
	}
	view := tbl.View()

	if len(view.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(view.Rows))
	}
	for _, row := range view.Rows {
		if len(row.Cells) != len(view.Columns) || len(row.Sort) != len(view.Columns) {
			t.Fatalf("row %d shape mismatch: %d cells for %d columns", row.Index, len(row.Cells), len(view.Columns))
		}
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4}, view.Visible()); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}

	first := view.Rows[0]
	if first.Cells[1] != (model.Cell{Text: "web", IconClass: "services-linux"}) {
		t.Fatalf("iconType display cell mismatch: %+v", first.Cells[1])
	}
	if first.Sort[1] != "web" {
		t.Fatalf("iconType raw value mismatch: %q", first.Sort[1])
	}
	if first.Cells[2].Text != "Active" || first.Cells[4].Text != "-" {
		t.Fatalf("unexpected cells %+v", first.Cells)
	}
	third := view.Rows[2]
	if third.Cells[1].Text != "-" || third.Cells[1].IconClass != "" {
		t.Fatalf("unknown row type should render without icon: %+v", third.Cells[1])
	}
	if third.Cells[2].Text != "-" {
		t.Fatalf("dict miss should render placeholder, got %q", third.Cells[2].Text)
	}
	if !view.Rows[1].Selected || view.Rows[0].Selected {
		t.Fatalf("selection not reflected in view")
	}
	if view.Style.ID != "style-services-table" || len(view.Style.Rules) != 8 {
		t.Fatalf("unexpected style block %+v", view.Style)
	}
}

func TestAssemble_BindsUnboundColumns(t *testing.T) {
	tbl, err := table.Assemble(table.Spec{
		Columns: []model.Column{{Key: "state", Type: model.TypeDict, Dict: map[string]string{"1": "Active"}}},
		Rows:    []model.Row{{"state": 1}, {"state": 9}},
	}, table.Options{})
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	view := tbl.View()
	if view.Rows[0].Cells[0].Text != "Active" || view.Rows[1].Cells[0].Text != "-" {
		t.Fatalf("unexpected cells %+v", view.Rows)
	}
	if view.ID != "table" {
		t.Fatalf("expected default id, got %q", view.ID)
	}
}

func TestActivate_ExportControls(t *testing.T) {
	var artifacts []export.Artifact
	tbl := assemble(t, table.Options{
		Buttons:  []table.Button{table.ButtonXLS, table.ButtonXLSX},
		OnExport: func(a export.Artifact) { artifacts = append(artifacts, a) },
	})
	ctx := context.Background()
	if err := tbl.Activate(ctx, table.ButtonXLS); err != nil {
		t.Fatalf("xls: %v", err)
	}
	if err := tbl.Activate(ctx, table.ButtonXLSX); err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(artifacts))
	}
	if artifacts[0].Filename != "Services.xls" || !strings.HasPrefix(artifacts[0].DataURI(), "data:application/vnd.ms-excel;base64,") {
		t.Fatalf("unexpected xls artifact %+v", artifacts[0])
	}
	if artifacts[1].Filename != "Services.xlsx" || len(artifacts[1].Data) == 0 {
		t.Fatalf("unexpected xlsx artifact %+v", artifacts[1])
	}
	if tbl.Len() != 3 {
		t.Fatalf("export must not change the table")
	}
}

func ids(rows []model.Row) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		id, _ := row["id"].(string)
		out = append(out, id)
	}
	return out
}
