package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/render"
	"github.com/goliatone/go-tablegen/pkg/table"
	"github.com/goliatone/go-tablegen/pkg/testsupport"
)

type stubDriver struct {
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	selectPos    int
	multiPos     int
	confirmPos   int
	infoMessages []string
	selectOpts   [][]string
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectOpts = append(s.selectOpts, cfg.Options)
	if s.selectPos >= len(s.selectIdx) {
		return -1, ErrAborted
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func TestRender_Grid(t *testing.T) {
	tbl := testsupport.ServicesTable(t, table.Options{
		Buttons:   []table.Button{table.ButtonEdit, table.ButtonRefresh},
		RowSelect: table.SelectMulti,
	})
	if err := tbl.Select(1); err != nil {
		t.Fatalf("select: %v", err)
	}
	r, err := New(WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), tbl.View(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)
	for _, want := range []string{"Services", "Name", "State", "web", "desktop", "Active", "Error", "rebooted", "[Edit]", "[Refresh]", "*"} {
		if !strings.Contains(got, want) {
			t.Fatalf("grid missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "b2") {
		t.Fatalf("hidden id column rendered:\n%s", got)
	}
	if r.Name() != "tui" || !strings.HasPrefix(r.ContentType(), "text/plain") {
		t.Fatalf("unexpected metadata %q %q", r.Name(), r.ContentType())
	}
}

func TestRender_TranslatesAndSubsets(t *testing.T) {
	tbl := testsupport.ServicesTable(t, table.Options{Buttons: []table.Button{table.ButtonRefresh}})
	r, err := New(WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), tbl.View(), render.RenderOptions{
		Locale:     "es",
		Translator: render.NewCatalogTranslator(),
		Subset:     render.ColumnSubset{Include: []string{"name", "state"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)
	if !strings.Contains(got, "[Actualizar]") {
		t.Fatalf("control label not translated:\n%s", got)
	}
	if strings.Contains(got, "rebooted") || strings.Contains(got, "Created") {
		t.Fatalf("subset not applied:\n%s", got)
	}
}

func TestRender_RequiresLiveContext(t *testing.T) {
	r, err := New(WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, table.View{}, render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestRun_SelectsRowsAndActivatesControls(t *testing.T) {
	var deleted []model.Row
	tbl := testsupport.ServicesTable(t, table.Options{
		Buttons:   []table.Button{table.ButtonEdit, table.ButtonDelete},
		RowSelect: table.SelectMulti,
		OnDelete:  func(rows []model.Row) { deleted = rows },
	})

	driver := &stubDriver{
		// select rows, then delete, then quit
		selectIdx: []int{0, 1, 2},
		multiIdx:  [][]int{{0, 1}},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	if err := r.Run(context.Background(), tbl, render.RenderOptions{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	wantMenus := [][]string{
		{"Select rows", "Quit"},
		{"Select rows", "Delete", "Quit"},
		{"Select rows", "Delete", "Quit"},
	}
	if diff := cmp.Diff(wantMenus, driver.selectOpts); diff != "" {
		t.Fatalf("menus mismatch (-want +got):\n%s", diff)
	}
	if len(deleted) != 2 || deleted[0]["id"] != "a1" || deleted[1]["id"] != "b2" {
		t.Fatalf("unexpected deleted rows %v", deleted)
	}
	if len(driver.infoMessages) != 3 {
		t.Fatalf("expected one grid per loop, got %d messages", len(driver.infoMessages))
	}
}

func TestRun_SingleSelectAndControlErrors(t *testing.T) {
	var edited model.Row
	tbl := testsupport.ServicesTable(t, table.Options{
		Buttons:   []table.Button{table.ButtonEdit, table.ButtonRefresh},
		RowSelect: table.SelectSingle,
		OnEdit:    func(row model.Row) { edited = row },
	})

	driver := &stubDriver{
		// refresh (fails: no source), select rows -> row 3, edit, quit
		selectIdx: []int{1, 0, 2, 1, 3},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if err := r.Run(context.Background(), tbl, render.RenderOptions{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	if edited["id"] != "c3" {
		t.Fatalf("expected c3 to be edited, got %v", edited)
	}
	var reported bool
	for _, msg := range driver.infoMessages {
		if strings.HasPrefix(msg, "Refresh: ") && strings.Contains(msg, model.ErrNoRowSource.Error()) {
			reported = true
		}
	}
	if !reported {
		t.Fatalf("refresh failure not reported: %v", driver.infoMessages)
	}
	picker := driver.selectOpts[2]
	if len(picker) != 3 || !strings.HasPrefix(picker[2], "3. - | - | ") || !strings.HasSuffix(picker[2], " | legacy") {
		t.Fatalf("unexpected row picker %v", picker)
	}
}

func TestRun_StopsOnAbortAndTeardown(t *testing.T) {
	tbl := testsupport.ServicesTable(t, table.Options{Buttons: []table.Button{table.ButtonRefresh}})
	r, err := New(WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if err := r.Run(context.Background(), tbl, render.RenderOptions{}); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}

	bare := testsupport.ServicesTable(t, table.Options{})
	if err := r.Run(context.Background(), bare, render.RenderOptions{}); !errors.Is(err, ErrNoActions) {
		t.Fatalf("expected ErrNoActions, got %v", err)
	}

	tbl.Teardown()
	driver := &stubDriver{selectIdx: []int{0}}
	r, _ = New(WithPromptDriver(driver))
	if err := r.Run(context.Background(), tbl, render.RenderOptions{}); !errors.Is(err, model.ErrTornDown) {
		t.Fatalf("expected ErrTornDown, got %v", err)
	}
}

func TestIndicesOfKeepsDuplicates(t *testing.T) {
	got := indicesOf([]string{"a", "b", "a"}, []string{"a", "a"})
	if diff := cmp.Diff([]int{0, 2}, got); diff != "" {
		t.Fatalf("indices mismatch (-want +got):\n%s", diff)
	}
}
