package gotemplate_test

import (
	"embed"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-tablegen/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestEngine_TemplateFuncs(t *testing.T) {
	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	shout := func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsValue(strings.ToUpper(in.String()) + "!"), nil
	}
	engine, err := gotemplate.New(
		gotemplate.WithFS(templatesFS),
		gotemplate.WithTemplateFunc(map[string]any{
			"env":   func() string { return "staging" },
			"shout": shout,
		}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	for _, name := range []string{"use-global", "use-filter"} {
		result, _ := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
			return engine.RenderTemplate(name, map[string]any{"name": "Ada"}, w)
		})
		want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", name+".golden"))
		if result != want {
			t.Fatalf("%s mismatch\nwant: %q\n got: %q", name, want, result)
		}
	}

	if _, err := gotemplate.New(
		gotemplate.WithFS(templatesFS),
		gotemplate.WithTemplateFunc(map[string]any{"bad": "not a func"}),
	); err == nil {
		t.Fatalf("expected non function helpers to be rejected")
	}
}

func TestEngine_RequestFuncsShadowGlobals(t *testing.T) {
	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := gotemplate.New(
		gotemplate.WithFS(templatesFS),
		gotemplate.WithTemplateFunc(map[string]any{"env": func() string { return "staging" }}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	got, err := engine.RenderTemplate("use-global", map[string]any{"env": func() string { return "production" }})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "env=production\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_CellFilters(t *testing.T) {
	engine := newEngine(t)

	data := map[string]any{
		"cells": []model.Cell{
			{Text: "Ubuntu", IconClass: `services-linux"`},
			{Text: ""},
			{Text: "x"},
		},
	}
	result, _ := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("cells", data, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "cells.golden"))
	if result != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestNew_RequiresTemplates(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without a template fs")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
