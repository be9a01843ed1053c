package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/source/files"
)

// ServicesTableInfo returns the schema used across package tests: a hidden
// id, an iconType name, a dict state, a datetime and a plain column.
func ServicesTableInfo() model.TableInfo {
	return model.TableInfo{
		Title: "Services",
		Fields: model.FieldList{
			{Key: "id", Options: model.FieldOptions{Title: "Id", Visible: model.Bool(false)}},
			{Key: "name", Options: model.FieldOptions{Title: "Name", Type: "iconType"}},
			{Key: "state", Options: model.FieldOptions{Title: "State", Type: "dict", Dict: map[string]string{"1": "Active", "2": "Error"}}},
			{Key: "created", Options: model.FieldOptions{Title: "Created", Type: "datetime"}},
			{Key: "comments", Options: model.FieldOptions{Title: "Comments", Sortable: model.Bool(false)}},
		},
	}
}

// ServiceTypes returns a catalog matching ServiceRows.
func ServiceTypes() []model.TypeInfo {
	return []model.TypeInfo{
		{Type: "linux", Icon: "iVBORw0KGgo=", Name: "Linux"},
		{Type: "windows", Icon: "iVBORw0KGgo=", Name: "Windows"},
	}
}

// ServiceRows returns three rows shaped like ServicesTableInfo.
func ServiceRows() []model.Row {
	return []model.Row{
		{"id": "a1", "type": "linux", "name": "web", "state": 1, "created": 0, "comments": ""},
		{"id": "b2", "type": "windows", "name": "desktop", "state": 2, "created": 86400, "comments": "rebooted"},
		{"id": "c3", "type": "bsd", "name": "", "state": 3, "created": "n/a", "comments": "legacy"},
	}
}

// RowScript is a RowSource that replays scripted results, one per call.
// Once the script is exhausted the last entry repeats.
type RowScript struct {
	mu    sync.Mutex
	steps []RowStep
	calls int
	// Gate, when set, blocks every call until it is closed or receives.
	Gate chan struct{}
}

// RowStep is one scripted Rows result.
type RowStep struct {
	Rows []model.Row
	Err  error
}

// NewRowScript builds a RowScript.
func NewRowScript(steps ...RowStep) *RowScript {
	return &RowScript{steps: steps}
}

// Rows returns the next scripted result.
func (s *RowScript) Rows(ctx context.Context) ([]model.Row, error) {
	if s.Gate != nil {
		select {
		case <-s.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.steps) == 0 {
		return nil, errors.New("testsupport: empty row script")
	}
	idx := s.calls
	if idx >= len(s.steps) {
		idx = len(s.steps) - 1
	}
	s.calls++
	step := s.steps[idx]
	return step.Rows, step.Err
}

// Calls reports how many times Rows ran.
func (s *RowScript) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// LoadTableInfo reads a table schema fixture (YAML, or JSON by extension).
func LoadTableInfo(path string) (model.TableInfo, error) {
	if path == "" {
		return model.TableInfo{}, errors.New("testsupport: table info path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.TableInfo{}, fmt.Errorf("testsupport: read table info: %w", err)
	}
	var out model.TableInfo
	if err := files.Decode(data, path, &out); err != nil {
		return model.TableInfo{}, fmt.Errorf("testsupport: decode table info: %w", err)
	}
	return out, nil
}

// MustLoadTableInfo is LoadTableInfo for tests.
func MustLoadTableInfo(t *testing.T, path string) model.TableInfo {
	t.Helper()

	info, err := LoadTableInfo(path)
	if err != nil {
		t.Fatalf("load table info: %v", err)
	}
	return info
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
