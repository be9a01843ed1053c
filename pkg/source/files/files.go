// Package files serves table schemas, type catalogs and rows from JSON or
// YAML documents stored in an fs.FS.
package files

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/source"
)

// Default document names inside the filesystem.
const (
	DefaultTableInfoPath = "tableinfo.yaml"
	DefaultTypesPath     = "types.yaml"
	DefaultRowsPath      = "rows.yaml"
)

// Option configures a Source.
type Option func(*Source)

// WithTableInfoPath sets the schema document path.
func WithTableInfoPath(name string) Option {
	return func(s *Source) { s.tableInfo = name }
}

// WithTypesPath sets the type catalog document path. An empty path serves an
// empty catalog.
func WithTypesPath(name string) Option {
	return func(s *Source) { s.types = name }
}

// WithRowsPath sets the rows document path.
func WithRowsPath(name string) Option {
	return func(s *Source) { s.rows = name }
}

// Source reads its documents on every call, so edits to the underlying
// files show up on refresh.
type Source struct {
	fsys      fs.FS
	tableInfo string
	types     string
	rows      string
}

var _ source.Source = (*Source)(nil)

// New builds a Source over fsys.
func New(fsys fs.FS, opts ...Option) (*Source, error) {
	if fsys == nil {
		return nil, errors.New("files: fs is nil")
	}
	s := &Source{
		fsys:      fsys,
		tableInfo: DefaultTableInfoPath,
		types:     DefaultTypesPath,
		rows:      DefaultRowsPath,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// FromPaths builds a Source over the local files named by the arguments.
// Paths are resolved relative to the working directory; typesPath may be
// empty.
func FromPaths(tableInfoPath, typesPath, rowsPath string) (*Source, error) {
	return New(os.DirFS("."),
		WithTableInfoPath(localName(tableInfoPath)),
		WithTypesPath(localName(typesPath)),
		WithRowsPath(localName(rowsPath)),
	)
}

func localName(name string) string {
	if name == "" {
		return ""
	}
	name = path.Clean(strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimPrefix(name, "./")
}

// TableInfo decodes the schema document.
func (s *Source) TableInfo(ctx context.Context) (model.TableInfo, error) {
	if s.tableInfo == "" {
		return model.TableInfo{}, source.ErrNotConfigured
	}
	var info model.TableInfo
	if err := s.load(ctx, s.tableInfo, &info); err != nil {
		return model.TableInfo{}, err
	}
	return info, nil
}

// Types decodes the catalog document. A missing default document yields an
// empty catalog.
func (s *Source) Types(ctx context.Context) ([]model.TypeInfo, error) {
	if s.types == "" {
		return nil, nil
	}
	var types []model.TypeInfo
	err := s.load(ctx, s.types, &types)
	if errors.Is(err, fs.ErrNotExist) && s.types == DefaultTypesPath {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return types, nil
}

// Rows decodes the rows document.
func (s *Source) Rows(ctx context.Context) ([]model.Row, error) {
	if s.rows == "" {
		return nil, source.ErrNotConfigured
	}
	var rows []model.Row
	if err := s.load(ctx, s.rows, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Source) load(ctx context.Context, name string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return fmt.Errorf("files: read %s: %w", name, err)
	}
	return Decode(data, name, out)
}

// Decode parses data as JSON when name ends in .json and as YAML otherwise.
// JSON numbers decode as json.Number.
func Decode(data []byte, name string, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("files: %s is empty", name)
	}
	if strings.EqualFold(path.Ext(name), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("files: parse %s: %w", name, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("files: parse %s: %w", name, err)
	}
	return nil
}
