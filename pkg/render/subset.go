package render

import (
	"path"
	"strings"

	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/style"
	"github.com/goliatone/go-tablegen/pkg/table"
)

// ColumnSubset narrows the visible columns of a view. Entries are column
// keys or path.Match patterns ("created*"). When Include is set only
// matching columns stay visible; Exclude always wins.
type ColumnSubset struct {
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// Empty reports whether the subset leaves every column untouched.
func (s ColumnSubset) Empty() bool {
	return len(normaliseTokens(s.Include)) == 0 && len(normaliseTokens(s.Exclude)) == 0
}

// ApplySubset hides the columns filtered out by subset and regenerates the
// view's responsive style block so ordinals match the remaining columns.
// Cells stay in place; hidden columns are skipped by surfaces.
func ApplySubset(view *table.View, subset ColumnSubset) {
	if view == nil || subset.Empty() {
		return
	}
	include := normaliseTokens(subset.Include)
	exclude := normaliseTokens(subset.Exclude)

	for i := range view.Columns {
		col := &view.Columns[i]
		key := normaliseToken(col.Key)
		if len(include) > 0 && !matchesAny(include, key) {
			col.Visible = false
		}
		if matchesAny(exclude, key) {
			col.Visible = false
		}
	}
	restyle(view)
}

// restyle rebuilds the responsive style block from the view's current
// column titles and visibility.
func restyle(view *table.View) {
	columns := make([]model.Column, len(view.Columns))
	for i, col := range view.Columns {
		columns[i] = model.Column{Key: col.Key, Title: col.Title, Visible: model.Bool(col.Visible)}
	}
	view.Style = style.Responsive(view.ID, columns)
}

func matchesAny(patterns []string, key string) bool {
	for _, pattern := range patterns {
		if pattern == key {
			return true
		}
		if ok, err := path.Match(pattern, key); err == nil && ok {
			return true
		}
	}
	return false
}

func normaliseTokens(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		token := normaliseToken(value)
		if token == "" {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

func normaliseToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
