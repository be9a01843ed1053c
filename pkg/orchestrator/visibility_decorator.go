package orchestrator

import (
	"github.com/goliatone/go-tablegen/pkg/model"
)

// VisibilityRule decides whether a column is shown.
type VisibilityRule func(col model.Column) bool

// VisibilityDecorator hides every column rule rejects. Columns already
// hidden by the schema stay hidden.
func VisibilityDecorator(rule VisibilityRule) model.Decorator {
	return model.DecoratorFunc(func(schema *model.Schema) error {
		return applyVisibility(schema, rule)
	})
}

// HideColumns hides the columns named by keys, e.g. per-role restrictions.
func HideColumns(keys ...string) model.Decorator {
	hidden := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		hidden[key] = struct{}{}
	}
	return VisibilityDecorator(func(col model.Column) bool {
		_, skip := hidden[col.Key]
		return !skip
	})
}

func applyVisibility(schema *model.Schema, rule VisibilityRule) error {
	if schema == nil || rule == nil {
		return nil
	}
	for i := range schema.Columns {
		col := &schema.Columns[i]
		if !col.IsVisible() {
			continue
		}
		if !rule(*col) {
			col.Visible = model.Bool(false)
		}
	}
	return nil
}
