package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/render"
	"github.com/goliatone/go-tablegen/pkg/table"
)

const (
	actionSelect = "Select rows"
	actionQuit   = "Quit"
)

type action struct {
	label  string
	button table.Button
}

// Run draws tbl and prompts for actions until the user quits: picking rows
// changes the selection, picking a control activates it. Control errors are
// reported and the loop continues; driver errors and teardown end it.
func (r *Renderer) Run(ctx context.Context, tbl *table.Table, opts render.RenderOptions) error {
	if tbl == nil {
		return errors.New("tui: table is nil")
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		view := tbl.View()
		out, err := r.Render(ctx, view, opts)
		if err != nil {
			return err
		}
		if err := r.driver.Info(ctx, strings.TrimRight(string(out), "\n")); err != nil {
			return err
		}

		render.LocalizeView(&view, opts)
		actions := availableActions(view)
		if len(actions) == 1 && view.RowSelect == table.SelectNone && len(view.Controls) == 0 {
			return ErrNoActions
		}

		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      view.Title,
			Options:      actionLabels(actions),
			DefaultIndex: -1,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(actions) {
			continue
		}

		picked := actions[idx]
		switch {
		case picked.label == actionQuit:
			return nil
		case picked.label == actionSelect:
			if err := r.pickRows(ctx, tbl, view); err != nil {
				if errors.Is(err, model.ErrTornDown) {
					return err
				}
				if err := r.driver.Info(ctx, err.Error()); err != nil {
					return err
				}
			}
		default:
			err := tbl.Activate(ctx, picked.button)
			if errors.Is(err, model.ErrTornDown) {
				return err
			}
			if err != nil {
				if err := r.driver.Info(ctx, fmt.Sprintf("%s: %v", picked.label, err)); err != nil {
					return err
				}
			}
		}
	}
}

func availableActions(view table.View) []action {
	actions := make([]action, 0, len(view.Controls)+2)
	if view.RowSelect == table.SelectSingle || view.RowSelect == table.SelectMulti {
		actions = append(actions, action{label: actionSelect})
	}
	for _, state := range view.Controls {
		if state.Enabled {
			actions = append(actions, action{label: state.Label, button: state.Button})
		}
	}
	return append(actions, action{label: actionQuit})
}

func actionLabels(actions []action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.label
	}
	return out
}

func (r *Renderer) pickRows(ctx context.Context, tbl *table.Table, view table.View) error {
	if len(view.Rows) == 0 {
		return errors.New("tui: no rows to select")
	}
	labels := rowLabels(view)

	var current []int
	for _, row := range view.Rows {
		if row.Selected {
			current = append(current, row.Index)
		}
	}

	if view.RowSelect == table.SelectSingle {
		defaultIdx := -1
		if len(current) == 1 {
			defaultIdx = current[0]
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      view.Title,
			Options:      labels,
			DefaultIndex: defaultIdx,
			PageSize:     r.pageSize,
		})
		if err != nil {
			return err
		}
		if idx < 0 {
			return nil
		}
		return tbl.Select(idx)
	}

	indices, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  view.Title,
		Options:  labels,
		Defaults: current,
		PageSize: r.pageSize,
	})
	if err != nil {
		return err
	}
	if err := tbl.ClearSelection(); err != nil {
		return err
	}
	if len(indices) == 0 {
		return nil
	}
	return tbl.Select(indices...)
}

// rowLabels joins the visible cell texts of each row. Labels are numbered so
// rows with identical cells stay distinguishable.
func rowLabels(view table.View) []string {
	visible := view.Visible()
	out := make([]string, len(view.Rows))
	for i, row := range view.Rows {
		cells := row.Pick(visible)
		texts := make([]string, len(cells))
		for j, cell := range cells {
			texts[j] = cell.Text
		}
		out[i] = fmt.Sprintf("%d. %s", i+1, strings.Join(texts, " | "))
	}
	return out
}
