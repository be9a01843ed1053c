package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoActions is returned by Run when the table offers nothing to do.
	ErrNoActions = errors.New("tui: no actions available")
)
