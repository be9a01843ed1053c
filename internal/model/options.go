package model

import "log/slog"

// Options configures the behaviour of the Builder. Options are constructed by
// the public adapter in pkg/model and passed into New.
type Options struct {
	// Titler synthesises a title for descriptors that omit one. Nil keeps
	// missing titles empty.
	Titler func(key string) string
	Logger *slog.Logger
}

func defaultOptions() Options {
	return Options{
		Logger: slog.New(slog.DiscardHandler),
	}
}
