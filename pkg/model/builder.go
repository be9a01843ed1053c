package model

import (
	"log/slog"

	"github.com/goliatone/go-tablegen/internal/model"
)

// Builder converts table schemas into ordered column descriptors.
type Builder interface {
	Build(info TableInfo) (Schema, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	titler func(string) string
	logger *slog.Logger
}

// WithTitler synthesises titles for descriptors that omit one. Pass
// KeyTitle for the built-in key humaniser.
func WithTitler(titler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.titler = titler
	}
}

// WithLogger routes schema issues to logger at debug level.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(opts *builderOptions) {
		opts.logger = logger
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	return model.New(model.Options{
		Titler: cfg.titler,
		Logger: cfg.logger,
	})
}
