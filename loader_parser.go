package tablegen

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/source/openapi"
)

// LoadOpenAPI reads the OpenAPI document at path and serves component as a
// table schema.
func LoadOpenAPI(ctx context.Context, path, component string) (*openapi.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tablegen: read %s: %w", path, err)
	}
	return openapi.Load(ctx, data, component)
}

// NewModelBuilder constructs the schema builder used by the orchestrator.
func NewModelBuilder(options ...model.BuilderOption) model.Builder {
	return model.NewBuilder(options...)
}
