package testsupport

import (
	"testing"

	"github.com/goliatone/go-tablegen/pkg/cells"
	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/table"
)

// ServicesTable assembles the services fixture as "services-table" with
// columns bound through a catalog for the "services" element.
func ServicesTable(t *testing.T, opts table.Options) *table.Table {
	t.Helper()
	schema, err := model.NewBuilder().Build(ServicesTableInfo())
	if err != nil {
		t.Fatalf("build services schema: %v", err)
	}
	catalog := cells.NewTypeCatalog("services", ServiceTypes())
	registry := cells.New(cells.WithCatalog(catalog))
	tbl, err := table.Assemble(table.Spec{
		ID:      "services-table",
		Title:   schema.Title,
		Columns: registry.Bind(schema.Columns),
		Rows:    ServiceRows(),
	}, opts)
	if err != nil {
		t.Fatalf("assemble services table: %v", err)
	}
	return tbl
}
