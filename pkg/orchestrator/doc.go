// Package orchestrator wires the element pipeline: schema and type catalog
// fetch, column building, cell renderer binding, style generation, row
// fetch, table assembly and rendering through a registered surface.
package orchestrator
