// Package source defines the collaborators a table element pulls data from:
// a SchemaSource describing columns and row types, and a RowSource returning
// the records. Subpackages adapt REST endpoints (rest), YAML/JSON documents
// (files), and OpenAPI component schemas (openapi).
package source
