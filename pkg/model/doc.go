// Package model defines the table schema types shared by every stage of the
// pipeline: field descriptors as sent by the server, the closed set of
// semantic column types, normalised columns, rows, and rendered cells. The
// builder lives in internal/model and returns the types re-exported here.
//
// Field descriptors decode from JSON or YAML lists of single-key mappings
// (`[{name: {title: Name}}, {state: {title: State, type: dict, dict: {...}}}]`)
// and keep their source order. Unknown "type" values survive as KindOther so
// hosts can still negotiate sort behaviour for custom types.
package model
