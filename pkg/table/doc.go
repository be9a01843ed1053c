// Package table assembles column descriptors and externally fetched rows into
// a render-ready table, and wires the optional action controls (edit,
// delete, refresh, and spreadsheet export). Control enablement is derived
// from the current selection every time it is asked for; refresh is guarded
// by a busy gate and never leaves the table half updated.
package table
