// Package store persists the recipe corpus in SQLite.
//
// The store is an external collaborator from the calculation core's point of
// view: the runner receives in-memory Recipe values and returns in-memory
// results; this package is the only place that touches disk. Recipe inputs
// are persisted in canonical JSON form, so a stored body is byte-identical
// to what the canonicalizer would produce for it.
package store
