// Package harness runs YAML-defined calculation scenarios against the
// engine and compares full run snapshots to golden files.
//
// A scenario file carries a raw (pre-sanitization) input payload, an
// optional rule-table path, and an expected result clause. The harness
// sanitizes, calculates, and asserts. Golden snapshots serialize through
// the canonicalizer, so a golden file is stable across map iteration
// order and re-encoding.
package harness
