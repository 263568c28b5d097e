// Package calc is the conveyor sizing engine and its self-contained
// engineering sub-calculators.
//
// Everything here is a pure, synchronous computation: sanitized inputs in,
// Result out. Nothing is thrown across the public contract - validation
// failures come back as Result.Errors, degraded sub-calculator conditions as
// status enums on their results, and advisory conditions as Result.Warnings
// that never suppress outputs.
package calc
