// Package payload defines the JSON-like value model shared by every part of
// camber, plus the single canonicalization implementation used for equality,
// hashing, dirty-tracking, and recipe diffing.
//
// # One Canonicalizer
//
// There is exactly ONE canonical serialization in this codebase. The engine,
// the recipe runner, the store, and any client-facing hash all go through
// CanonicalizePayload. Two independent stable-stringify implementations that
// are "the same algorithm" will eventually disagree; do not add a second one.
//
// # Missing vs Null
//
// The model carries two distinct absent-value markers:
//
//   - Missing: the key was never supplied (the JS-undefined analog). Stripped
//     from objects before serialization; {a: Missing} canonicalizes the same
//     as {}.
//   - Null: the key was explicitly supplied as null. Survives serialization;
//     {a: null} is NEVER equal to {}.
//
// Array element order is always significant. Object key order never is.
package payload
