// Package sanitize cleans raw user-submitted calculation inputs before the
// engine is allowed to trust them.
//
// The rules are data, not code branches: a RuleTable declares deprecated
// keys, catalog-derived keys, legacy aliases, and mode-gated keys, and
// Sanitize applies them as a fixed-order reducer:
//
//	alias -> deprecated -> derived -> mode-gated -> null/undefined
//
// Every removed or renamed key produces a RemovedKey audit record. Sanitize
// never fails: keys outside every rule set pass through untouched, and
// running Sanitize on its own output is a no-op.
package sanitize
