package sanitize

import (
	"slices"

	"github.com/beltworks/camber/internal/payload"
)

// Reason classifies why a key was removed or renamed.
type Reason string

const (
	ReasonDeprecated    Reason = "deprecated"
	ReasonDerived       Reason = "derived"
	ReasonAliased       Reason = "aliased"
	ReasonModeGated     Reason = "mode_gated"
	ReasonNullUndefined Reason = "null_undefined"
)

// RemovedKey is one audit-trail entry: a key that Sanitize removed or
// renamed, and why.
type RemovedKey struct {
	Key    string `json:"key"`
	Reason Reason `json:"reason"`
}

// Result holds the cleaned input map and the audit trail of removals.
type Result struct {
	Cleaned payload.Object
	Removed []RemovedKey
}

// Sanitize applies the rule table to a raw input map in fixed pass order:
// alias resolution, deprecated removal, derived removal, mode-gated removal,
// then null/undefined stripping. It never fails, never mutates raw, and is
// idempotent: sanitizing the Cleaned output again removes nothing.
func Sanitize(raw payload.Object, rules *RuleTable) Result {
	if rules == nil {
		rules = &RuleTable{}
	}

	cleaned := raw.Clone()
	var removed []RemovedKey

	// Pass 1: alias resolution. Deterministic order over legacy keys so the
	// audit trail is stable.
	legacyKeys := make([]string, 0, len(rules.Aliases))
	for legacy := range rules.Aliases {
		legacyKeys = append(legacyKeys, legacy)
	}
	slices.Sort(legacyKeys)
	for _, legacy := range legacyKeys {
		canonical := rules.Aliases[legacy]
		legacyVal, hasLegacy := cleaned[legacy]
		if !hasLegacy {
			continue
		}
		if _, hasCanonical := cleaned[canonical]; hasCanonical {
			// Canonical key wins; legacy is dropped.
			delete(cleaned, legacy)
		} else {
			cleaned[canonical] = legacyVal
			delete(cleaned, legacy)
		}
		removed = append(removed, RemovedKey{Key: legacy, Reason: ReasonAliased})
	}

	// Pass 2: deprecated removal.
	for _, key := range rules.Deprecated {
		if _, ok := cleaned[key]; ok {
			delete(cleaned, key)
			removed = append(removed, RemovedKey{Key: key, Reason: ReasonDeprecated})
		}
	}

	// Pass 3: derived removal. Catalog-sourced values are recomputed by the
	// engine; a client copy is stale by definition.
	for _, key := range rules.Derived {
		if _, ok := cleaned[key]; ok {
			delete(cleaned, key)
			removed = append(removed, RemovedKey{Key: key, Reason: ReasonDerived})
		}
	}

	// Pass 4: mode-gated removal. Reads the mode AFTER the earlier passes,
	// so a key renamed into existence by pass 1 can still be gated out here.
	if rules.ModeField != "" {
		if modeVal, ok := cleaned[rules.ModeField].(payload.String); ok {
			for _, key := range rules.ModeGated[string(modeVal)] {
				if _, present := cleaned[key]; present {
					delete(cleaned, key)
					removed = append(removed, RemovedKey{Key: key, Reason: ReasonModeGated})
				}
			}
		}
	}

	// Pass 5: null/undefined stripping. Only emptiness markers - zero and
	// false are real values and stay.
	for _, key := range cleaned.SortedKeys() {
		switch cleaned[key].(type) {
		case payload.Null, payload.Missing, nil:
			delete(cleaned, key)
			removed = append(removed, RemovedKey{Key: key, Reason: ReasonNullUndefined})
		}
	}

	return Result{Cleaned: cleaned, Removed: removed}
}
