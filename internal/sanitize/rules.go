package sanitize

// RuleTable is the declarative sanitization configuration. One table covers
// one input map; the zero value is a valid table that removes nothing beyond
// null/undefined entries.
type RuleTable struct {
	// Version identifies the rule revision for audit purposes.
	Version int `json:"version"`

	// ModeField names the input key whose value selects a ModeGated set.
	ModeField string `json:"mode_field"`

	// Deprecated keys are unconditionally removed.
	Deprecated []string `json:"deprecated"`

	// Derived keys originate from catalog/lookup data and must never be
	// trusted from client input.
	Derived []string `json:"derived"`

	// Aliases maps a legacy key name to its canonical replacement. When both
	// are present the canonical key wins; when only the legacy key is present
	// it is renamed.
	Aliases map[string]string `json:"aliases"`

	// ModeGated maps a ModeField value to the keys that contradict that mode
	// and must be removed while it is active.
	ModeGated map[string][]string `json:"mode_gated"`
}

// DefaultRules returns the built-in rule table for conveyor calculation
// inputs. Loadable overrides come from a CUE file via LoadRuleTable.
func DefaultRules() *RuleTable {
	return &RuleTable{
		Version:   3,
		ModeField: "speed_mode",
		Deprecated: []string{
			"send_to_estimating",
			"quote_revision_note",
			"legacy_import_batch",
		},
		Derived: []string{
			"belt_min_pulley_dia_no_vguide_in",
			"belt_min_pulley_dia_vguide_in",
			"belt_weight_lbs_per_sqft",
			"belt_piw_rating",
		},
		Aliases: map[string]string{
			"pulley_rpm":  "drive_rpm",
			"belt_speed":  "belt_speed_fpm",
			"conveyor_cl": "conveyor_length_in",
		},
		ModeGated: map[string][]string{
			// Direct belt speed entry contradicts an RPM override.
			"belt_speed": {"drive_rpm"},
			// RPM-driven sizing contradicts a direct speed entry.
			"drive_rpm": {"belt_speed_fpm"},
		},
	}
}
