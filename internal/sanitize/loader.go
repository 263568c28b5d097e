package sanitize

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaCUE string

// LoadRuleTable reads a CUE rule file, validates it against the embedded
// #RuleTable schema, and decodes it. Rule tables ship as data so a rule
// change is a config review, not a code change.
func LoadRuleTable(path string) (*RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule table: %w", err)
	}
	return ParseRuleTable(data)
}

// ParseRuleTable validates and decodes CUE rule-table bytes.
func ParseRuleTable(data []byte) (*RuleTable, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile rule schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#RuleTable"))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("rule schema missing #RuleTable: %w", err)
	}

	val := ctx.CompileBytes(data)
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("compile rule table: %w", err)
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("rule table does not satisfy schema: %w", err)
	}

	var table RuleTable
	if err := unified.Decode(&table); err != nil {
		return nil, fmt.Errorf("decode rule table: %w", err)
	}
	return &table, nil
}
