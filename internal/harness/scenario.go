package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/beltworks/camber/internal/payload"
	"github.com/beltworks/camber/internal/recipe"
)

// Scenario defines one end-to-end calculation case: a raw input payload as a
// client would submit it, plus the expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description"`

	// Rules is an optional path to a CUE rule-table file, relative to the
	// scenario file. Empty means the built-in default rules.
	Rules string `yaml:"rules,omitempty"`

	// Inputs is the raw payload, pre-sanitization. Keys removed by the
	// sanitizer are recorded in the run snapshot.
	Inputs map[string]any `yaml:"inputs"`

	// Expect specifies the expected run outcome. If nil, the scenario is
	// golden-only.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected result of a scenario run.
type ExpectClause struct {
	// Success is the expected engine verdict.
	Success bool `yaml:"success"`

	// Outputs contains expected output field values. Subset match - only
	// the listed fields are checked, through payload equality.
	Outputs map[string]any `yaml:"outputs,omitempty"`

	// Warnings lists substrings that must each appear in some warning.
	Warnings []string `yaml:"warnings,omitempty"`

	// ErrorCodes lists validation error codes that must all be present.
	ErrorCodes []string `yaml:"error_codes,omitempty"`

	// Removed lists input keys the sanitizer must have removed.
	Removed []string `yaml:"removed,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so a typo in a fixture fails loudly instead of silently passing.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if scenario.Rules != "" && !filepath.IsAbs(scenario.Rules) {
		scenario.Rules = filepath.Join(filepath.Dir(path), scenario.Rules)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

// LoadScenarioDir loads every *.yaml scenario under dir, sorted by filename.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob scenarios: %w", err)
	}
	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Inputs == nil {
		return fmt.Errorf("inputs is required (use empty map for no inputs)")
	}
	if s.Rules != "" {
		if _, err := os.Stat(s.Rules); os.IsNotExist(err) {
			return fmt.Errorf("rules file not found: %s", s.Rules)
		}
	}
	return nil
}

// InputPayload converts the scenario's raw YAML inputs into a payload object.
func (s *Scenario) InputPayload() (payload.Object, error) {
	v, err := payload.FromGo(s.Inputs)
	if err != nil {
		return nil, fmt.Errorf("scenario %s inputs: %w", s.Name, err)
	}
	obj, ok := v.(payload.Object)
	if !ok {
		return nil, fmt.Errorf("scenario %s inputs: not an object", s.Name)
	}
	return obj, nil
}

// ToRecipe converts a scenario into an unsaved recipe whose expected outputs
// come from the scenario's expect clause. Used to seed corpora from fixture
// scenarios.
func (s *Scenario) ToRecipe(sanitized payload.Object) (*recipe.Recipe, error) {
	rec := &recipe.Recipe{
		Name:      s.Name,
		Status:    "active",
		Inputs:    sanitized,
		IsFixture: true,
	}
	if s.Expect != nil && s.Expect.Outputs != nil {
		v, err := payload.FromGo(s.Expect.Outputs)
		if err != nil {
			return nil, fmt.Errorf("scenario %s expected outputs: %w", s.Name, err)
		}
		rec.Expected = v.(payload.Object)
	}
	return rec, nil
}
