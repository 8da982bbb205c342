package rules

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

//go:embed ruleset.schema.json
var rulesSchemaJSON string

// Default returns the embedded default rule set. It panics only if the
// embedded data is itself invalid, which is a build defect.
func Default() *RuleSet {
	rs, err := Parse(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default rules invalid: %v", err))
	}
	return rs
}

// Parse decodes and validates a rule set from YAML bytes: schema first,
// then the structural checks in Validate.
func Parse(data []byte) (*RuleSet, error) {
	if errs := ValidateBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("rules: schema validation failed:\n  %s", strings.Join(errs, "\n  "))
	}

	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("rules: decode: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Load reads and parses a rule-set file.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: read %s: %w", path, err)
	}
	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}
