package convert

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule overrides the payee and/or category of imported transactions
// whose expense description contains the match string.
type Rule struct {
	Match      string `yaml:"match"`
	Payee      string `yaml:"payee"`
	CategoryID string `yaml:"category_id"`
}

// Rules is an ordered payee-override rule set loaded from a YAML file.
// First matching rule wins.
type Rules struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules loads a payee-rules YAML file.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, rule := range rules.Rules {
		if strings.TrimSpace(rule.Match) == "" {
			return nil, fmt.Errorf("rule %d has an empty match string", i)
		}
	}

	return &rules, nil
}

// Match returns the first rule whose match string is a case-insensitive
// substring of the description, or nil. Safe on a nil receiver.
func (r *Rules) Match(description string) *Rule {
	if r == nil {
		return nil
	}

	haystack := strings.ToLower(description)
	for i := range r.Rules {
		if strings.Contains(haystack, strings.ToLower(r.Rules[i].Match)) {
			return &r.Rules[i]
		}
	}

	return nil
}
