package assets

import (
	"fmt"
	"os"
	"regexp"

	"github.com/pelletier/go-toml/v2"
)

// Override is one hand-authored rule. Match is an exact normalized-key
// comparison; Pattern is a regular expression over the raw name. Exactly
// one of the two should be set. When a rule fires, its Image and/or Text
// fully replace the computed result for the entity's primary choice; the
// computed candidate list stays available for galleries.
type Override struct {
	Match   string `toml:"match,omitempty"`
	Pattern string `toml:"pattern,omitempty"`
	Image   string `toml:"image,omitempty"`
	Text    string `toml:"text,omitempty"`

	re *regexp.Regexp
}

// TextRule maps a name pattern to a literal descriptive paragraph used
// when an entity has no structured description.
type TextRule struct {
	Pattern string `toml:"pattern"`
	Text    string `toml:"text"`

	re *regexp.Regexp
}

// MatchConfig is the injected override/fallback configuration. Content
// edits happen in the TOML file, never in matcher code.
type MatchConfig struct {
	Overrides []Override `toml:"override"`
	TextRules []TextRule `toml:"fallback"`
}

// OverrideSet is an ordered override table with compiled patterns.
type OverrideSet struct {
	rules []Override
}

// NewOverrideSet compiles the given rules, preserving order. A rule with
// an invalid pattern is a configuration error.
func NewOverrideSet(rules []Override) (*OverrideSet, error) {
	compiled := make([]Override, len(rules))
	for i, rule := range rules {
		if rule.Pattern != "" {
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				return nil, fmt.Errorf("override %d: invalid pattern %q: %w", i, rule.Pattern, err)
			}
			rule.re = re
		}
		compiled[i] = rule
	}
	return &OverrideSet{rules: compiled}, nil
}

// Resolve returns the first rule matching the given raw name, testing
// exact normalized-key matches and patterns in table order.
func (s *OverrideSet) Resolve(name string) (Override, bool) {
	key := NormalizeKey(name)
	for _, rule := range s.rules {
		if rule.Match != "" && rule.Match == key {
			return rule, true
		}
		if rule.re != nil && rule.re.MatchString(name) {
			return rule, true
		}
	}
	return Override{}, false
}

// CompileTextRules compiles fallback text rules, preserving order.
func CompileTextRules(rules []TextRule) ([]TextRule, error) {
	compiled := make([]TextRule, len(rules))
	for i, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("fallback rule %d: invalid pattern %q: %w", i, rule.Pattern, err)
		}
		rule.re = re
		compiled[i] = rule
	}
	return compiled, nil
}

// LoadMatchConfig reads overrides and fallback text rules from a TOML
// file and compiles them. A missing path returns an empty config so
// deployments without hand-maintained overrides keep working.
func LoadMatchConfig(path string) (*OverrideSet, []TextRule, error) {
	if path == "" {
		return &OverrideSet{}, nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &OverrideSet{}, nil, nil
		}
		return nil, nil, fmt.Errorf("read match config %s: %w", path, err)
	}

	var cfg MatchConfig
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parse match config %s: %w", path, err)
	}

	set, err := NewOverrideSet(cfg.Overrides)
	if err != nil {
		return nil, nil, err
	}
	rules, err := CompileTextRules(cfg.TextRules)
	if err != nil {
		return nil, nil, err
	}
	return set, rules, nil
}
