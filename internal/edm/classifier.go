package edm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/datenorm/internal/model"
	"github.com/ppiankov/datenorm/internal/normalize"
)

type rule struct {
	re   *regexp.Regexp
	mode normalize.Mode
}

// Classifier decides which properties are normalized and with which chain
type Classifier struct {
	date    map[string]bool
	generic map[string]bool
	rules   []rule
}

// NewClassifier builds a classifier from the configured property lists and rules.
// Property names are matched case-insensitively.
func NewClassifier(cfg model.PropertiesConfig) (*Classifier, error) {
	c := &Classifier{
		date:    toSet(cfg.Date),
		generic: toSet(cfg.Generic),
	}
	for _, p := range cfg.Patterns {
		mode, err := normalize.ParseMode(p.Mode)
		if err != nil {
			return nil, fmt.Errorf("property rule %q: %w", p.Pattern, err)
		}
		re, err := regexp.Compile("(?i)" + p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("property rule %q: %w", p.Pattern, err)
		}
		c.rules = append(c.rules, rule{re: re, mode: mode})
	}
	return c, nil
}

// Classify returns the mode for property. ok is false for properties that are not normalized.
func (c *Classifier) Classify(property string) (normalize.Mode, bool) {
	key := strings.ToLower(property)
	if c.date[key] {
		return normalize.DateProperty, true
	}
	if c.generic[key] {
		return normalize.GenericProperty, true
	}
	for _, r := range c.rules {
		if r.re.MatchString(key) {
			return r.mode, true
		}
	}
	return "", false
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(strings.TrimSpace(n))] = true
	}
	return set
}
