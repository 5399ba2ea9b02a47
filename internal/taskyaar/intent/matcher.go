package intent

import (
	"fmt"
	"regexp"
	"strings"
)

// extractor pulls slot values out of a matched utterance. text is the
// normalised utterance, groups the submatches of the rule's pattern.
type extractor func(text string, groups []string, slots Slots)

// rule is one entry in a lexicon's ordered rule table.
type rule struct {
	// name identifies the rule in logs and tests.
	name   string
	intent Intent
	// pattern must match (anywhere) for the rule to fire.
	pattern *regexp.Regexp
	// reject vetoes the match when it also matches. Go's RE2 engine has no
	// negative lookahead, so exclusions like "the word after task must not
	// be a digit or 'id'" are expressed as a separate guard pattern.
	reject *regexp.Regexp
	// extract runs in order on a successful match to fill the slot set.
	extract []extractor
}

// MatcherOptions tunes lexicon construction.
type MatcherOptions struct {
	// Categories is the known category vocabulary used by the search-filter
	// extractor. Empty falls back to DefaultCategories.
	Categories []string
}

// DefaultCategories is the category vocabulary used when none is configured.
var DefaultCategories = []string{"work", "home", "personal", "shopping", "study"}

// Matcher evaluates ordered rule tables keyed by language.
type Matcher struct {
	lexicons   map[Language][]rule
	categories []string
}

// NewMatcher builds the rule tables for all supported languages. An empty
// table for any language is a configuration error and fails fast, before any
// turn is processed.
func NewMatcher(opts MatcherOptions) (*Matcher, error) {
	cats := opts.Categories
	if len(cats) == 0 {
		cats = DefaultCategories
	}

	m := &Matcher{categories: cats}
	m.lexicons = map[Language][]rule{
		English: englishRules(m),
		Urdu:    urduRules(m),
	}

	for lang, rules := range m.lexicons {
		if len(rules) == 0 {
			return nil, fmt.Errorf("intent: empty rule table for language %q", lang)
		}
		seen := make(map[string]struct{}, len(rules))
		for _, r := range rules {
			if r.pattern == nil {
				return nil, fmt.Errorf("intent: rule %q (%s) has no pattern", r.name, lang)
			}
			if _, dup := seen[r.name]; dup {
				return nil, fmt.Errorf("intent: duplicate rule name %q (%s)", r.name, lang)
			}
			seen[r.name] = struct{}{}
		}
	}
	return m, nil
}

// Match evaluates lang's rule table in order against the utterance and
// returns the first winning rule's intent and extracted slots. No rule
// matching returns (Unknown, nil) — the caller must not invoke any tool.
func (m *Matcher) Match(text string, lang Language) (Intent, Slots) {
	rules, ok := m.lexicons[lang]
	if !ok {
		rules = m.lexicons[English]
	}

	norm := normalise(text)
	if norm == "" {
		return Unknown, nil
	}

	for _, r := range rules {
		groups := r.pattern.FindStringSubmatch(norm)
		if groups == nil {
			continue
		}
		if r.reject != nil && r.reject.MatchString(norm) {
			continue
		}
		slots := Slots{}
		for _, ex := range r.extract {
			ex(norm, groups, slots)
		}
		return r.intent, slots
	}
	return Unknown, nil
}

// normalise lowercases the utterance, collapses whitespace, and strips
// trailing punctuation so rule patterns stay simple. Urdu script is not
// affected by lowercasing.
func normalise(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.Join(strings.Fields(text), " ")
	return strings.TrimRight(text, ".!?؟۔ ")
}
