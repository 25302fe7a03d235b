package category

import (
	"fmt"
	"strings"
)

// Match is the category a file name resolved to.
type Match struct {
	Category    string
	Subcategory string
	// Rule is the index of the matching rule in the resolver's table.
	Rule int
}

// Segments returns the path segments for the match: category and, when set,
// subcategory.
func (m Match) Segments() []string {
	if m.Subcategory == "" {
		return []string{m.Category}
	}
	return []string{m.Category, m.Subcategory}
}

// Resolver evaluates an ordered rule table.
type Resolver struct {
	rules []Rule
}

// NewResolver normalizes rules (lower-case tokens, leading dots on suffix
// tokens) and returns a resolver that evaluates them in the given order.
func NewResolver(rules []Rule) (*Resolver, error) {
	normalized := make([]Rule, 0, len(rules))
	for i, rule := range rules {
		category := strings.TrimSpace(rule.Category)
		if category == "" {
			return nil, fmt.Errorf("rule %d: category is required", i)
		}
		tokens := make([]string, 0, len(rule.Tokens))
		for _, token := range rule.Tokens {
			token = strings.ToLower(strings.TrimSpace(token))
			if token == "" {
				continue
			}
			if rule.Kind == MatchSuffix && !strings.HasPrefix(token, ".") {
				token = "." + token
			}
			tokens = append(tokens, token)
		}
		if len(tokens) == 0 {
			return nil, fmt.Errorf("rule %d (%s): at least one extension or name is required", i, category)
		}
		normalized = append(normalized, Rule{
			Category:    category,
			Subcategory: strings.TrimSpace(rule.Subcategory),
			Kind:        rule.Kind,
			Tokens:      tokens,
		})
	}
	return &Resolver{rules: normalized}, nil
}

// Default returns a resolver over DefaultRules.
func Default() *Resolver {
	r, err := NewResolver(DefaultRules())
	if err != nil {
		panic(err)
	}
	return r
}

// Rules returns a copy of the resolver's normalized rule table.
func (r *Resolver) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Resolve returns the first rule matching name. ok is false when no rule
// matches.
func (r *Resolver) Resolve(name string) (Match, bool) {
	lower := strings.ToLower(name)
	for i, rule := range r.rules {
		if rule.matches(lower) {
			return Match{Category: rule.Category, Subcategory: rule.Subcategory, Rule: i}, true
		}
	}
	return Match{}, false
}
