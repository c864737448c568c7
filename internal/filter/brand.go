package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"wconcept/bestcrawl/internal/domain"
)

// Matcher decides whether a brand belongs to the allow-list.
//
// Allowed names containing non-ASCII characters must match exactly after
// trimming; pure ASCII names match case-insensitively.
type Matcher struct {
	exact []string
	fold  []string
	caser cases.Caser
}

func NewMatcher(allowed []string) *Matcher {
	m := &Matcher{caser: cases.Fold()}
	for _, a := range allowed {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if isASCII(a) {
			m.fold = append(m.fold, m.caser.String(a))
		} else {
			m.exact = append(m.exact, a)
		}
	}
	return m
}

// Match reports whether brand is allowed. Empty brands never match.
func (m *Matcher) Match(brand string) bool {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return false
	}
	for _, a := range m.exact {
		if brand == a {
			return true
		}
	}
	folded := m.caser.String(brand)
	for _, a := range m.fold {
		if folded == a {
			return true
		}
	}
	return false
}

// MatchesRow is the report-time rule: the brand column must match, or when it
// is blank the product name must contain an allowed name.
func (m *Matcher) MatchesRow(brand, name string) bool {
	if strings.TrimSpace(brand) != "" {
		return m.Match(brand)
	}
	if name == "" {
		return false
	}
	for _, a := range m.exact {
		if strings.Contains(name, a) {
			return true
		}
	}
	folded := m.caser.String(name)
	for _, a := range m.fold {
		if strings.Contains(folded, a) {
			return true
		}
	}
	return false
}

// StampOriginalRank records each product's 1-based listing position.
func StampOriginalRank(products []domain.Product) {
	for i, p := range products {
		p[domain.OriginalRankKey] = i + 1
	}
}

// FilterByBrand stamps original ranks and keeps the allowed brands, in order.
func FilterByBrand(products []domain.Product, allowed []string) []domain.Product {
	StampOriginalRank(products)

	m := NewMatcher(allowed)
	out := make([]domain.Product, 0)
	for _, p := range products {
		if m.Match(p.Brand()) {
			out = append(out, p)
		}
	}
	return out
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
