package domain

import "strings"

// Sentinel code and label meaning "no sub-filter".
const (
	AllCode = "ALL"
	AllName = "전체"
)

// CategoryPair is a (depth1, depth2) node of the best-listing taxonomy.
type CategoryPair struct {
	Depth1Code string `json:"depth1_code"`
	Depth1Name string `json:"depth1_name"`
	Depth2Code string `json:"depth2_code"`
	Depth2Name string `json:"depth2_name"`
}

// CategoryKey identifies a CategoryPair.
type CategoryKey struct {
	Depth1Code string
	Depth2Code string
}

// AllCategory is the pair emitted for the catch-all group.
func AllCategory() CategoryPair {
	return CategoryPair{
		Depth1Code: AllCode,
		Depth1Name: AllName,
		Depth2Code: AllCode,
		Depth2Name: AllName,
	}
}

func (c CategoryPair) Key() CategoryKey {
	return CategoryKey{Depth1Code: c.Depth1Code, Depth2Code: c.Depth2Code}
}

// Valid reports whether both codes are present.
func (c CategoryPair) Valid() bool {
	return c.Depth1Code != "" && c.Depth2Code != ""
}

// Depth1Label is the depth1 name, or the code when the name is unknown.
func (c CategoryPair) Depth1Label() string {
	if c.Depth1Name != "" {
		return c.Depth1Name
	}
	return c.Depth1Code
}

// Depth2Label is the depth2 name, or the code when the name is unknown.
func (c CategoryPair) Depth2Label() string {
	if c.Depth2Name != "" {
		return c.Depth2Name
	}
	return c.Depth2Code
}

func (c CategoryPair) String() string {
	return CategoryDisplay(c.Depth1Label(), c.Depth2Label())
}

// MissingCategory labels an absent category level in reports.
const MissingCategory = "N/A"

// CategoryDisplay joins two category names as "d1 > d2". Names equal under
// case folding collapse to one and an empty depth1 becomes MissingCategory.
func CategoryDisplay(depth1, depth2 string) string {
	depth1 = strings.TrimSpace(depth1)
	depth2 = strings.TrimSpace(depth2)

	if depth1 == "" {
		depth1 = MissingCategory
	}
	if depth2 == "" {
		if depth1 == MissingCategory {
			return MissingCategory
		}
		depth2 = MissingCategory
	}
	if strings.EqualFold(depth1, depth2) {
		return depth1
	}
	return depth1 + " > " + depth2
}

// DedupeCategories keeps the first pair per key and drops pairs missing a code.
func DedupeCategories(pairs []CategoryPair) []CategoryPair {
	seen := make(map[CategoryKey]struct{}, len(pairs))
	out := make([]CategoryPair, 0, len(pairs))
	for _, p := range pairs {
		if !p.Valid() {
			continue
		}
		if _, ok := seen[p.Key()]; ok {
			continue
		}
		seen[p.Key()] = struct{}{}
		out = append(out, p)
	}
	return out
}

// SameCategories compares two lists as sets of keys.
func SameCategories(a, b []CategoryPair) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[CategoryKey]CategoryPair, len(a))
	for _, p := range a {
		set[p.Key()] = p
	}
	for _, p := range b {
		if q, ok := set[p.Key()]; !ok || q != p {
			return false
		}
	}
	return true
}
