package dictionary

import "sort"

// Catalog is an immutable snapshot of the language pairs a backend
// supports. The engine swaps whole snapshots on refresh, so readers
// never observe a partially updated catalog.
type Catalog struct {
	pairs map[LanguagePair]struct{}
}

func NewCatalog(pairs []LanguagePair) *Catalog {
	set := make(map[LanguagePair]struct{}, len(pairs))
	for _, pair := range pairs {
		if pair.Source == "" || pair.Target == "" {
			continue
		}
		set[pair] = struct{}{}
	}
	return &Catalog{pairs: set}
}

// Contains reports whether the pair is supported.
func (c *Catalog) Contains(source, target string) bool {
	_, ok := c.pairs[LanguagePair{Source: source, Target: target}]
	return ok
}

// Reverse returns the swapped pair if the catalog supports translating
// in the opposite direction.
func (c *Catalog) Reverse(source, target string) (LanguagePair, bool) {
	reversed := LanguagePair{Source: target, Target: source}
	if _, ok := c.pairs[reversed]; ok {
		return reversed, true
	}
	return LanguagePair{}, false
}

// Sources returns the distinct source languages, sorted.
func (c *Catalog) Sources() []string {
	seen := make(map[string]struct{})
	for pair := range c.pairs {
		seen[pair.Source] = struct{}{}
	}
	sources := make([]string, 0, len(seen))
	for code := range seen {
		sources = append(sources, code)
	}
	sort.Strings(sources)
	return sources
}

// Targets returns the target languages available for a source language, sorted.
func (c *Catalog) Targets(source string) []string {
	var targets []string
	for pair := range c.pairs {
		if pair.Source == source {
			targets = append(targets, pair.Target)
		}
	}
	sort.Strings(targets)
	return targets
}

// Pairs returns every supported pair, sorted by source then target.
func (c *Catalog) Pairs() []LanguagePair {
	pairs := make([]LanguagePair, 0, len(c.pairs))
	for pair := range c.pairs {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Source != pairs[j].Source {
			return pairs[i].Source < pairs[j].Source
		}
		return pairs[i].Target < pairs[j].Target
	})
	return pairs
}

func (c *Catalog) Len() int {
	return len(c.pairs)
}
