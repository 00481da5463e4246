package localize

import "strings"

// Normalize canonicalizes a locale tag by trimming whitespace and replacing
// underscore separators with hyphens, so "en_US" and "en-US" compare equal.
// No case folding or tag validation is performed. Idempotent.
func Normalize(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
}

// Chain is an ordered locale sequence, primary first. Order determines
// resolution priority; entries are unique by canonical form.
type Chain []string

// NewChain normalizes the primary locale and every fallback and deduplicates
// while preserving first-seen order. The primary stays first even when it
// reappears among the fallbacks; empty entries are dropped.
func NewChain(primary string, fallbacks ...string) Chain {
	chain := make(Chain, 0, len(fallbacks)+1)
	seen := make(map[string]struct{}, len(fallbacks)+1)

	add := func(locale string) {
		normalized := Normalize(locale)
		if normalized == "" {
			return
		}
		if _, exists := seen[normalized]; exists {
			return
		}
		seen[normalized] = struct{}{}
		chain = append(chain, normalized)
	}

	add(primary)
	for _, fallback := range fallbacks {
		add(fallback)
	}

	return chain
}

// Primary returns the first locale of the chain.
func (c Chain) Primary() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Fallbacks returns the chain members after the primary.
func (c Chain) Fallbacks() []string {
	if len(c) < 2 {
		return nil
	}
	out := make([]string, len(c)-1)
	copy(out, c[1:])
	return out
}

// Contains reports whether the canonical form of locale is in the chain.
func (c Chain) Contains(locale string) bool {
	normalized := Normalize(locale)
	for _, candidate := range c {
		if candidate == normalized {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the chain.
func (c Chain) Clone() Chain {
	if len(c) == 0 {
		return nil
	}
	out := make(Chain, len(c))
	copy(out, c)
	return out
}
