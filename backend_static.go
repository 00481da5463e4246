package localize

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Messages is an in-memory catalog: locale code -> message id -> template.
type Messages map[string]map[string]string

// StaticBackend serves translations from an immutable in-memory catalog.
// Templates may reference variables as {name}. Resolution walks the locale
// chain in order; an id absent from every chain member resolves to the id
// itself. Locale keys are normalized on construction, so "en_US" and
// "en-US" address the same catalog entry.
type StaticBackend struct {
	catalog Messages
	locales []string
}

var _ Backend = (*StaticBackend)(nil)

// NewStaticBackend builds a backend from an immutable snapshot of the given
// catalog. Spellings that normalize to the same code merge into a single
// entry.
func NewStaticBackend(catalog Messages) *StaticBackend {
	backend := &StaticBackend{catalog: make(Messages, len(catalog))}

	// iterate in sorted order so colliding spellings merge deterministically
	codes := make([]string, 0, len(catalog))
	for code := range catalog {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		messages := catalog[code]
		normalized := Normalize(code)
		if normalized == "" || len(messages) == 0 {
			continue
		}

		clone, ok := backend.catalog[normalized]
		if !ok {
			clone = make(map[string]string, len(messages))
			backend.catalog[normalized] = clone
			backend.locales = append(backend.locales, normalized)
		}
		for id, template := range messages {
			clone[id] = template
		}
	}

	// make locales deterministic
	sort.Strings(backend.locales)

	return backend
}

// Locales returns the catalog's locale codes, sorted.
func (b *StaticBackend) Locales() []string {
	if b == nil || len(b.locales) == 0 {
		return nil
	}
	out := make([]string, len(b.locales))
	copy(out, b.locales)
	return out
}

// Init implements Backend. The shared catalog backs every handle; chain
// members without a catalog entry are simply skipped during lookup, so a
// static backend never reports load errors.
func (b *StaticBackend) Init(ctx context.Context, source string, chain Chain) (*Handle, error) {
	return &Handle{
		Binder:    AssignBinder(),
		Formatter: &staticFormatter{catalog: b.catalog, chain: chain.Clone()},
	}, nil
}

type staticFormatter struct {
	catalog Messages
	chain   Chain
}

var placeablePattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// FormatValue resolves id against the chain, substituting {name} placeables
// from vars. Unknown placeables stay verbatim; an unknown id resolves to the
// id itself.
func (f *staticFormatter) FormatValue(ctx context.Context, id string, vars Variables) (string, error) {
	template, ok := f.lookup(id)
	if !ok {
		return id, nil
	}
	return substitutePlaceables(template, vars), nil
}

// FormatValues resolves each request in order.
func (f *staticFormatter) FormatValues(ctx context.Context, msgs []Message) ([]string, error) {
	out := make([]string, len(msgs))
	for i, msg := range msgs {
		value, err := f.FormatValue(ctx, msg.ID(), msg.Variables())
		if err != nil {
			return nil, err
		}
		out[i] = value
	}
	return out, nil
}

func (f *staticFormatter) lookup(id string) (string, bool) {
	for _, code := range f.chain {
		messages, ok := f.catalog[code]
		if !ok {
			continue
		}
		if template, ok := messages[id]; ok {
			return template, true
		}
	}
	return "", false
}

func substitutePlaceables(template string, vars Variables) string {
	if len(vars) == 0 || !strings.Contains(template, "{") {
		return template
	}

	return placeablePattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		if value, ok := vars[name]; ok {
			return fmt.Sprint(value)
		}
		return match
	})
}
