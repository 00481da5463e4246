package localize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LocalePlaceholder is the substitution marker a path template must contain
// exactly once.
const LocalePlaceholder = "{locale}"

// ExpandPath substitutes a locale into a resolved path template.
func ExpandPath(template, locale string) string {
	return strings.ReplaceAll(template, LocalePlaceholder, locale)
}

// Localizer resolves translation requests through a Backend bound to a
// locale chain. It is mutable (the locale may be switched at runtime) but
// not synchronized: use one instance per logical task, or serialize
// SetLocale against in-flight Format calls externally.
type Localizer struct {
	backend   Backend
	template  string
	prefix    string
	fallbacks []string

	chain  Chain
	source string
	handle *Handle

	hooks  []Hook
	query  LocaleQuery
	logger *slog.Logger
}

// New builds a Localizer and initializes its backend for the primary locale.
// A non-empty primary locale is required. The path template addresses the
// backend's per-locale resources and must contain the locale placeholder
// exactly once after prefixing. The bundle backend is used unless WithBackend
// overrides it.
func New(ctx context.Context, pathTemplate, primary string, opts ...Option) (*Localizer, error) {
	l := &Localizer{
		template: pathTemplate,
		logger:   discardLogger(),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	if l.backend == nil {
		l.backend = NewBundleBackend()
	}
	if l.query == nil {
		l.query = HostLocaleQuery
	}

	if err := l.initialize(ctx, primary, l.fallbacks); err != nil {
		return nil, err
	}

	return l, nil
}

// SetLocale switches the active locale, rebuilding the fallback chain and
// reinitializing the backend. On failure the previous chain and handle stay
// active and the error is returned.
func (l *Localizer) SetLocale(ctx context.Context, locale string, fallbacks ...string) error {
	if l == nil || l.backend == nil {
		return fmt.Errorf("%w: localizer is not initialized", ErrUsage)
	}
	return l.initialize(ctx, locale, fallbacks)
}

// initialize builds the chain, resolves the source, and swaps in a fresh
// backend handle. State is only mutated once every step has succeeded.
func (l *Localizer) initialize(ctx context.Context, locale string, fallbacks []string) error {
	// fallbacks never stand in for a missing primary
	if Normalize(locale) == "" {
		return fmt.Errorf("%w: a primary locale is required", ErrUsage)
	}

	chain := NewChain(locale, fallbacks...)

	source, err := l.resolveSource()
	if err != nil {
		return err
	}

	handle, err := l.backend.Init(ctx, source, chain)
	if err != nil {
		return errors.Join(ErrInitialization, err)
	}
	if err := validateHandle(handle); err != nil {
		return err
	}

	l.chain = chain
	l.source = source
	l.handle = handle

	l.logger.DebugContext(ctx, "backend initialized",
		"locale", chain.Primary(),
		"fallbacks", chain.Fallbacks(),
		"source", source)

	return nil
}

// resolveSource joins the configured prefix in front of the template unless
// the template already starts with it, then checks the placeholder.
func (l *Localizer) resolveSource() (string, error) {
	template := l.template
	if prefix := l.prefix; prefix != "" && !strings.HasPrefix(template, prefix) {
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		template = prefix + template
	}

	if count := strings.Count(template, LocalePlaceholder); count != 1 {
		return "", fmt.Errorf("%w: path template must contain %s exactly once, found %d", ErrUsage, LocalePlaceholder, count)
	}

	return template, nil
}

// Format resolves a single message id. Variables may be nil; both id and
// variables pass to the backend uninterpreted, and whatever the backend
// returns is handed back unmodified.
func (l *Localizer) Format(ctx context.Context, id string, vars Variables) (string, error) {
	if l == nil || l.handle == nil {
		return "", fmt.Errorf("%w: localizer is not initialized", ErrUsage)
	}

	var hctx *HookContext
	if len(l.hooks) > 0 {
		hctx = &HookContext{Locale: l.chain.Primary(), ID: id, Vars: vars.Clone()}
		l.beforeFormat(hctx)
	}

	value, err := l.handle.Formatter.FormatValue(ctx, id, vars)

	if hctx != nil {
		hctx.Result, hctx.Err = value, err
		l.afterFormat(hctx)
	}

	return value, err
}

// FormatMessages resolves a batch of requests and returns one translation
// per request, in submission order. Bound requests additionally have their
// result written through their sink, in submission order, before the call
// returns. Misuse is rejected before the backend is consulted.
func (l *Localizer) FormatMessages(ctx context.Context, msgs ...Message) ([]string, error) {
	if l == nil || l.handle == nil {
		return nil, fmt.Errorf("%w: localizer is not initialized", ErrUsage)
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("%w: at least one message is required", ErrUsage)
	}
	for i, msg := range msgs {
		if msg.bound && msg.sink == nil {
			return nil, fmt.Errorf("%w: message %d (%q) is bound to a nil sink", ErrUsage, i, msg.id)
		}
	}

	var hctxs []*HookContext
	if len(l.hooks) > 0 {
		hctxs = make([]*HookContext, len(msgs))
		for i, msg := range msgs {
			hctxs[i] = &HookContext{Locale: l.chain.Primary(), ID: msg.id, Vars: msg.vars.Clone(), Batch: true}
			l.beforeFormat(hctxs[i])
		}
	}

	values, err := l.handle.Formatter.FormatValues(ctx, msgs)
	if err == nil && len(values) != len(msgs) {
		err = fmt.Errorf("%w: %d results for %d requests", ErrBackend, len(values), len(msgs))
		values = nil
	}

	for i, hctx := range hctxs {
		if err == nil {
			hctx.Result = values[i]
		}
		hctx.Err = err
		l.afterFormat(hctx)
	}

	if err != nil {
		return nil, err
	}

	for i, msg := range msgs {
		if !msg.bound {
			continue
		}
		if bindErr := l.handle.Binder.Bind(msg.sink, values[i]); bindErr != nil {
			return values, fmt.Errorf("localize: bind message %d (%q): %w", i, msg.id, bindErr)
		}
	}

	return values, nil
}

// PreferredLocales reports the host environment's ranked locale preferences
// through the configured query. See the package-level PreferredLocales for
// the fallback semantics.
func (l *Localizer) PreferredLocales(fallback string) ([]string, error) {
	if l == nil {
		return preferredLocales(nil, fallback)
	}
	return preferredLocales(l.query, fallback)
}

// Locale returns the active primary locale.
func (l *Localizer) Locale() string {
	if l == nil {
		return ""
	}
	return l.chain.Primary()
}

// Fallbacks returns the active fallback locales, primary excluded.
func (l *Localizer) Fallbacks() []string {
	if l == nil {
		return nil
	}
	return l.chain.Fallbacks()
}

// Chain returns a copy of the active locale chain.
func (l *Localizer) Chain() Chain {
	if l == nil {
		return nil
	}
	return l.chain.Clone()
}

// Source returns the resolved path template the backend was initialized
// with, prefix applied.
func (l *Localizer) Source() string {
	if l == nil {
		return ""
	}
	return l.source
}

// Handle exposes the live backend handle.
func (l *Localizer) Handle() *Handle {
	if l == nil {
		return nil
	}
	return l.handle
}

func (l *Localizer) beforeFormat(hctx *HookContext) {
	for _, hook := range l.hooks {
		hook.BeforeFormat(hctx)
	}
}

func (l *Localizer) afterFormat(hctx *HookContext) {
	for _, hook := range l.hooks {
		hook.AfterFormat(hctx)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
