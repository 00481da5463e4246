package localize

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Option mutates a Localizer during construction. Nil options are skipped.
type Option func(*Localizer) error

// WithFallbacks appends fallback locales tried after the primary, in order.
func WithFallbacks(locales ...string) Option {
	return func(l *Localizer) error {
		l.fallbacks = append(l.fallbacks, locales...)
		return nil
	}
}

// WithPathPrefix sets the base path joined in front of the path template,
// unless the template already starts with it.
func WithPathPrefix(prefix string) Option {
	return func(l *Localizer) error {
		l.prefix = prefix
		return nil
	}
}

// WithBackend selects the translation backend. A nil backend keeps the
// default.
func WithBackend(backend Backend) Option {
	return func(l *Localizer) error {
		if backend != nil {
			l.backend = backend
		}
		return nil
	}
}

// WithLogger attaches a structured logger for lifecycle events. Logging is
// ambient only; failures are still returned, never just logged.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Localizer) error {
		if logger != nil {
			l.logger = logger
		}
		return nil
	}
}

// WithHooks registers observation hooks fired around each formatted message.
func WithHooks(hooks ...Hook) Option {
	return func(l *Localizer) error {
		for _, hook := range hooks {
			if hook == nil {
				continue
			}
			l.hooks = append(l.hooks, hook)
		}
		return nil
	}
}

// WithLocaleQuery overrides the host locale query used by PreferredLocales.
func WithLocaleQuery(query LocaleQuery) Option {
	return func(l *Localizer) error {
		if query != nil {
			l.query = query
		}
		return nil
	}
}

// Config captures localizer construction data, loadable from the process
// environment.
type Config struct {
	PathTemplate string   `env:"LOCALIZE_PATH_TEMPLATE"`
	Locale       string   `env:"LOCALIZE_LOCALE" envDefault:"en-US"`
	Fallbacks    []string `env:"LOCALIZE_FALLBACKS" envSeparator:","`
	PathPrefix   string   `env:"LOCALIZE_PATH_PREFIX"`
}

// LoadConfig reads Config from the environment. Dotenv files are loaded
// first when given (".env" by default); missing files are not an error and
// existing variables are never overridden.
func LoadConfig(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("localize: parse environment: %w", err)
	}
	return cfg, nil
}

// FromConfig builds a Localizer from an environment Config. Explicit options
// apply after the config-derived ones and win on conflict.
func FromConfig(ctx context.Context, cfg Config, opts ...Option) (*Localizer, error) {
	combined := make([]Option, 0, len(opts)+2)
	if len(cfg.Fallbacks) > 0 {
		combined = append(combined, WithFallbacks(cfg.Fallbacks...))
	}
	if cfg.PathPrefix != "" {
		combined = append(combined, WithPathPrefix(cfg.PathPrefix))
	}
	combined = append(combined, opts...)

	return New(ctx, cfg.PathTemplate, cfg.Locale, combined...)
}
