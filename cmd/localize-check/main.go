package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goliatone/go-localize"
)

type checkConfig struct {
	template  string
	locale    string
	fallbacks []string
	prefix    string
	ids       []string
	envFile   string
	preferred bool
	verbose   bool
}

type listFlag struct {
	items []string
}

func (f *listFlag) String() string {
	return strings.Join(f.items, ",")
}

func (f *listFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f.items = append(f.items, part)
	}
	return nil
}

func main() {
	cfg, err := parseFlags()
	if err != nil {
		reportError(err)
	}

	if err := run(cfg); err != nil {
		reportError(err)
	}
}

func reportError(err error) {
	fmt.Fprintf(os.Stderr, "localize-check: %v\n", err)
	os.Exit(1)
}

func parseFlags() (checkConfig, error) {
	var cfg checkConfig
	var fallbackList, idList listFlag

	flag.StringVar(&cfg.template, "template", "", "path template with a {locale} placeholder (defaults to LOCALIZE_PATH_TEMPLATE)")
	flag.StringVar(&cfg.locale, "locale", "", "primary locale to check (defaults to LOCALIZE_LOCALE)")
	flag.Var(&fallbackList, "fallback", "fallback locale, comma separated or repeated (defaults to LOCALIZE_FALLBACKS)")
	flag.StringVar(&cfg.prefix, "prefix", "", "base path joined in front of the template (defaults to LOCALIZE_PATH_PREFIX)")
	flag.Var(&idList, "id", "message id to resolve, comma separated or repeated. Positional arguments add more.")
	flag.StringVar(&cfg.envFile, "env", "", "dotenv file to load before reading the environment")
	flag.BoolVar(&cfg.preferred, "preferred", false, "print the host's ranked locale preferences and exit")
	flag.BoolVar(&cfg.verbose, "v", false, "log backend initialization to stderr")

	flag.Parse()

	cfg.fallbacks = fallbackList.items
	cfg.ids = append(idList.items, flag.Args()...)

	return cfg, nil
}

func run(cfg checkConfig) error {
	if cfg.preferred {
		return printPreferred(cfg.locale)
	}

	if err := applyEnv(&cfg); err != nil {
		return err
	}

	if cfg.template == "" {
		return errors.New("missing path template (set -template or LOCALIZE_PATH_TEMPLATE)")
	}
	if len(cfg.ids) == 0 {
		return errors.New("at least one message id is required")
	}

	logger := newLogger(cfg.verbose)
	ctx := context.Background()

	l, err := localize.New(ctx, cfg.template, cfg.locale,
		localize.WithFallbacks(cfg.fallbacks...),
		localize.WithPathPrefix(cfg.prefix),
		localize.WithBackend(localize.NewBundleBackend(localize.WithBundleLogger(logger))),
		localize.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	missing := 0
	for _, id := range cfg.ids {
		value, err := l.Format(ctx, id, nil)
		if err != nil {
			return fmt.Errorf("format %s: %w", id, err)
		}

		status := "ok"
		if value == id {
			status = "missing"
			missing++
		}
		fmt.Printf("%-10s %-40s %s\n", status, id, value)
	}

	fmt.Printf("\nchecked %d ids for chain %v\n", len(cfg.ids), l.Chain())
	if missing > 0 {
		return fmt.Errorf("%d of %d message ids did not resolve", missing, len(cfg.ids))
	}
	return nil
}

// applyEnv fills unset flags from the environment. Flags win on conflict.
func applyEnv(cfg *checkConfig) error {
	var envFiles []string
	if cfg.envFile != "" {
		envFiles = append(envFiles, cfg.envFile)
	}

	envCfg, err := localize.LoadConfig(envFiles...)
	if err != nil {
		return err
	}

	if cfg.template == "" {
		cfg.template = envCfg.PathTemplate
	}
	if cfg.locale == "" {
		cfg.locale = envCfg.Locale
	}
	if len(cfg.fallbacks) == 0 {
		cfg.fallbacks = envCfg.Fallbacks
	}
	if cfg.prefix == "" {
		cfg.prefix = envCfg.PathPrefix
	}

	return nil
}

func printPreferred(fallback string) error {
	locales, err := localize.PreferredLocales(fallback)
	if err != nil {
		return err
	}

	for i, code := range locales {
		fmt.Printf("%2d. %s\n", i+1, code)
	}
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
