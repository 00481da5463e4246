package localize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// BundleBackend loads go-i18n message files addressed by the path template.
// TOML, JSON, and YAML resources are supported, selected by the file
// extension; message templates use go-i18n syntax ({{.name}}). Resolution
// walks the locale chain in order: the first member whose resources carry
// the id formats it.
//
// Loading is strict: every chain member's resource must load, and any
// failure is reported through the handle's error list.
type BundleBackend struct {
	fsys   fs.FS
	logger *slog.Logger
}

var _ Backend = (*BundleBackend)(nil)

// BundleOption mutates a BundleBackend during construction.
type BundleOption func(*BundleBackend)

// WithBundleFS reads resources from fsys instead of the working directory.
func WithBundleFS(fsys fs.FS) BundleOption {
	return func(b *BundleBackend) {
		if fsys != nil {
			b.fsys = fsys
		}
	}
}

// WithBundleLogger attaches a logger for resource-loading events.
func WithBundleLogger(logger *slog.Logger) BundleOption {
	return func(b *BundleBackend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBundleBackend builds a file-resource backend rooted at the working
// directory unless WithBundleFS overrides it.
func NewBundleBackend(opts ...BundleOption) *BundleBackend {
	backend := &BundleBackend{
		fsys:   os.DirFS("."),
		logger: discardLogger(),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(backend)
	}

	return backend
}

// Init implements Backend. The bundle's base language is the chain primary;
// each chain member's resource file is parsed under a synthetic
// "<locale>.<ext>" name so messages attribute to the right tag regardless
// of on-disk naming.
func (b *BundleBackend) Init(ctx context.Context, source string, chain Chain) (*Handle, error) {
	bundle := i18n.NewBundle(language.Make(chain.Primary()))
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yml", yaml.Unmarshal)

	handle := &Handle{Binder: AssignBinder()}

	for _, code := range chain {
		if err := b.loadLocale(bundle, source, code); err != nil {
			handle.FormatterErrors = append(handle.FormatterErrors, err)
			continue
		}
		b.logger.DebugContext(ctx, "resources loaded", "locale", code, "source", source)
	}

	if len(handle.FormatterErrors) > 0 {
		return handle, nil
	}

	// one localizer per chain member keeps resolution strictly in chain
	// order instead of go-i18n's best-match heuristic
	localizers := make([]*i18n.Localizer, len(chain))
	for i, code := range chain {
		localizers[i] = i18n.NewLocalizer(bundle, code)
	}

	handle.Formatter = &bundleFormatter{localizers: localizers}
	return handle, nil
}

// loadLocale reads the locale's resource file, trying the hyphenated path
// first and the underscore directory convention second.
func (b *BundleBackend) loadLocale(bundle *i18n.Bundle, source, code string) error {
	var firstErr error

	for _, candidate := range resourcePaths(source, code) {
		data, err := fs.ReadFile(b.fsys, candidate)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("load %s resources from %s: %w", code, candidate, err)
			}
			continue
		}

		synthetic := code + path.Ext(candidate)
		if _, err := bundle.ParseMessageFileBytes(data, synthetic); err != nil {
			return fmt.Errorf("parse %s resources from %s: %w", code, candidate, err)
		}
		return nil
	}

	return firstErr
}

// resourcePaths expands the locale placeholder, preferring the canonical
// hyphenated form and falling back to the underscore form used by hosts
// that cannot serve hyphenated directory names.
func resourcePaths(source, code string) []string {
	primary := fsPath(ExpandPath(source, code))

	underscore := strings.ReplaceAll(code, "-", "_")
	if underscore == code {
		return []string{primary}
	}

	alternate := fsPath(ExpandPath(source, underscore))
	if alternate == primary {
		return []string{primary}
	}
	return []string{primary, alternate}
}

// fsPath adapts a template-derived path to the io/fs convention.
func fsPath(p string) string {
	p = strings.TrimPrefix(p, "./")
	if p == "" {
		return "."
	}
	return path.Clean(p)
}

type bundleFormatter struct {
	localizers []*i18n.Localizer
}

// FormatValue resolves id against each chain member in order and formats it
// with the first member that carries it. A "count" variable doubles as the
// plural count for messages with plural forms. An id absent from every
// member resolves to the id itself; template and plural failures propagate
// as errors.
func (f *bundleFormatter) FormatValue(ctx context.Context, id string, vars Variables) (string, error) {
	cfg := &i18n.LocalizeConfig{MessageID: id}
	if len(vars) > 0 {
		cfg.TemplateData = map[string]any(vars)
		if count, ok := vars["count"]; ok {
			cfg.PluralCount = count
		}
	}

	for _, localizer := range f.localizers {
		value, err := localizer.Localize(cfg)
		if err != nil {
			var notFound *i18n.MessageNotFoundErr
			if errors.As(err, &notFound) {
				continue
			}
			return value, err
		}
		return value, nil
	}

	return id, nil
}

// FormatValues resolves each request in order.
func (f *bundleFormatter) FormatValues(ctx context.Context, msgs []Message) ([]string, error) {
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
