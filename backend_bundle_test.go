package localize

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
)

func bundleFS() fstest.MapFS {
	return fstest.MapFS{
		"locales/en-US/main.toml": &fstest.MapFile{Data: []byte(
			"greeting = \"Hello {{.name}}!\"\n" +
				"farewell = \"Goodbye!\"\n\n" +
				"[cats]\n" +
				"one = \"one cat\"\n" +
				"other = \"{{.count}} cats\"\n",
		)},
		"locales/es-ES/main.toml": &fstest.MapFile{Data: []byte(
			"greeting = \"Hola {{.name}}!\"\n",
		)},
		// hosts that cannot serve hyphenated directories use underscores
		"locales/de_DE/main.toml": &fstest.MapFile{Data: []byte(
			"greeting = \"Hallo {{.name}}!\"\n",
		)},
		"app/en-US.json": &fstest.MapFile{Data: []byte(
			`{"greeting": "Hi {{.name}}"}`,
		)},
		"app/en-US.yaml": &fstest.MapFile{Data: []byte(
			"greeting: \"Hey {{.name}}\"\n",
		)},
		"broken/en-US/main.toml": &fstest.MapFile{Data: []byte(
			"greeting = = nope\n",
		)},
	}
}

func newBundleLocalizer(t *testing.T, template, locale string, fallbacks ...string) *Localizer {
	t.Helper()
	l, err := New(context.Background(), template, locale,
		WithFallbacks(fallbacks...),
		WithBackend(NewBundleBackend(WithBundleFS(bundleFS()))))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func TestBundleBackendToml(t *testing.T) {
	l := newBundleLocalizer(t, "locales/{locale}/main.toml", "en-US")

	got, err := l.Format(context.Background(), "greeting", Variables{"name": "Grace"})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if got != "Hello Grace!" {
		t.Fatalf("Format() = %q", got)
	}

	got, err = l.Format(context.Background(), "farewell", nil)
	if err != nil || got != "Goodbye!" {
		t.Fatalf("Format() = %q, %v", got, err)
	}
}

func TestBundleBackendChainResolution(t *testing.T) {
	l := newBundleLocalizer(t, "locales/{locale}/main.toml", "es_ES", "en_US")

	// primary carries the greeting
	got, err := l.Format(context.Background(), "greeting", Variables{"name": "Ana"})
	if err != nil || got != "Hola Ana!" {
		t.Fatalf("Format() = %q, %v", got, err)
	}

	// farewell only exists in the fallback
	got, err = l.Format(context.Background(), "farewell", nil)
	if err != nil || got != "Goodbye!" {
		t.Fatalf("Format() = %q, %v", got, err)
	}

	// absent everywhere resolves to the id
	got, err = l.Format(context.Background(), "no.such.id", nil)
	if err != nil || got != "no.such.id" {
		t.Fatalf("Format() = %q, %v", got, err)
	}
}

func TestBundleBackendUnderscoreDirectory(t *testing.T) {
	l := newBundleLocalizer(t, "locales/{locale}/main.toml", "de-DE")

	got, err := l.Format(context.Background(), "greeting", Variables{"name": "Jurgen"})
	if err != nil || got != "Hallo Jurgen!" {
		t.Fatalf("Format() = %q, %v", got, err)
	}
}

func TestBundleBackendPluralForms(t *testing.T) {
	l := newBundleLocalizer(t, "locales/{locale}/main.toml", "en-US")

	got, err := l.Format(context.Background(), "cats", Variables{"count": 1})
	if err != nil || got != "one cat" {
		t.Fatalf("Format() = %q, %v", got, err)
	}

	got, err = l.Format(context.Background(), "cats", Variables{"count": 3})
	if err != nil || got != "3 cats" {
		t.Fatalf("Format() = %q, %v", got, err)
	}
}

func TestBundleBackendJSONAndYAML(t *testing.T) {
	tests := []struct {
		template string
		want     string
	}{
		{template: "app/{locale}.json", want: "Hi Grace"},
		{template: "app/{locale}.yaml", want: "Hey Grace"},
	}

	for _, tc := range tests {
		t.Run(tc.template, func(t *testing.T) {
			l := newBundleLocalizer(t, tc.template, "en-US")

			got, err := l.Format(context.Background(), "greeting", Variables{"name": "Grace"})
			if err != nil || got != tc.want {
				t.Fatalf("Format() = %q, %v", got, err)
			}
		})
	}
}

func TestBundleBackendMissingResource(t *testing.T) {
	backend := NewBundleBackend(WithBundleFS(bundleFS()))

	handle, err := backend.Init(context.Background(),
		"locales/{locale}/main.toml", NewChain("sw-KE"))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if len(handle.FormatterErrors) == 0 {
		t.Fatal("expected a load error for the missing resource")
	}
	if !errors.Is(handle.FormatterErrors[0], fs.ErrNotExist) {
		t.Fatalf("load error = %v, want wrapped fs.ErrNotExist", handle.FormatterErrors[0])
	}
	if handle.Formatter != nil {
		t.Fatal("no formatter may be produced from a failed load")
	}

	_, err = New(context.Background(), "locales/{locale}/main.toml", "sw-KE",
		WithBackend(backend))
	if !errors.Is(err, ErrInitialization) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("New error = %v", err)
	}
}

func TestBundleBackendStrictChainLoading(t *testing.T) {
	backend := NewBundleBackend(WithBundleFS(bundleFS()))

	// the primary loads fine; a broken fallback still fails the whole chain
	handle, err := backend.Init(context.Background(),
		"locales/{locale}/main.toml", NewChain("en-US", "sw-KE"))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if len(handle.FormatterErrors) != 1 {
		t.Fatalf("FormatterErrors = %v", handle.FormatterErrors)
	}
	if handle.Formatter != nil {
		t.Fatal("no formatter may be produced from a partial load")
	}
}

func TestBundleBackendParseError(t *testing.T) {
	backend := NewBundleBackend(WithBundleFS(bundleFS()))

	handle, err := backend.Init(context.Background(),
		"broken/{locale}/main.toml", NewChain("en-US"))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if len(handle.FormatterErrors) == 0 {
		t.Fatal("expected a parse error")
	}
	if msg := handle.FormatterErrors[0].Error(); !strings.Contains(msg, "broken/en-US/main.toml") {
		t.Fatalf("parse error should name the file: %v", msg)
	}
}

func TestBundleBackendBatch(t *testing.T) {
	l := newBundleLocalizer(t, "locales/{locale}/main.toml", "es-ES", "en-US")

	var greeting, farewell string
	values, err := l.FormatMessages(context.Background(),
		BoundMessage(Field(&greeting), "greeting", Variables{"name": "Ana"}),
		BoundMessage(Field(&farewell), "farewell", nil),
	)
	if err != nil {
		t.Fatalf("FormatMessages: %v", err)
	}

	if len(values) != 2 || values[0] != "Hola Ana!" || values[1] != "Goodbye!" {
		t.Fatalf("FormatMessages() = %v", values)
	}
	if greeting != "Hola Ana!" || farewell != "Goodbye!" {
		t.Fatalf("bindings = %q, %q", greeting, farewell)
	}
}

func TestResourcePaths(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   string
		want   []string
	}{
		{
			name:   "region code gets an underscore alternate",
			source: "locales/{locale}/main.toml",
			code:   "de-DE",
			want:   []string{"locales/de-DE/main.toml", "locales/de_DE/main.toml"},
		},
		{
			name:   "bare language has a single candidate",
			source: "locales/{locale}/main.toml",
			code:   "fr",
			want:   []string{"locales/fr/main.toml"},
		},
		{
			name:   "leading dot-slash is dropped",
			source: "./app/{locale}.json",
			code:   "en",
			want:   []string{"app/en.json"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := resourcePaths(tc.source, tc.code)
			if len(got) != len(tc.want) {
				t.Fatalf("resourcePaths() = %v want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("resourcePaths()[%d] = %q want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}
