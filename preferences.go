package localize

import (
	"errors"
	"fmt"

	"github.com/Xuanwo/go-locale"
	"golang.org/x/text/language"
)

// LocaleQuery asks the host environment for the user's ranked locale
// preferences, most preferred first.
type LocaleQuery func() ([]language.Tag, error)

// detection goes through package vars so tests can stand in for the host
var (
	detectAll = locale.DetectAll
	detect    = locale.Detect
)

// HostLocaleQuery queries the operating environment: LANGUAGE/LC_ALL style
// variables on POSIX systems, native APIs elsewhere. Hosts that report only
// a single locale are wrapped into a one-element sequence.
func HostLocaleQuery() ([]language.Tag, error) {
	tags, err := detectAll()
	if err == nil && len(tags) > 0 {
		return tags, nil
	}

	tag, derr := detect()
	if derr != nil {
		if err == nil {
			err = derr
		}
		return nil, err
	}

	return []language.Tag{tag}, nil
}

// PreferredLocales returns the host's ranked locale preferences as canonical
// tags, most preferred first. When detection fails and fallback is
// non-empty, the normalized fallback is returned as a one-element sequence
// instead of the error.
func PreferredLocales(fallback string) ([]string, error) {
	return preferredLocales(HostLocaleQuery, fallback)
}

func preferredLocales(query LocaleQuery, fallback string) ([]string, error) {
	if query == nil {
		query = HostLocaleQuery
	}

	tags, err := query()
	if err == nil && len(tags) == 0 {
		err = errors.New("no locales reported")
	}
	if err != nil {
		if fallback != "" {
			return []string{Normalize(fallback)}, nil
		}
		return nil, fmt.Errorf("localize: detect preferred locales: %w", err)
	}

	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.String())
	}
	return out, nil
}
