// Package i18n holds the user-facing messages in English and Japanese.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

// Key identifies a translatable message.
type Key string

var supportedTags = []language.Tag{
	language.English,
	language.Japanese,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Default returns the default language tag.
func Default() language.Tag {
	return language.English
}

// ParseTag returns the supported tag for value ("en", "ja", "ja-JP", ...).
func ParseTag(value string) (language.Tag, bool) {
	parsed, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return language.Tag{}, false
	}
	base, _ := parsed.Base()
	for _, tag := range supportedTags {
		if b, _ := tag.Base(); b == base {
			return tag, true
		}
	}
	return language.Tag{}, false
}

// Match picks the best supported tag for an Accept-Language header value.
func Match(accept string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return Default()
	}
	_, idx, conf := tagMatcher.Match(tags...)
	if conf == language.No {
		return Default()
	}
	return supportedTags[idx]
}

// Code returns the short code ("en" or "ja") stored in preferences.
func Code(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// ResolveTag determines the language for a request: the lang query
// parameter first, then the stored preference, then Accept-Language.
func ResolveTag(r *http.Request, preferred string) language.Tag {
	if r != nil {
		if tag, ok := ParseTag(r.URL.Query().Get(LangParam)); ok {
			return tag
		}
	}
	if tag, ok := ParseTag(preferred); ok {
		return tag
	}
	if r != nil {
		if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
			return Match(accept)
		}
	}
	return Default()
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// T translates key into tag's language.
func T(tag language.Tag, key Key, args ...any) string {
	return Printer(tag).Sprintf(string(key), args...)
}
