// Package i18n resolves the site's supported languages.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var (
	supported = []language.Tag{language.Danish, language.English}
	matcher   = language.NewMatcher(supported)
)

// SupportedTags returns the languages the site has catalogs for; the first is the default.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// DefaultTag returns the fallback language.
func DefaultTag() language.Tag {
	return supported[0]
}

// ParseTag parses value and reports whether it names a supported language.
// Regional variants ("en-GB") collapse to their supported base.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultTag(), false
	}
	matched, _, confidence := matcher.Match(tag)
	if confidence < language.High {
		return DefaultTag(), false
	}
	return baseTag(matched), true
}

// MatchTags picks the best supported language for a preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	matched, _, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return baseTag(matched)
}

// Locale returns the catalog locale name for tag.
func Locale(tag language.Tag) string {
	return baseTag(tag).String()
}

func baseTag(tag language.Tag) language.Tag {
	base, _ := tag.Base()
	for _, candidate := range supported {
		if b, _ := candidate.Base(); b == base {
			return candidate
		}
	}
	return DefaultTag()
}
