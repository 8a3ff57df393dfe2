// Package textcase converts labels and identifiers between letter cases.
package textcase

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	acronymBoundary = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	lowerUpper      = regexp.MustCompile(`([a-z\d])([A-Z])`)
	titleSeparators = regexp.MustCompile(`[_\-]+`)
	kebabSeparators = regexp.MustCompile(`[\s_]+`)
)

// TitleCase treats hyphens and underscores as spaces, then capitalizes each
// word and lower-cases the rest of it.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(titleSeparators.ReplaceAllString(s, " "))
}

// KebabCase converts s to kebab-case, splitting acronym runs so
// "XMLHttpRequest" becomes "xml-http-request".
func KebabCase(s string) string {
	s = acronymBoundary.ReplaceAllString(s, "${1}-${2}")
	s = lowerUpper.ReplaceAllString(s, "${1}-${2}")
	s = cases.Lower(language.Und).String(kebabSeparators.ReplaceAllString(s, "-"))
	return strings.Trim(s, "-")
}
