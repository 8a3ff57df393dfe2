// Package templates renders the site shell and the non-CMS pages.
package templates

import (
	"strings"

	"github.com/uslusolutions/clinicweb/internal/services/shared/i18nhttp"
)

// Localizer resolves catalog messages.
type Localizer = i18nhttp.Localizer

// T returns the localized message for key, or fallback when the catalog has
// no entry.
func T(loc Localizer, key, fallback string) string {
	if loc == nil {
		return fallback
	}
	if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" && localized != key {
		return localized
	}
	return fallback
}
