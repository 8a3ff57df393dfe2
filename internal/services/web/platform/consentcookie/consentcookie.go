// Package consentcookie persists the visitor's consent choice in cookies.
package consentcookie

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/uslusolutions/clinicweb/internal/services/web/analytics"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/requestmeta"
)

const (
	// ConsentName stores "granted" or "denied".
	ConsentName = "analytics_consent"
	// PreferencesName stores the JSON-encoded cookie preferences.
	PreferencesName = "cookie_preferences"
	// MaxAge keeps a choice for one year.
	MaxAge = 365 * 24 * time.Hour
)

// Read returns the effective decision stored on r. Missing or malformed
// cookies yield the denied defaults with consent unset.
func Read(r *http.Request) analytics.Decision {
	if r == nil {
		return analytics.Resolve(analytics.ConsentUnset, analytics.DefaultPreferences)
	}
	consent := analytics.ParseConsent(value(r, ConsentName))
	prefs, _ := analytics.ParsePreferences(value(r, PreferencesName))
	return analytics.Resolve(consent, prefs)
}

// Write stores decision. An unset decision clears both cookies.
func Write(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy, decision analytics.Decision) {
	if w == nil {
		return
	}
	if decision.Consent == analytics.ConsentUnset {
		Clear(w, r, policy)
		return
	}
	secure := requestmeta.IsHTTPS(r, policy)
	http.SetCookie(w, cookie(ConsentName, string(decision.Consent), secure, int(MaxAge.Seconds())))
	http.SetCookie(w, cookie(PreferencesName, url.QueryEscape(decision.Preferences.Encode()), secure, int(MaxAge.Seconds())))
}

// Clear expires both consent cookies so the banner shows again.
func Clear(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	secure := requestmeta.IsHTTPS(r, policy)
	http.SetCookie(w, cookie(ConsentName, "", secure, -1))
	http.SetCookie(w, cookie(PreferencesName, "", secure, -1))
}

func cookie(name, value string, secure bool, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func value(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil || c == nil {
		return ""
	}
	raw := strings.TrimSpace(c.Value)
	if unescaped, err := url.QueryUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}
