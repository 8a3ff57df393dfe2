// Package requestmeta resolves request scheme and origin facts.
package requestmeta

import (
	"net/http"
	"net/url"
	"strings"
)

// SchemePolicy controls whether X-Forwarded-Proto is trusted. It must be
// enabled explicitly when the site runs behind a proxy.
type SchemePolicy struct {
	TrustForwardedProto bool
}

// IsHTTPS reports whether a request should be treated as HTTPS.
func IsHTTPS(r *http.Request, policy SchemePolicy) bool {
	return Scheme(r, policy) == "https"
}

// Scheme returns "https" or "http" for r.
func Scheme(r *http.Request, policy SchemePolicy) string {
	if r == nil {
		return "http"
	}
	if policy.TrustForwardedProto {
		if forwarded := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); forwarded == "http" || forwarded == "https" {
			return forwarded
		}
	}
	if r.URL != nil {
		if scheme := strings.ToLower(r.URL.Scheme); scheme == "http" || scheme == "https" {
			return scheme
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// SameOriginReferer returns the path and query of the Referer header when it
// points at the request's own origin. Anything else yields "".
func SameOriginReferer(r *http.Request, policy SchemePolicy) string {
	if r == nil {
		return ""
	}
	raw := strings.TrimSpace(r.Header.Get("Referer"))
	if raw == "" {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil || !sameOrigin(ref, r, policy) {
		return ""
	}
	target := ref.EscapedPath()
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		target = "/"
	}
	if ref.RawQuery != "" {
		target += "?" + ref.RawQuery
	}
	return target
}

// HasSameOriginProof reports whether Origin or Referer proves same-origin.
func HasSameOriginProof(r *http.Request, policy SchemePolicy) bool {
	if r == nil {
		return false
	}
	for _, header := range []string{"Origin", "Referer"} {
		raw := strings.TrimSpace(r.Header.Get(header))
		if raw == "" {
			continue
		}
		parsed, err := url.Parse(raw)
		return err == nil && sameOrigin(parsed, r, policy)
	}
	return false
}

func sameOrigin(candidate *url.URL, r *http.Request, policy SchemePolicy) bool {
	scheme := Scheme(r, policy)
	host, port := hostParts(r.Host)
	if host == "" {
		return false
	}
	if port == "" {
		port = defaultPort(scheme)
	}
	candidateScheme := strings.ToLower(candidate.Scheme)
	if candidateScheme != scheme {
		return false
	}
	if strings.ToLower(candidate.Hostname()) != host {
		return false
	}
	candidatePort := candidate.Port()
	if candidatePort == "" {
		candidatePort = defaultPort(candidateScheme)
	}
	return candidatePort == port
}

func defaultPort(scheme string) string {
	switch scheme {
	case "https":
		return "443"
	case "http":
		return "80"
	default:
		return ""
	}
}

func hostParts(rawHost string) (string, string) {
	parsed, err := url.Parse("//" + strings.TrimSpace(rawHost))
	if err != nil {
		return "", ""
	}
	return strings.ToLower(parsed.Hostname()), parsed.Port()
}
