// Package route holds request path canonicalization shared by page handlers.
package route

import (
	"net/http"
	"strings"
)

// RedirectTrailingSlash sends a permanent redirect to the same path without
// trailing slashes, keeping the query string. The root path never redirects.
//
// It returns true when a redirect was written; the caller must stop.
func RedirectTrailingSlash(w http.ResponseWriter, r *http.Request) bool {
	if w == nil || r == nil || r.URL == nil {
		return false
	}
	path := r.URL.Path
	canonical := strings.TrimRight(path, "/")
	if canonical == "" || canonical == path {
		return false
	}
	// Collapse a leading "//" so the Location stays same-origin.
	canonical = "/" + strings.TrimLeft(canonical, "/")
	if r.URL.RawQuery != "" {
		canonical += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, canonical, http.StatusPermanentRedirect)
	return true
}
