// Package urlpath normalizes site paths and builds absolute URLs for the
// public site and CMS media.
package urlpath

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/uslusolutions/clinicweb/internal/platform/textcase"
)

// NormalizeCanonicalPath lower-cases p and reduces it to a single leading
// slash with no trailing slash. Blank input maps to "/".
func NormalizeCanonicalPath(p string) string {
	trimmed := strings.Trim(strings.TrimSpace(p), "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + strings.ToLower(trimmed)
}

// Segments splits a path into its non-empty segments.
func Segments(p string) []string {
	var out []string
	for _, part := range strings.Split(p, "/") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SanitizeSiteURL trims v, defaults the scheme to https and drops trailing slashes.
func SanitizeSiteURL(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !hasHTTPScheme(v) {
		v = "https://" + v
	}
	return strings.TrimRight(v, "/")
}

// CanonicalURL joins the site base URL with the normalized path. It returns
// "" when no base is configured.
func CanonicalURL(base, p string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}
	return base + NormalizeCanonicalPath(p)
}

// MediaURL resolves a CMS media path against the media base URL. Absolute
// http(s) paths pass through.
func MediaURL(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if hasHTTPScheme(p) {
		return p
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return base + p
}

// IsAbsoluteHTTP reports whether v parses as an absolute http or https URL with a host.
func IsAbsoluteHTTP(v string) bool {
	parsed, err := url.Parse(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

var (
	relativeImgSrc  = regexp.MustCompile(`(?i)(<img[^>]+src=["'])/([^/"'][^"']*)(["'])`)
	relativeAnchorH = regexp.MustCompile(`(?i)(<a[^>]+href=["'])/([^/"'][^"']*)(["'])`)
)

// FixRelativeURLs prefixes root-relative img src and anchor href attributes
// in html with base. Protocol-relative URLs are left alone.
func FixRelativeURLs(base, html string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" || html == "" {
		return html
	}
	replacement := "${1}" + strings.ReplaceAll(base, "$", "$$") + "/${2}${3}"
	html = relativeImgSrc.ReplaceAllString(html, replacement)
	return relativeAnchorH.ReplaceAllString(html, replacement)
}

// Crumb is one breadcrumb entry.
type Crumb struct {
	Label string
	Href  string
}

// Breadcrumbs returns a Home crumb followed by one crumb per path segment.
// Segment labels are unescaped, de-hyphenated and title-cased.
func Breadcrumbs(p, homeLabel string) []Crumb {
	if strings.TrimSpace(homeLabel) == "" {
		homeLabel = "Home"
	}
	segments := Segments(p)
	crumbs := make([]Crumb, 0, len(segments)+1)
	crumbs = append(crumbs, Crumb{Label: homeLabel, Href: "/"})
	href := ""
	for _, segment := range segments {
		href += "/" + segment
		label := strings.ReplaceAll(segment, "-", " ")
		if unescaped, err := url.PathUnescape(label); err == nil {
			label = unescaped
		}
		crumbs = append(crumbs, Crumb{Label: textcase.TitleCase(label), Href: href})
	}
	return crumbs
}

func hasHTTPScheme(v string) bool {
	return strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://")
}
