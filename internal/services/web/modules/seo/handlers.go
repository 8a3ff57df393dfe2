package seo

import (
	"bytes"
	"encoding/xml"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/uslusolutions/clinicweb/internal/platform/urlpath"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/httpx"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/requestmeta"
	"github.com/uslusolutions/clinicweb/internal/services/web/routepath"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type handlers struct {
	routes  RouteSource
	siteURL string
	scheme  requestmeta.SchemePolicy
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (h handlers) handleSitemap(w http.ResponseWriter, r *http.Request) {
	base := h.baseURL(r)
	set := urlSet{XMLNS: sitemapNamespace}
	seen := make(map[string]struct{})
	add := func(path string, lastModified time.Time) {
		loc := urlpath.CanonicalURL(base, path)
		if loc == "" {
			return
		}
		if _, ok := seen[loc]; ok {
			return
		}
		seen[loc] = struct{}{}
		entry := sitemapURL{Loc: loc}
		if !lastModified.IsZero() {
			entry.LastMod = lastModified.UTC().Format(time.RFC3339)
		}
		set.URLs = append(set.URLs, entry)
	}

	add(routepath.Root, time.Time{})
	for _, route := range h.routes.Routes(r.Context()) {
		modified, _ := route.LastModifiedTime()
		add(route.Path, modified)
	}
	for _, path := range routepath.StaticSitemapPaths {
		add(path, time.Time{})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		log.Printf("seo: encode sitemap: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	buf.WriteByte('\n')
	_ = httpx.WriteText(w, http.StatusOK, "application/xml; charset=utf-8", buf.String())
}

func (h handlers) handleRobots(w http.ResponseWriter, r *http.Request) {
	base := h.baseURL(r)
	var b strings.Builder
	b.WriteString("User-Agent: *\nAllow: /\n")
	if sitemap := urlpath.CanonicalURL(base, routepath.Sitemap); sitemap != "" {
		b.WriteString("\nSitemap: " + sitemap + "\n")
	}
	if parsed, err := url.Parse(base); err == nil && parsed.Host != "" {
		b.WriteString("Host: " + parsed.Host + "\n")
	}
	_ = httpx.WriteText(w, http.StatusOK, "text/plain; charset=utf-8", b.String())
}

// baseURL prefers the configured site URL and falls back to the request
// origin.
func (h handlers) baseURL(r *http.Request) string {
	if base := urlpath.SanitizeSiteURL(h.siteURL); base != "" {
		return base
	}
	if r == nil || strings.TrimSpace(r.Host) == "" {
		return ""
	}
	return requestmeta.Scheme(r, h.scheme) + "://" + r.Host
}
