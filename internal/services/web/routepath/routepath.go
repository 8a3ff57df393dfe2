// Package routepath holds the site's fixed route paths.
package routepath

const (
	Root         = "/"
	Health       = "/up"
	StaticPrefix = "/static/"
	Contact      = "/api/contact"
	Consent      = "/consent"
	Cookies      = "/cookies"
	Sitemap      = "/sitemap.xml"
	Robots       = "/robots.txt"
	// Demo is a non-CMS page listed in the sitemap.
	Demo = "/demo"
)

// StaticSitemapPaths are the non-CMS pages the sitemap always lists.
var StaticSitemapPaths = []string{Demo}
