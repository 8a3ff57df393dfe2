package analytics

import (
	"github.com/uslusolutions/clinicweb/internal/platform/urlpath"
	"github.com/uslusolutions/clinicweb/internal/services/web/content"
)

// PageContext describes the page an event happened on.
type PageContext struct {
	PagePath      string   `json:"pagePath"`
	PageTitle     string   `json:"pageTitle,omitempty"`
	NodeID        string   `json:"nodeId,omitempty"`
	NodeType      string   `json:"nodeType,omitempty"`
	Locale        string   `json:"locale,omitempty"`
	SiteSection   string   `json:"siteSection,omitempty"`
	RouteSegments []string `json:"routeSegments,omitempty"`
	CanonicalURL  string   `json:"canonicalUrl,omitempty"`
}

// ContextOptions tune PageContextFromContent.
type ContextOptions struct {
	FallbackPath  string
	OverrideTitle string
	Locale        string
	SiteURL       string
}

// PageContextFromContent derives the page context from a content node. A
// nil node or one without a route falls back to opts.FallbackPath.
func PageContextFromContent(c *content.Content, opts ContextOptions) PageContext {
	path := opts.FallbackPath
	var ctx PageContext
	if c != nil {
		if c.Route.Path != "" {
			path = c.Route.Path
		}
		ctx.PageTitle = c.Name
		ctx.NodeID = c.ID
		ctx.NodeType = c.ContentType
		ctx.Locale = c.Route.Culture
	}
	ctx.PagePath = urlpath.NormalizeCanonicalPath(path)
	if opts.OverrideTitle != "" {
		ctx.PageTitle = opts.OverrideTitle
	}
	if opts.Locale != "" {
		ctx.Locale = opts.Locale
	}
	ctx.RouteSegments = urlpath.Segments(ctx.PagePath)
	ctx.SiteSection = "home"
	if len(ctx.RouteSegments) > 0 {
		ctx.SiteSection = ctx.RouteSegments[0]
	}
	ctx.CanonicalURL = urlpath.CanonicalURL(opts.SiteURL, ctx.PagePath)
	return ctx
}
