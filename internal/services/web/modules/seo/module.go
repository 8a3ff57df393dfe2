// Package seo serves the crawler endpoints: the XML sitemap and robots.txt.
package seo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/uslusolutions/clinicweb/internal/services/web/content"
	module "github.com/uslusolutions/clinicweb/internal/services/web/module"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/requestmeta"
	"github.com/uslusolutions/clinicweb/internal/services/web/routepath"
)

// RouteSource lists the crawlable CMS routes.
type RouteSource interface {
	Routes(ctx context.Context) []content.SiteRoute
}

// Module serves sitemap.xml and robots.txt.
type Module struct {
	routes  RouteSource
	siteURL string
	scheme  requestmeta.SchemePolicy
}

// New returns an seo module. When siteURL is blank, absolute URLs are
// built from the request origin.
func New(routes RouteSource, siteURL string, scheme requestmeta.SchemePolicy) Module {
	return Module{routes: routes, siteURL: siteURL, scheme: scheme}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "seo" }

// Mount wires crawler route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.routes == nil {
		return module.Mount{}, fmt.Errorf("route source is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{routes: m.routes, siteURL: m.siteURL, scheme: m.scheme})
	return module.Mount{Paths: []string{routepath.Sitemap, routepath.Robots}, Handler: mux}, nil
}
