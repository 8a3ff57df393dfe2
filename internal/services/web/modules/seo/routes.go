package seo

import (
	"net/http"

	"github.com/uslusolutions/clinicweb/internal/services/web/platform/httpx"
	"github.com/uslusolutions/clinicweb/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Sitemap, h.handleSitemap)
	mux.HandleFunc(http.MethodGet+" "+routepath.Robots, h.handleRobots)
	mux.HandleFunc(routepath.Sitemap, httpx.MethodNotAllowed(http.MethodGet+", "+http.MethodHead))
	mux.HandleFunc(routepath.Robots, httpx.MethodNotAllowed(http.MethodGet+", "+http.MethodHead))
}
