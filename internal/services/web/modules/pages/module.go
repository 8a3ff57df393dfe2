// Package pages renders CMS content pages.
package pages

import (
	"fmt"
	"net/http"

	module "github.com/uslusolutions/clinicweb/internal/services/web/module"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/pagerender"
	"github.com/uslusolutions/clinicweb/internal/services/web/routepath"
)

// Module serves the home page and every other CMS route.
type Module struct {
	content  module.ContentReader
	renderer *pagerender.Renderer
}

// New returns a pages module.
func New(content module.ContentReader, renderer *pagerender.Renderer) Module {
	return Module{content: content, renderer: renderer}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "pages" }

// Mount wires page route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.content == nil {
		return module.Mount{}, fmt.Errorf("content reader is required")
	}
	if m.renderer == nil {
		return module.Mount{}, fmt.Errorf("page renderer is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{content: m.content, renderer: m.renderer})
	return module.Mount{Paths: []string{routepath.Root}, Handler: mux}, nil
}
