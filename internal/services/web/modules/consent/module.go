// Package consent serves the cookie consent endpoints and preferences page.
package consent

import (
	"fmt"
	"net/http"

	module "github.com/uslusolutions/clinicweb/internal/services/web/module"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/pagerender"
	"github.com/uslusolutions/clinicweb/internal/services/web/routepath"
)

// Module provides consent routes.
type Module struct {
	renderer *pagerender.Renderer
}

// New returns a consent module.
func New(renderer *pagerender.Renderer) Module { return Module{renderer: renderer} }

// ID returns a stable module identifier.
func (Module) ID() string { return "consent" }

// Mount wires consent route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.renderer == nil {
		return module.Mount{}, fmt.Errorf("page renderer is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{renderer: m.renderer})
	return module.Mount{Paths: []string{routepath.Consent, routepath.Cookies}, Handler: mux}, nil
}
