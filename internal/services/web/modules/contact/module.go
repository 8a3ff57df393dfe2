package contact

import (
	"fmt"
	"net/http"

	contactsvc "github.com/uslusolutions/clinicweb/internal/services/web/contact"
	module "github.com/uslusolutions/clinicweb/internal/services/web/module"
	"github.com/uslusolutions/clinicweb/internal/services/web/routepath"
)

// Module serves the contact form endpoint.
type Module struct {
	service *contactsvc.Service
}

// New returns a contact module.
func New(service *contactsvc.Service) Module { return Module{service: service} }

// ID returns a stable module identifier.
func (Module) ID() string { return "contact" }

// Mount wires contact route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.service == nil {
		return module.Mount{}, fmt.Errorf("contact service is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{service: m.service})
	return module.Mount{Paths: []string{routepath.Contact}, Handler: mux}, nil
}
