// Package module defines the feature contract used by web composition.
package module

import (
	"context"
	"net/http"

	"github.com/uslusolutions/clinicweb/internal/services/web/content"
)

// Mount describes the paths a module serves. A path ending in "/" owns its
// subtree; other paths match exactly.
type Mount struct {
	Paths   []string
	Handler http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// ContentReader is the CMS read surface shared by page modules.
type ContentReader interface {
	Home(ctx context.Context) (*content.Content, bool)
	ByRoute(ctx context.Context, route string) (*content.Content, bool)
	Site(ctx context.Context) content.Site
	Routes(ctx context.Context) []content.SiteRoute
}

var _ ContentReader = (*content.Repository)(nil)
