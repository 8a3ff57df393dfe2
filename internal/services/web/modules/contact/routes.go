package contact

import (
	"net/http"

	"github.com/uslusolutions/clinicweb/internal/services/web/platform/httpx"
	"github.com/uslusolutions/clinicweb/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodPost+" "+routepath.Contact, h.handleSubmit)
	mux.HandleFunc(http.MethodGet+" "+routepath.Contact, httpx.MethodNotAllowed(http.MethodPost))
}
