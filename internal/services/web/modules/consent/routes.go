package consent

import (
	"net/http"

	"github.com/uslusolutions/clinicweb/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Consent, h.handleState)
	mux.HandleFunc(http.MethodPost+" "+routepath.Consent, h.handleUpdate)
	mux.HandleFunc(http.MethodGet+" "+routepath.Cookies, h.handleCookiesPage)
}
