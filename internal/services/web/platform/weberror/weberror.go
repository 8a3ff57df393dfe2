// Package weberror renders site-shell error responses for web modules.
package weberror

import (
	"log"
	"net/http"
	"strings"

	"github.com/uslusolutions/clinicweb/internal/services/shared/i18nhttp"
	apperrors "github.com/uslusolutions/clinicweb/internal/services/web/platform/errors"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/pagerender"
	"github.com/uslusolutions/clinicweb/internal/services/web/templates"
)

// ShouldRenderAppError reports whether status should use the error page.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc i18nhttp.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" && localized != key {
				return localized
			}
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	return http.StatusText(statusCode)
}

// WriteAppError writes the localized error page inside the site shell.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, renderer *pagerender.Renderer) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	if renderer == nil {
		renderer = &pagerender.Renderer{}
	}
	view := renderer.NewView(w, r, nil)
	title := templates.ErrorPageTitle(statusCode, view.Loc)
	if err := view.Write(w, statusCode, title, templates.ErrorState(statusCode, view.Loc)); err != nil {
		log.Printf("web: render error page status=%d err=%v", statusCode, err)
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WriteModuleError maps err to a status and writes either the error page or
// a plain localized message.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, renderer *pagerender.Renderer) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, statusCode, renderer)
		return
	}
	tag, _ := i18nhttp.ResolveTag(r)
	http.Error(w, PublicMessage(i18nhttp.Printer(tag), err), statusCode)
}
