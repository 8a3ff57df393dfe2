package pages

import (
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/uslusolutions/clinicweb/internal/platform/urlpath"
	"github.com/uslusolutions/clinicweb/internal/services/shared/route"
	"github.com/uslusolutions/clinicweb/internal/services/web/content"
	module "github.com/uslusolutions/clinicweb/internal/services/web/module"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/pagerender"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/weberror"
	"github.com/uslusolutions/clinicweb/internal/services/web/templates"
)

type handlers struct {
	content  module.ContentReader
	renderer *pagerender.Renderer
}

func (h handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	home, ok := h.content.Home(r.Context())
	if !ok {
		weberror.WriteAppError(w, r, http.StatusNotFound, h.renderer)
		return
	}
	view := h.renderer.NewView(w, r, home)
	body := view.Blocks.RenderList(content.Blocks(home))
	h.write(w, r, view, http.StatusOK, pageTitle(home), body)
}

func (h handlers) handleContent(w http.ResponseWriter, r *http.Request) {
	if route.RedirectTrailingSlash(w, r) {
		return
	}
	node, ok := h.content.ByRoute(r.Context(), r.PathValue("slug"))
	if !ok {
		weberror.WriteAppError(w, r, http.StatusNotFound, h.renderer)
		return
	}
	view := h.renderer.NewView(w, r, node)
	crumbPath := node.Route.Path
	if strings.TrimSpace(crumbPath) == "" {
		crumbPath = r.URL.Path
	}
	homeLabel := templates.T(view.Loc, "site.home", "Forside")

	title := node.Properties.String("title")
	if title == "" {
		title = node.Name
	}
	var contentArea templ.Component
	if text := node.Properties.RichText("contentArea"); strings.TrimSpace(text.Markup) != "" {
		contentArea = view.Blocks.RichText(text)
	}
	body := templates.ContentPage(templates.ContentPageView{
		Title:       title,
		Breadcrumbs: templates.Breadcrumbs(urlpath.Breadcrumbs(crumbPath, homeLabel), view.Loc),
		ContentArea: contentArea,
		Blocks:      view.Blocks.RenderList(content.Blocks(node)),
	})
	h.write(w, r, view, http.StatusOK, pageTitle(node), body)
}

func (h handlers) write(w http.ResponseWriter, r *http.Request, view *pagerender.View, status int, title string, body templ.Component) {
	if err := view.Write(w, status, title, body); err != nil {
		log.Printf("pages: render path=%s err=%v", r.URL.Path, err)
		weberror.WriteAppError(w, r, http.StatusInternalServerError, h.renderer)
	}
}

// pageTitle prefers the editor's meta title over the node name.
func pageTitle(node *content.Content) string {
	if node == nil {
		return ""
	}
	if title := node.Properties.String("metaTitle"); title != "" {
		return title
	}
	return node.Name
}
