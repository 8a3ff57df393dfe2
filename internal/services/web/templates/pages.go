package templates

import (
	"context"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/uslusolutions/clinicweb/internal/platform/urlpath"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/markup"
)

// Breadcrumbs renders a trail. The last crumb is the current page and is
// not linked.
func Breadcrumbs(crumbs []urlpath.Crumb, loc Localizer) templ.Component {
	if len(crumbs) < 2 {
		return templ.NopComponent
	}
	return markup.Func(func(_ context.Context, w *markup.Writer) {
		w.Open("nav", markup.Class("breadcrumbs"), markup.A("aria-label", T(loc, "site.breadcrumbs", "Brødkrummer")))
		w.Open("ol")
		for i, crumb := range crumbs {
			w.Open("li")
			if i == len(crumbs)-1 {
				w.Element("span", crumb.Label, markup.A("aria-current", "page"))
			} else {
				w.Element("a", crumb.Label, markup.Href(crumb.Href))
			}
			w.Close("li")
		}
		w.Close("ol")
		w.Close("nav")
	})
}

// ContentPageView is a CMS content page below the shell.
type ContentPageView struct {
	Title       string
	Breadcrumbs templ.Component
	ContentArea templ.Component
	Blocks      templ.Component
}

// ContentPage renders a content page: breadcrumbs, title, body text, blocks.
func ContentPage(view ContentPageView) templ.Component {
	return markup.Func(func(ctx context.Context, w *markup.Writer) {
		w.Open("article", markup.Class("content-page"))
		w.Component(ctx, view.Breadcrumbs)
		w.OptElement("h1", view.Title, markup.Class("content-page__title"))
		if view.ContentArea != nil {
			w.Open("div", markup.Class("rich-text content-page__body"))
			w.Component(ctx, view.ContentArea)
			w.Close("div")
		}
		w.Component(ctx, view.Blocks)
		w.Close("article")
	})
}

// ErrorPageTitle returns the title for an error status.
func ErrorPageTitle(statusCode int, loc Localizer) string {
	if statusCode == http.StatusNotFound {
		return T(loc, "site.not_found_title", "Siden blev ikke fundet")
	}
	return T(loc, "site.error_title", "Der opstod en fejl")
}

// ErrorState renders the body of an error page.
func ErrorState(statusCode int, loc Localizer) templ.Component {
	body := T(loc, "site.error_body", "Vi kunne ikke vise siden lige nu. Prøv igen om lidt.")
	if statusCode == http.StatusNotFound {
		body = T(loc, "site.not_found_body", "Siden du leder efter findes ikke eller er blevet flyttet.")
	}
	return markup.Func(func(_ context.Context, w *markup.Writer) {
		w.Open("section", markup.Class("error-state"), markup.A("data-status", strconv.Itoa(statusCode)))
		w.Element("p", strconv.Itoa(statusCode), markup.Class("error-state__code"))
		w.Element("h1", ErrorPageTitle(statusCode, loc))
		w.Element("p", body)
		w.Element("a", T(loc, "site.back_home", "Til forsiden"), markup.Href("/"), markup.Class("button button--primary"))
		w.Close("section")
	})
}
