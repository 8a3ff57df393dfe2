package templates

import (
	"context"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/uslusolutions/clinicweb/internal/platform/icons"
	"github.com/uslusolutions/clinicweb/internal/platform/urlpath"
	"github.com/uslusolutions/clinicweb/internal/services/shared/i18nhttp"
	"github.com/uslusolutions/clinicweb/internal/services/web/analytics"
	"github.com/uslusolutions/clinicweb/internal/services/web/content"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/markup"
	"github.com/uslusolutions/clinicweb/internal/services/web/routepath"
)

// Static asset paths referenced by every page.
const (
	StylesheetPath = routepath.StaticPrefix + "site.css"
	ScriptPath     = routepath.StaticPrefix + "site.js"
	mainContentID  = "main-content"
)

// LayoutData is everything the page shell needs.
type LayoutData struct {
	Title       string
	Lang        string
	SiteName    string
	LogoURL     string
	CurrentPath string
	Navigation  []content.NavigationItem
	Languages   []i18nhttp.LanguageOption
	Footer      templ.Component
	Consent     analytics.Decision
	Scripts     analytics.Scripts
	Page        analytics.PageContext
	Loc         Localizer
}

// Layout wraps the children in the site shell. Without navigation the shell
// drops the header and footer.
func Layout(data LayoutData) templ.Component {
	return markup.Func(func(ctx context.Context, w *markup.Writer) {
		lang := data.Lang
		if lang == "" {
			lang = "da"
		}
		w.Raw("<!DOCTYPE html>")
		w.Open("html", markup.A("lang", lang))
		head(ctx, w, data)
		w.Open("body", markup.A("data-consent-state", consentAttr(data.Consent.Consent)))
		w.Raw(icons.LucideSprite())
		bare := len(data.Navigation) == 0
		if !bare {
			w.Element("a", T(data.Loc, "site.skip_to_content", "Gå til indhold"), markup.Href("#"+mainContentID), markup.Class("skip-link"))
			header(w, data)
		}
		w.Open("main", markup.A("id", mainContentID))
		w.Component(ctx, templ.GetChildren(ctx))
		w.Close("main")
		if !bare && data.Footer != nil {
			w.Component(ctx, data.Footer)
		}
		w.Component(ctx, ConsentBanner(data.Consent, data.Loc))
		w.Component(ctx, templ.JSONScript("page-context", data.Page))
		w.Open("script", markup.Src(ScriptPath), markup.Bool("defer", true))
		w.Close("script")
		w.Close("body")
		w.Close("html")
	})
}

func head(ctx context.Context, w *markup.Writer, data LayoutData) {
	w.Open("head")
	w.Void("meta", markup.A("charset", "utf-8"))
	w.Void("meta", markup.A("name", "viewport"), markup.A("content", "width=device-width, initial-scale=1"))
	w.Element("title", pageTitle(data.Title, data.SiteName))
	if data.Page.CanonicalURL != "" {
		w.Void("link", markup.A("rel", "canonical"), markup.Href(data.Page.CanonicalURL))
	}
	w.Void("link", markup.A("rel", "stylesheet"), markup.Href(StylesheetPath))
	w.Component(ctx, AnalyticsScripts(data.Scripts))
	w.Close("head")
}

func header(w *markup.Writer, data LayoutData) {
	w.Open("header", markup.Class("site-header"))
	w.Open("a", markup.Href(routepath.Root), markup.Class("site-header__logo"))
	if data.LogoURL != "" {
		w.Void("img", markup.Src(data.LogoURL), markup.A("alt", data.SiteName))
	} else {
		w.Text(data.SiteName)
	}
	w.Close("a")

	label := T(data.Loc, "site.main_navigation", "Hovedmenu")
	w.Open("button",
		markup.A("type", "button"),
		markup.Class("site-header__toggle"),
		markup.A("aria-controls", "main-navigation"),
		markup.A("aria-expanded", "false"),
	)
	w.Icon("menu")
	w.Element("span", T(data.Loc, "site.open_menu", "Åbn menu"), markup.Class("visually-hidden"))
	w.Close("button")
	w.Open("nav", markup.A("id", "main-navigation"), markup.A("aria-label", label), markup.A("data-analytics-menu", "main"))
	navList(w, data.Navigation, urlpath.NormalizeCanonicalPath(data.CurrentPath), 0)
	w.Close("nav")

	if len(data.Languages) > 1 {
		w.Open("ul", markup.Class("language-switcher"), markup.A("aria-label", T(data.Loc, "site.language", "Sprog")))
		for _, option := range data.Languages {
			w.Open("li")
			current := markup.Opt("aria-current", "")
			if option.Active {
				current = markup.A("aria-current", "true")
			}
			w.Element("a", option.Label, markup.Href(option.URL), markup.A("hreflang", option.Tag), current)
			w.Close("li")
		}
		w.Close("ul")
	}
	w.Close("header")
}

func navList(w *markup.Writer, items []content.NavigationItem, current string, depth int) {
	if len(items) == 0 {
		return
	}
	w.Open("ul", markup.Class("nav-level-"+strconv.Itoa(depth)))
	for _, item := range items {
		href := item.Href
		if href == "" {
			href = "/"
		}
		w.Open("li")
		attrs := []markup.Attr{markup.Href(href), markup.A("data-analytics-nav-depth", strconv.Itoa(depth))}
		if urlpath.NormalizeCanonicalPath(href) == current {
			attrs = append(attrs, markup.A("aria-current", "page"))
		}
		w.Element("a", item.Label, attrs...)
		navList(w, item.Children, current, depth+1)
		w.Close("li")
	}
	w.Close("ul")
}

func pageTitle(title, siteName string) string {
	title = strings.TrimSpace(title)
	siteName = strings.TrimSpace(siteName)
	switch {
	case title == "":
		return siteName
	case siteName == "" || title == siteName:
		return title
	default:
		return title + " | " + siteName
	}
}

func consentAttr(state analytics.ConsentState) string {
	if state == analytics.ConsentUnset {
		return "unset"
	}
	return string(state)
}
