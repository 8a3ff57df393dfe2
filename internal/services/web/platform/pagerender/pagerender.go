// Package pagerender renders full HTML pages inside the site shell.
package pagerender

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/uslusolutions/clinicweb/internal/platform/branding"
	platformi18n "github.com/uslusolutions/clinicweb/internal/platform/i18n"
	"github.com/uslusolutions/clinicweb/internal/platform/urlpath"
	"github.com/uslusolutions/clinicweb/internal/services/shared/i18nhttp"
	"github.com/uslusolutions/clinicweb/internal/services/web/analytics"
	"github.com/uslusolutions/clinicweb/internal/services/web/blocks"
	"github.com/uslusolutions/clinicweb/internal/services/web/content"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/consentcookie"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/requestmeta"
	"github.com/uslusolutions/clinicweb/internal/services/web/templates"
)

// DefaultSiteName is shown when the CMS start item has no name.
const DefaultSiteName = branding.AppName

// SiteSource supplies the start item and navigation for the shell.
type SiteSource interface {
	Site(ctx context.Context) content.Site
}

// Renderer holds the site-wide inputs every page shares.
type Renderer struct {
	Site             SiteSource
	Analytics        analytics.Config
	SiteURL          string
	CMSBaseURL       string
	MediaBaseURL     string
	RecaptchaSiteKey string
	Scheme           requestmeta.SchemePolicy
}

// View is the request-scoped rendering state handed to page bodies.
type View struct {
	Loc      i18nhttp.Localizer
	Lang     string
	Page     analytics.PageContext
	Decision analytics.Decision
	Blocks   *blocks.Dispatcher

	renderer *Renderer
	request  *http.Request
	tag      language.Tag
}

// NewView resolves language, consent and page context for r. node may be
// nil for pages that do not come from the CMS.
func (rr *Renderer) NewView(w http.ResponseWriter, r *http.Request, node *content.Content) *View {
	tag, persist := i18nhttp.ResolveTag(r)
	if persist {
		i18nhttp.SetLanguageCookie(w, tag, requestmeta.IsHTTPS(r, rr.Scheme))
	}
	locale := platformi18n.Locale(tag)
	fallbackPath := "/"
	if r != nil && r.URL != nil {
		fallbackPath = r.URL.Path
	}
	page := analytics.PageContextFromContent(node, analytics.ContextOptions{
		FallbackPath: fallbackPath,
		Locale:       locale,
		SiteURL:      rr.SiteURL,
	})
	loc := i18nhttp.Printer(tag)
	v := &View{
		Loc:      loc,
		Lang:     locale,
		Page:     page,
		Decision: consentcookie.Read(r),
		renderer: rr,
		request:  r,
		tag:      tag,
	}
	v.Blocks = blocks.New(blocks.Env{
		CMSBaseURL:       rr.CMSBaseURL,
		MediaBaseURL:     rr.MediaBaseURL,
		RecaptchaSiteKey: rr.RecaptchaSiteKey,
		Loc:              loc,
		Page:             &v.Page,
	})
	return v
}

// Write renders body inside the shell and writes it with status. Output is
// buffered so a render failure never leaves a half-written page.
func (v *View) Write(w http.ResponseWriter, statusCode int, title string, body templ.Component) error {
	if w == nil {
		return nil
	}
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	if body == nil {
		body = templ.NopComponent
	}
	if strings.TrimSpace(title) != "" {
		v.Page.PageTitle = title
	}
	ctx := requestContext(v.request)
	var buf bytes.Buffer
	if err := templates.Layout(v.layout(ctx)).Render(templ.WithChildren(ctx, body), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := buf.WriteTo(w)
	return err
}

func (v *View) layout(ctx context.Context) templates.LayoutData {
	rr := v.renderer
	data := templates.LayoutData{
		Title:    v.Page.PageTitle,
		Lang:     v.Lang,
		SiteName: DefaultSiteName,
		Consent:  v.Decision,
		Scripts:  analytics.ResolveScripts(rr.Analytics, v.Decision.Consent, v.Decision.Preferences),
		Page:     v.Page,
		Loc:      v.Loc,
	}
	if v.request != nil && v.request.URL != nil {
		data.CurrentPath = v.request.URL.Path
		data.Languages = i18nhttp.LanguageOptions(v.tag, v.request.URL.Path, v.request.URL.RawQuery)
	}
	if rr.Site == nil {
		return data
	}
	site := rr.Site.Site(ctx)
	data.Navigation = site.Navigation
	if root := site.Root; root != nil {
		if name := strings.TrimSpace(root.Name); name != "" {
			data.SiteName = name
		}
		if logo, ok := root.Properties.FirstMedia("logo"); ok {
			data.LogoURL = urlpath.MediaURL(rr.MediaBaseURL, logo.URL)
		}
		data.Footer = v.Blocks.Footer(blocks.FooterFromProperties(root.Properties))
	}
	return data
}

func requestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}
