package pagerender

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/uslusolutions/clinicweb/internal/services/web/analytics"
	"github.com/uslusolutions/clinicweb/internal/services/web/content"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/consentcookie"
)

type staticSite struct {
	site content.Site
}

func (s staticSite) Site(context.Context) content.Site {
	return s.site
}

func testSite(t *testing.T) content.Site {
	t.Helper()
	var root content.Content
	raw := `{"id":"root","name":"Klinik Nord","contentType":"home","route":{"path":"/"},
		"properties":{"logo":[{"url":"/media/logo.svg","name":"logo"}],"address":"Hovedgaden 1","city":"Aarhus","postalCode":"8000"}}`
	if err := json.Unmarshal([]byte(raw), &root); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return content.Site{
		Root:       &root,
		Navigation: []content.NavigationItem{{ID: "a", Label: "Om os", Href: "/om-os/"}},
	}
}

func TestWriteRendersShellWithSiteData(t *testing.T) {
	t.Parallel()

	renderer := &Renderer{
		Site:         staticSite{site: testSite(t)},
		SiteURL:      "https://klinik.dk",
		MediaBaseURL: "https://media.klinik.dk",
	}
	req := httptest.NewRequest(http.MethodGet, "/om-os", nil)
	rec := httptest.NewRecorder()
	view := renderer.NewView(rec, req, nil)
	if err := view.Write(rec, 0, "Om os", templ.Raw("<p>hej</p>")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`<title>Om os | Klinik Nord</title>`,
		`src="https://media.klinik.dk/media/logo.svg"`,
		`aria-current="page">Om os</a>`,
		`<use href="#lucide-map-pin"></use></svg>Hovedgaden 1 8000 Aarhus</p>`,
		`<link rel="canonical" href="https://klinik.dk/om-os">`,
		`class="consent-banner"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
	if view.Page.SiteSection != "om-os" {
		t.Fatalf("site section = %q", view.Page.SiteSection)
	}
}

func TestNewViewResolvesLanguageAndConsent(t *testing.T) {
	t.Parallel()

	renderer := &Renderer{Analytics: analytics.NewConfig(analytics.Settings{Enabled: "true", MeasurementID: "G-1"})}
	req := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	req.AddCookie(&http.Cookie{Name: consentcookie.ConsentName, Value: "granted"})
	rec := httptest.NewRecorder()
	view := renderer.NewView(rec, req, nil)
	if view.Lang != "en" {
		t.Fatalf("lang = %q, want en", view.Lang)
	}
	if view.Decision.Consent != analytics.ConsentGranted {
		t.Fatalf("consent = %q", view.Decision.Consent)
	}
	if cookies := rec.Result().Cookies(); len(cookies) != 1 || cookies[0].Value != "en" {
		t.Fatalf("language cookie = %+v", cookies)
	}
	if err := view.Write(rec, http.StatusOK, "Home", nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<html lang="en">`) || !strings.Contains(body, "googletagmanager.com/gtag/js?id=G-1") {
		t.Fatalf("body = %s", body)
	}
	if strings.Contains(body, "consent-banner") {
		t.Fatalf("banner should be hidden after a choice")
	}
}

func TestNewViewUsesContentForPageContext(t *testing.T) {
	t.Parallel()

	node := &content.Content{ID: "n1", Name: "Knæ", ContentType: "contentPage", Route: content.Route{Path: "/behandlinger/knae/"}}
	view := (&Renderer{SiteURL: "https://klinik.dk"}).NewView(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/behandlinger/knae", nil), node)
	if view.Page.PagePath != "/behandlinger/knae" || view.Page.NodeID != "n1" || view.Page.CanonicalURL != "https://klinik.dk/behandlinger/knae" {
		t.Fatalf("page context = %+v", view.Page)
	}
	if view.Blocks == nil {
		t.Fatalf("view should carry a block dispatcher")
	}
}
