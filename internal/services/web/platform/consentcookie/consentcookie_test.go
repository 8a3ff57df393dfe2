package consentcookie

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/uslusolutions/clinicweb/internal/services/web/analytics"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/requestmeta"
)

func TestReadDefaultsToUnsetAndDenied(t *testing.T) {
	t.Parallel()

	got := Read(httptest.NewRequest(http.MethodGet, "/", nil))
	want := analytics.Decision{Consent: analytics.ConsentUnset}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Read mismatch (-want +got):\n%s", diff)
	}
	if !got.BannerVisible() {
		t.Fatalf("banner should be visible without a stored choice")
	}
	if Read(nil) != want {
		t.Fatalf("Read(nil) should yield defaults")
	}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	t.Parallel()

	decision := analytics.Apply(analytics.ActionSave, analytics.CookiePreferences{Statistics: false, Marketing: true})
	rec := httptest.NewRecorder()
	Write(rec, httptest.NewRequest(http.MethodPost, "http://example.com/consent", nil), requestmeta.SchemePolicy{}, decision)

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("cookies = %d, want 2", len(cookies))
	}
	for _, c := range cookies {
		if c.MaxAge != 31536000 {
			t.Fatalf("%s max-age = %d", c.Name, c.MaxAge)
		}
		if c.SameSite != http.SameSiteLaxMode || c.Secure {
			t.Fatalf("%s attributes = %+v", c.Name, c)
		}
	}

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	got := Read(next)
	if diff := cmp.Diff(decision, got); diff != "" {
		t.Fatalf("Read mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteSecureBehindTrustedProxy(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/consent", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	Write(rec, req, requestmeta.SchemePolicy{TrustForwardedProto: true}, analytics.Apply(analytics.ActionAcceptAll, analytics.CookiePreferences{}))
	for _, c := range rec.Result().Cookies() {
		if !c.Secure {
			t.Fatalf("%s should be secure", c.Name)
		}
	}
}

func TestStoredGrantImpliesStatistics(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ConsentName, Value: "granted"})
	req.AddCookie(&http.Cookie{Name: PreferencesName, Value: "not-json"})
	got := Read(req)
	want := analytics.Decision{Consent: analytics.ConsentGranted, Preferences: analytics.CookiePreferences{Statistics: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Read mismatch (-want +got):\n%s", diff)
	}
}

func TestResetClearsCookies(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Write(rec, httptest.NewRequest(http.MethodPost, "/consent", nil), requestmeta.SchemePolicy{}, analytics.Apply(analytics.ActionReset, analytics.CookiePreferences{}))
	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("cookies = %d, want 2", len(cookies))
	}
	for _, c := range cookies {
		if c.MaxAge >= 0 || c.Value != "" {
			t.Fatalf("%s should be expired, got %+v", c.Name, c)
		}
	}
}
