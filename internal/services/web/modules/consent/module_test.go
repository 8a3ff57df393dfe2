package consent

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/uslusolutions/clinicweb/internal/services/web/analytics"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/consentcookie"
	"github.com/uslusolutions/clinicweb/internal/services/web/platform/pagerender"
	"github.com/uslusolutions/clinicweb/internal/services/web/routepath"
)

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	mount, err := New(&pagerender.Renderer{}).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return mount.Handler
}

func postForm(t *testing.T, h http.Handler, values url.Values, referer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "http://klinik.dk"+routepath.Consent, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func readBack(t *testing.T, rr *httptest.ResponseRecorder) analytics.Decision {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rr.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}
	return consentcookie.Read(req)
}

func TestFormTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values url.Values
		want   analytics.Decision
	}{
		{
			name:   "accept all",
			values: url.Values{"action": {"accept-all"}},
			want:   analytics.Decision{Consent: analytics.ConsentGranted, Preferences: analytics.CookiePreferences{Statistics: true, Marketing: true}},
		},
		{
			name:   "reject all",
			values: url.Values{"action": {"reject-all"}},
			want:   analytics.Decision{Consent: analytics.ConsentDenied},
		},
		{
			name:   "save statistics only",
			values: url.Values{"action": {"save"}, "statistics": {"true"}},
			want:   analytics.Decision{Consent: analytics.ConsentGranted, Preferences: analytics.CookiePreferences{Statistics: true}},
		},
		{
			name:   "save marketing only",
			values: url.Values{"action": {"save"}, "marketing": {"on"}},
			want:   analytics.Decision{Consent: analytics.ConsentDenied, Preferences: analytics.CookiePreferences{Marketing: true}},
		},
		{
			name:   "reset",
			values: url.Values{"action": {"reset"}},
			want:   analytics.Decision{Consent: analytics.ConsentUnset},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rr := postForm(t, newHandler(t), tc.values, "")
			if rr.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusSeeOther)
			}
			if diff := cmp.Diff(tc.want, readBack(t, rr)); diff != "" {
				t.Fatalf("decision mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormRedirectsToSameOriginReferer(t *testing.T) {
	t.Parallel()

	h := newHandler(t)
	rr := postForm(t, h, url.Values{"action": {"accept-all"}}, "http://klinik.dk/om-os?x=1")
	if got := rr.Header().Get("Location"); got != "/om-os?x=1" {
		t.Fatalf("Location = %q, want /om-os?x=1", got)
	}
	rr = postForm(t, h, url.Values{"action": {"accept-all"}}, "https://evil.example/phish")
	if got := rr.Header().Get("Location"); got != "/" {
		t.Fatalf("Location = %q, want /", got)
	}
}

func TestJSONUpdateReturnsState(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, routepath.Consent, strings.NewReader(`{"action":"save","statistics":true,"marketing":false}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	newHandler(t).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var got State
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := State{Consent: "granted", Preferences: analytics.CookiePreferences{Statistics: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownActionRejected(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, routepath.Consent, strings.NewReader(`{"action":"maybe"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	newHandler(t).ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Fatalf("rejected update should not set cookies")
	}

	form := postForm(t, newHandler(t), url.Values{"action": {"maybe"}}, "")
	if form.Code != http.StatusBadRequest {
		t.Fatalf("form status = %d, want %d", form.Code, http.StatusBadRequest)
	}
}

func TestGetStateDefaultsToUnset(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	newHandler(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.Consent, nil))
	var got State
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(State{Consent: "unset", BannerVisible: true}, got); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestGetStateReadsCookies(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, routepath.Consent, nil)
	req.AddCookie(&http.Cookie{Name: consentcookie.ConsentName, Value: "granted"})
	rr := httptest.NewRecorder()
	newHandler(t).ServeHTTP(rr, req)
	var got State
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(State{Consent: "granted", Preferences: analytics.CookiePreferences{Statistics: true}}, got); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestCookiesPageRenders(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	newHandler(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.Cookies, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<h1>Cookieindstillinger</h1>") || !strings.Contains(body, `value="save"`) {
		t.Fatalf("cookies page body:\n%s", body)
	}
}

func TestMountRequiresRenderer(t *testing.T) {
	t.Parallel()

	if _, err := New(nil).Mount(); err == nil {
		t.Fatalf("expected error")
	}
	if got := New(nil).ID(); got != "consent" {
		t.Fatalf("ID() = %q", got)
	}
}
