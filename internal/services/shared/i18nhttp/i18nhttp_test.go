package i18nhttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"
)

func TestResolveTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		target      string
		cookie      string
		accept      string
		want        language.Tag
		wantPersist bool
	}{
		{name: "query wins", target: "/?lang=en", cookie: "da", want: language.English, wantPersist: true},
		{name: "cookie", target: "/", cookie: "en", accept: "da", want: language.English},
		{name: "accept language", target: "/", accept: "en-US,en;q=0.9", want: language.English},
		{name: "unsupported query falls through", target: "/?lang=fr", accept: "en", want: language.English},
		{name: "default", target: "/", want: language.Danish},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://example.com"+tc.target, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LangCookieName, Value: tc.cookie})
			}
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			got, persist := ResolveTag(req)
			if got != tc.want || persist != tc.wantPersist {
				t.Fatalf("ResolveTag = (%v, %v), want (%v, %v)", got, persist, tc.want, tc.wantPersist)
			}
		})
	}
}

func TestResolveTagNilRequest(t *testing.T) {
	t.Parallel()

	if got, _ := ResolveTag(nil); got != language.Danish {
		t.Fatalf("ResolveTag(nil) = %v", got)
	}
}

func TestSetLanguageCookie(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	SetLanguageCookie(rec, language.BritishEnglish, true)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	if cookies[0].Value != "en" || !cookies[0].Secure {
		t.Fatalf("cookie = %+v", cookies[0])
	}
}

func TestLanguageOptions(t *testing.T) {
	t.Parallel()

	options := LanguageOptions(language.English, "/behandlinger", "page=2")
	if len(options) != 2 {
		t.Fatalf("len(options) = %d, want 2", len(options))
	}
	if options[0].Active || !options[1].Active {
		t.Fatalf("active flags = %v/%v", options[0].Active, options[1].Active)
	}
	if options[1].URL != "/behandlinger?lang=en&page=2" {
		t.Fatalf("URL = %q", options[1].URL)
	}
}

func TestPrinterUsesCatalog(t *testing.T) {
	t.Parallel()

	if got := Printer(language.English).Sprintf("site.home"); got != "Home" {
		t.Fatalf("Sprintf(site.home) = %q, want Home", got)
	}
	if got := Printer(language.Danish).Sprintf("site.home"); got != "Forside" {
		t.Fatalf("Sprintf(site.home) = %q, want Forside", got)
	}
}
