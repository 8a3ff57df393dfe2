package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseConsent(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]ConsentState{
		"granted":  ConsentGranted,
		" denied ": ConsentDenied,
		"GRANTED":  ConsentUnset,
		"yes":      ConsentUnset,
		"":         ConsentUnset,
	} {
		if got := ParseConsent(input); got != want {
			t.Fatalf("ParseConsent(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestParsePreferences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   CookiePreferences
		wantOK bool
	}{
		{input: `{"statistics":true,"marketing":false}`, want: CookiePreferences{Statistics: true}, wantOK: true},
		{input: `{"statistics":1,"marketing":"yes"}`, want: CookiePreferences{Statistics: true, Marketing: true}, wantOK: true},
		{input: `{"statistics":0,"marketing":""}`, want: CookiePreferences{}, wantOK: true},
		{input: `{}`, want: CookiePreferences{}, wantOK: true},
		{input: `not json`, want: DefaultPreferences},
		{input: `  `, want: DefaultPreferences},
	}
	for _, tc := range tests {
		got, ok := ParsePreferences(tc.input)
		if ok != tc.wantOK {
			t.Fatalf("ParsePreferences(%q) ok = %v, want %v", tc.input, ok, tc.wantOK)
		}
		if got != tc.want {
			t.Fatalf("ParsePreferences(%q) = %+v, want %+v", tc.input, got, tc.want)
		}
	}
}

func TestPreferencesEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	prefs := CookiePreferences{Statistics: true}
	if got := prefs.Encode(); got != `{"statistics":true,"marketing":false}` {
		t.Fatalf("Encode = %s", got)
	}
	decoded, ok := ParsePreferences(prefs.Encode())
	if !ok || decoded != prefs {
		t.Fatalf("round trip = %+v, %v", decoded, ok)
	}
}

func TestResolveGrantForcesStatistics(t *testing.T) {
	t.Parallel()

	d := Resolve(ConsentGranted, CookiePreferences{Marketing: true})
	if !d.Preferences.Statistics || !d.Preferences.Marketing {
		t.Fatalf("Resolve = %+v", d)
	}
	if d.BannerVisible() {
		t.Fatal("banner should hide once consent is stored")
	}
	if d := Resolve(ConsentDenied, CookiePreferences{}); d.Preferences.Statistics {
		t.Fatalf("denied Resolve = %+v", d)
	}
	if !Resolve(ConsentUnset, DefaultPreferences).BannerVisible() {
		t.Fatal("banner should show when consent is unset")
	}
}

func TestApplyTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		action Action
		chosen CookiePreferences
		want   Decision
	}{
		{ActionAcceptAll, CookiePreferences{}, Decision{Consent: ConsentGranted, Preferences: CookiePreferences{Statistics: true, Marketing: true}}},
		{ActionRejectAll, CookiePreferences{Statistics: true, Marketing: true}, Decision{Consent: ConsentDenied}},
		{ActionSave, CookiePreferences{Statistics: true}, Decision{Consent: ConsentGranted, Preferences: CookiePreferences{Statistics: true}}},
		{ActionSave, CookiePreferences{Marketing: true}, Decision{Consent: ConsentDenied, Preferences: CookiePreferences{Marketing: true}}},
		{ActionReset, CookiePreferences{Statistics: true}, Decision{Consent: ConsentUnset}},
	}
	for _, tc := range tests {
		if diff := cmp.Diff(tc.want, Apply(tc.action, tc.chosen)); diff != "" {
			t.Fatalf("Apply(%s) mismatch (-want +got):\n%s", tc.action, diff)
		}
	}
}

func TestParseAction(t *testing.T) {
	t.Parallel()

	if a, ok := ParseAction(" accept-all "); !ok || a != ActionAcceptAll {
		t.Fatalf("ParseAction = %q, %v", a, ok)
	}
	if _, ok := ParseAction("grant"); ok {
		t.Fatal("unknown action accepted")
	}
}
