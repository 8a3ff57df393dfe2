package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings Settings
		want     Config
	}{
		{
			name:     "enabled with id",
			settings: Settings{Enabled: "true", MeasurementID: " G-123 "},
			want:     Config{Enabled: true, MeasurementID: "G-123"},
		},
		{
			name:     "numeric flag",
			settings: Settings{Enabled: "1", MeasurementID: "G-123"},
			want:     Config{Enabled: true, MeasurementID: "G-123"},
		},
		{
			name:     "flag without id",
			settings: Settings{Enabled: "true", MeasurementID: "  "},
			want:     Config{},
		},
		{
			name:     "id without flag",
			settings: Settings{Enabled: "yes", MeasurementID: "G-123"},
			want:     Config{MeasurementID: "G-123"},
		},
		{
			name: "lists trimmed",
			settings: Settings{
				MarketingTags: " meta, ,linkedin ,",
				LinkerDomains: "a.dk, b.dk",
				MetaPixelID:   " 42 ",
			},
			want: Config{
				MarketingTags: []string{"meta", "linkedin"},
				LinkerDomains: []string{"a.dk", "b.dk"},
				MetaPixelID:   "42",
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tc.want, NewConfig(tc.settings)); diff != "" {
				t.Fatalf("NewConfig mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestShouldLoadAnalyticsDefaultsToDenied(t *testing.T) {
	t.Parallel()

	cfg := Config{Enabled: true, MeasurementID: "G-1"}
	if ShouldLoadAnalytics(cfg, ConsentUnset) {
		t.Fatal("unset consent must not load analytics")
	}
	if ShouldLoadAnalytics(cfg, ConsentDenied) {
		t.Fatal("denied consent must not load analytics")
	}
	if !ShouldLoadAnalytics(cfg, ConsentGranted) {
		t.Fatal("granted consent should load analytics")
	}
	if ShouldLoadAnalytics(Config{}, ConsentGranted) {
		t.Fatal("disabled config must not load analytics")
	}
}

func TestShouldLoadMarketing(t *testing.T) {
	t.Parallel()

	cfg := Config{MarketingTags: []string{TagMeta}}
	if ShouldLoadMarketing(cfg, DefaultPreferences) {
		t.Fatal("default preferences must not load marketing")
	}
	if !ShouldLoadMarketing(cfg, CookiePreferences{Marketing: true}) {
		t.Fatal("marketing preference should load marketing")
	}
	if ShouldLoadMarketing(Config{}, CookiePreferences{Marketing: true}) {
		t.Fatal("no tags must not load marketing")
	}
}

func TestResolveScripts(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Enabled:           true,
		MeasurementID:     "G-1",
		LinkerDomains:     []string{"a.dk"},
		MarketingTags:     []string{TagLinkedIn},
		MetaPixelID:       "meta-1",
		LinkedInPartnerID: "li-1",
	}
	got := ResolveScripts(cfg, ConsentGranted, CookiePreferences{Statistics: true, Marketing: true})
	want := Scripts{GoogleAnalytics: true, MeasurementID: "G-1", LinkerDomains: []string{"a.dk"}, LinkedInID: "li-1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ResolveScripts mismatch (-want +got):\n%s", diff)
	}
	if none := ResolveScripts(cfg, ConsentUnset, DefaultPreferences); none.Any() {
		t.Fatalf("ResolveScripts without consent = %+v", none)
	}
}
