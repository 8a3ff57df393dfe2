package otel

import (
	"context"
	"testing"
)

func TestSettingsActive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings Settings
		want     bool
	}{
		{name: "no endpoint", settings: Settings{Enabled: true}, want: false},
		{name: "blank endpoint", settings: Settings{Enabled: true, Endpoint: "  "}, want: false},
		{name: "disabled", settings: Settings{Endpoint: "http://localhost:4318"}, want: false},
		{name: "enabled", settings: Settings{Enabled: true, Endpoint: "http://localhost:4318"}, want: true},
	}
	for _, tc := range tests {
		if got := tc.settings.Active(); got != tc.want {
			t.Fatalf("%s: Active() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSampleRatio(t *testing.T) {
	t.Parallel()

	for in, want := range map[float64]float64{0: 1, -0.5: 1, 1.5: 1, 0.25: 0.25, 1: 1} {
		if got := sampleRatio(in); got != want {
			t.Fatalf("sampleRatio(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupReadsEnvironment(t *testing.T) {
	t.Setenv("CLINICWEB_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("CLINICWEB_OTEL_ENABLED", "false")

	shutdown, err := Setup(context.Background(), "clinicweb-test")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupWithSettingsInstallsProvider(t *testing.T) {
	// Non-routable address: nothing is exported before shutdown.
	shutdown, err := SetupWithSettings(context.Background(), "clinicweb-test", Settings{
		Endpoint:    "http://192.0.2.1:4318",
		Enabled:     true,
		SampleRatio: 0.5,
	})
	if err != nil {
		t.Fatalf("SetupWithSettings: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
