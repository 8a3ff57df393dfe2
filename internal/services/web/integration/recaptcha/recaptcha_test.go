package recaptcha

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newVerifier(t *testing.T, secret string, handler http.HandlerFunc) *Verifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{Secret: secret, Endpoint: srv.URL, HTTPClient: srv.Client()})
}

func TestVerifyScoreThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want bool
	}{
		{name: "passing score", body: `{"success":true,"score":0.9}`, want: true},
		{name: "score at threshold", body: `{"success":true,"score":0.5}`, want: true},
		{name: "score below threshold", body: `{"success":true,"score":0.49}`, want: false},
		{name: "missing score", body: `{"success":true}`, want: false},
		{name: "unsuccessful", body: `{"success":false,"score":0.9,"error-codes":["timeout-or-duplicate"]}`, want: false},
		{name: "bad json", body: `{"success":`, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := newVerifier(t, "s3cret", func(w http.ResponseWriter, r *http.Request) {
				if err := r.ParseForm(); err != nil {
					t.Errorf("parse form: %v", err)
				}
				if r.PostForm.Get("secret") != "s3cret" || r.PostForm.Get("response") != "tok" {
					t.Errorf("form = %v", r.PostForm)
				}
				_, _ = w.Write([]byte(tc.body))
			})
			got, err := v.Verify(context.Background(), "tok")
			if got != tc.want {
				t.Fatalf("Verify = %v (err %v), want %v", got, err, tc.want)
			}
			if !got && err == nil {
				t.Fatal("expected an error explaining the failure")
			}
		})
	}
}

func TestVerifyFailsClosedWithoutSecret(t *testing.T) {
	t.Parallel()

	v := newVerifier(t, " ", func(http.ResponseWriter, *http.Request) {
		t.Error("unexpected siteverify call")
	})
	ok, err := v.Verify(context.Background(), "tok")
	if ok || !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("Verify = %v, %v", ok, err)
	}
}

func TestVerifyFailsClosedOnHTTPError(t *testing.T) {
	t.Parallel()

	v := newVerifier(t, "s3cret", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})
	if ok, err := v.Verify(context.Background(), "tok"); ok || err == nil {
		t.Fatalf("Verify = %v, %v", ok, err)
	}
}

func TestVerifyFailsClosedOnTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()
	v := New(Config{Secret: "s3cret", Endpoint: endpoint})
	if ok, err := v.Verify(context.Background(), "tok"); ok || err == nil {
		t.Fatalf("Verify = %v, %v", ok, err)
	}
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	v := New(Config{})
	if v.endpoint != DefaultEndpoint || v.threshold != DefaultThreshold || v.http == nil {
		t.Fatalf("defaults not applied: %+v", v)
	}
}
