package contact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	contactsvc "github.com/uslusolutions/clinicweb/internal/services/web/contact"
	"github.com/uslusolutions/clinicweb/internal/services/web/integration/msgraph"
	"github.com/uslusolutions/clinicweb/internal/services/web/routepath"
)

type verifierFunc func(context.Context, string) (bool, error)

func (f verifierFunc) Verify(ctx context.Context, token string) (bool, error) { return f(ctx, token) }

type mailerFunc func(context.Context, msgraph.Submission) error

func (f mailerFunc) Send(ctx context.Context, sub msgraph.Submission) error { return f(ctx, sub) }

func mountHandler(t *testing.T, verified bool, sendErr error) http.Handler {
	t.Helper()
	svc := contactsvc.NewService(
		verifierFunc(func(context.Context, string) (bool, error) { return verified, nil }),
		mailerFunc(func(context.Context, msgraph.Submission) error { return sendErr }),
	)
	mount, err := New(svc).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if diff := cmp.Diff([]string{routepath.Contact}, mount.Paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	return mount.Handler
}

func post(t *testing.T, h http.Handler, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, routepath.Contact, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return rr.Code, payload
}

const validBody = `{"name":"Ada","email":"ada@example.com","mobile":"12345678","message":"Hej","recaptchaToken":"tok"}`

func TestContactResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		verified   bool
		sendErr    error
		body       string
		wantStatus int
		want       map[string]any
	}{
		{name: "success", verified: true, body: validBody, wantStatus: http.StatusOK, want: map[string]any{"success": true}},
		{name: "invalid json", verified: true, body: `nope`, wantStatus: http.StatusBadRequest, want: map[string]any{"error": "Invalid JSON payload"}},
		{name: "missing name", verified: true, body: `{"email":"ada@example.com"}`, wantStatus: http.StatusBadRequest, want: map[string]any{"error": "name is required"}},
		{name: "bad email", verified: true, body: strings.Replace(validBody, "ada@example.com", "ada.example.com", 1), wantStatus: http.StatusBadRequest, want: map[string]any{"error": "email must be a valid email address"}},
		{name: "failed captcha", verified: false, body: validBody, wantStatus: http.StatusForbidden, want: map[string]any{"error": "Failed human verification"}},
		{name: "mail failure", verified: true, sendErr: msgraph.ErrNotConfigured, body: validBody, wantStatus: http.StatusInternalServerError, want: map[string]any{"error": "Failed to send message"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			status, payload := post(t, mountHandler(t, tc.verified, tc.sendErr), tc.body)
			if status != tc.wantStatus {
				t.Fatalf("status = %d, want %d", status, tc.wantStatus)
			}
			if diff := cmp.Diff(tc.want, payload); diff != "" {
				t.Fatalf("payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestContactRejectsGet(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	mountHandler(t, true, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.Contact, nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
}

func TestModuleIDAndNilService(t *testing.T) {
	t.Parallel()

	if got := New(nil).ID(); got != "contact" {
		t.Fatalf("ID() = %q", got)
	}
	if _, err := New(nil).Mount(); err == nil {
		t.Fatalf("expected error for nil service")
	}
}
