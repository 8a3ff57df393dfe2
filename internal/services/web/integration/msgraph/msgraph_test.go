package msgraph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func validConfig() Config {
	return Config{
		TenantID:     "tenant",
		ClientID:     "client",
		ClientSecret: "secret",
		Mailbox:      "kontakt@klinik.dk",
		Recipient:    "reception@klinik.dk",
	}
}

func TestNewRequiresSettings(t *testing.T) {
	t.Parallel()

	for _, mutate := range []func(*Config){
		func(c *Config) { c.TenantID = "" },
		func(c *Config) { c.ClientID = " " },
		func(c *Config) { c.ClientSecret = "" },
		func(c *Config) { c.Mailbox = "" },
		func(c *Config) { c.Recipient = "" },
	} {
		cfg := validConfig()
		mutate(&cfg)
		if _, err := New(cfg); err == nil {
			t.Fatalf("New(%+v) succeeded, want error", cfg)
		}
	}
	if _, err := New(validConfig()); err != nil {
		t.Fatalf("New(valid): %v", err)
	}
}

func TestBuildMail(t *testing.T) {
	t.Parallel()

	mail := BuildMail(validConfig(), Submission{
		Name:    "Ann <b>",
		Email:   "ann@example.com",
		Mobile:  "12 34 56 78",
		Message: "Hej\nmed & venlig hilsen",
	})

	if mail.Message.Subject != "New contact form submission from Ann <b>" {
		t.Fatalf("subject = %q", mail.Message.Subject)
	}
	body := mail.Message.Body.Content
	for _, want := range []string{
		"<p><strong>Name:</strong> Ann &lt;b&gt;</p>",
		"<p><strong>Phone:</strong> 12 34 56 78</p>",
		"<p><strong>Message:</strong><br/>Hej<br/>med &amp; venlig hilsen</p>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
	from := Recipient{EmailAddress: EmailAddress{Address: "kontakt@klinik.dk", Name: DefaultFromName}}
	if diff := cmp.Diff(from, mail.Message.From); diff != "" {
		t.Fatalf("from mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(from, mail.Message.Sender); diff != "" {
		t.Fatalf("sender mismatch (-want +got):\n%s", diff)
	}
	wantTo := []Recipient{{EmailAddress: EmailAddress{Address: "reception@klinik.dk", Name: "Contact Recipient"}}}
	if diff := cmp.Diff(wantTo, mail.Message.ToRecipients); diff != "" {
		t.Fatalf("to mismatch (-want +got):\n%s", diff)
	}
	wantReply := []Recipient{{EmailAddress: EmailAddress{Address: "ann@example.com", Name: "Ann <b>"}}}
	if diff := cmp.Diff(wantReply, mail.Message.ReplyTo); diff != "" {
		t.Fatalf("replyTo mismatch (-want +got):\n%s", diff)
	}
}

func TestSendUsesClientCredentials(t *testing.T) {
	t.Parallel()

	var tokenCalls atomic.Int32
	var got Mail
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse token form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			t.Errorf("grant_type = %q", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("scope") != DefaultScope {
			t.Errorf("scope = %q", r.PostForm.Get("scope"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("POST /users/{mailbox}/sendMail", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("mailbox") != "kontakt@klinik.dk" {
			t.Errorf("mailbox = %q", r.PathValue("mailbox"))
		}
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode mail: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := validConfig()
	cfg.FromName = "Klinikken"
	cfg.BaseURL = srv.URL
	cfg.TokenURL = srv.URL + "/token"
	cfg.HTTPClient = srv.Client()
	mailer, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for range 2 {
		if err := mailer.Send(context.Background(), Submission{Name: "Ann", Email: "ann@example.com", Mobile: "1", Message: "Hej"}); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	if tokenCalls.Load() != 1 {
		t.Fatalf("token calls = %d, want 1", tokenCalls.Load())
	}
	if got.Message.From.EmailAddress.Name != "Klinikken" {
		t.Fatalf("from name = %q", got.Message.From.EmailAddress.Name)
	}
}

func TestSendReportsGraphFailure(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("POST /users/{mailbox}/sendMail", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "ErrorAccessDenied", http.StatusForbidden)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := validConfig()
	cfg.BaseURL = srv.URL
	cfg.TokenURL = srv.URL + "/token"
	cfg.HTTPClient = srv.Client()
	mailer, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = mailer.Send(context.Background(), Submission{Name: "Ann", Email: "ann@example.com"})
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("Send error = %v, want 403", err)
	}
}

func TestSendTokenFetchHonorsRequestDeadline(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := validConfig()
	cfg.BaseURL = srv.URL
	cfg.TokenURL = srv.URL + "/token"
	cfg.HTTPClient = srv.Client()
	mailer, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	err = mailer.Send(ctx, Submission{Name: "Ann", Email: "ann@example.com"})
	if err == nil {
		t.Fatal("expected token fetch error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Send took %v, want it bounded by the request deadline", elapsed)
	}
}

func TestUnconfiguredFails(t *testing.T) {
	t.Parallel()

	if err := (Unconfigured{}).Send(context.Background(), Submission{}); err != ErrNotConfigured {
		t.Fatalf("Send = %v", err)
	}
}
