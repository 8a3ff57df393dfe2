// Package msgraph sends contact mail through Microsoft Graph using the
// client-credentials grant.
package msgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/uslusolutions/clinicweb/internal/platform/timeouts"
)

const (
	// DefaultBaseURL is the Graph v1.0 root.
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"
	// DefaultScope requests the app's configured Graph permissions.
	DefaultScope = "https://graph.microsoft.com/.default"
	// DefaultFromName is used when no sender display name is configured.
	DefaultFromName = "no-reply@uslu.dk"

	recipientName = "Contact Recipient"
	maxErrorBody  = 512
)

// Config configures a Mailer.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Mailbox      string
	Recipient    string
	FromName     string

	// BaseURL and TokenURL override the public endpoints.
	BaseURL  string
	TokenURL string
	// HTTPClient carries both token and Graph requests.
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Submission is a validated contact form.
type Submission struct {
	Name    string
	Email   string
	Mobile  string
	Message string
}

// Mailer posts sendMail requests.
type Mailer struct {
	cfg    Config
	base   string
	http   *http.Client
	creds  clientcredentials.Config
	tracer trace.Tracer

	mu    sync.Mutex
	token *oauth2.Token
}

// New validates cfg and builds a mailer.
func New(cfg Config) (*Mailer, error) {
	required := []struct{ name, value string }{
		{"tenant id", cfg.TenantID},
		{"client id", cfg.ClientID},
		{"client secret", cfg.ClientSecret},
		{"mailbox", cfg.Mailbox},
		{"recipient", cfg.Recipient},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return nil, fmt.Errorf("graph %s is required", field.name)
		}
	}
	if strings.TrimSpace(cfg.FromName) == "" {
		cfg.FromName = DefaultFromName
	}
	tokenURL := strings.TrimSpace(cfg.TokenURL)
	if tokenURL == "" {
		tokenURL = "https://login.microsoftonline.com/" + url.PathEscape(strings.TrimSpace(cfg.TenantID)) + "/oauth2/v2.0/token"
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = timeouts.MailRequest
	}
	creds := clientcredentials.Config{
		ClientID:     strings.TrimSpace(cfg.ClientID),
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{DefaultScope},
	}
	return &Mailer{
		cfg:    cfg,
		base:   base,
		http:   client,
		creds:  creds,
		tracer: otel.Tracer("github.com/uslusolutions/clinicweb/msgraph"),
	}, nil
}

// accessToken returns the cached app token, fetching a new one under ctx
// once it has expired.
func (m *Mailer) accessToken(ctx context.Context) (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token.Valid() {
		return m.token, nil
	}
	token, err := m.creds.Token(context.WithValue(ctx, oauth2.HTTPClient, m.http))
	if err != nil {
		return nil, fmt.Errorf("fetch graph token: %w", err)
	}
	m.token = token
	return token, nil
}

// Send mails the submission to the configured recipient.
func (m *Mailer) Send(ctx context.Context, sub Submission) (err error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()
	ctx, span := m.tracer.Start(ctx, "msgraph.SendMail", trace.WithSpanKind(trace.SpanKindClient))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	payload, err := json.Marshal(BuildMail(m.cfg, sub))
	if err != nil {
		return fmt.Errorf("encode mail: %w", err)
	}
	endpoint := m.base + "/users/" + url.PathEscape(m.cfg.Mailbox) + "/sendMail"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sendMail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	token, err := m.accessToken(ctx)
	if err != nil {
		return err
	}
	token.SetAuthHeader(req)

	resp, err := m.http.Do(req)
	if err != nil {
		return fmt.Errorf("sendMail request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("sendMail returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}

// Mail is the sendMail request body.
type Mail struct {
	Message Message `json:"message"`
}

// Message is a Graph message resource.
type Message struct {
	Subject      string      `json:"subject"`
	Body         Body        `json:"body"`
	From         Recipient   `json:"from"`
	Sender       Recipient   `json:"sender"`
	ToRecipients []Recipient `json:"toRecipients"`
	ReplyTo      []Recipient `json:"replyTo"`
}

// Body is a Graph itemBody.
type Body struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Recipient is a Graph recipient.
type Recipient struct {
	EmailAddress EmailAddress `json:"emailAddress"`
}

// EmailAddress is a Graph emailAddress.
type EmailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// BuildMail composes the message for sub.
func BuildMail(cfg Config, sub Submission) Mail {
	fromName := strings.TrimSpace(cfg.FromName)
	if fromName == "" {
		fromName = DefaultFromName
	}
	from := Recipient{EmailAddress: EmailAddress{Address: cfg.Mailbox, Name: fromName}}
	return Mail{Message: Message{
		Subject:      "New contact form submission from " + sub.Name,
		Body:         Body{ContentType: "HTML", Content: mailBody(sub)},
		From:         from,
		Sender:       from,
		ToRecipients: []Recipient{{EmailAddress: EmailAddress{Address: cfg.Recipient, Name: recipientName}}},
		ReplyTo:      []Recipient{{EmailAddress: EmailAddress{Address: sub.Email, Name: sub.Name}}},
	}}
}

func mailBody(sub Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>\n", html.EscapeString(sub.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>\n", html.EscapeString(sub.Email))
	fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>\n", html.EscapeString(sub.Mobile))
	message := strings.ReplaceAll(html.EscapeString(sub.Message), "\n", "<br/>")
	fmt.Fprintf(&b, "<p><strong>Message:</strong><br/>%s</p>\n", message)
	return b.String()
}

// ErrNotConfigured is returned by Unconfigured.Send.
var ErrNotConfigured = errors.New("contact mail is not configured")

// Unconfigured fails every send. It stands in when Graph settings are absent.
type Unconfigured struct{}

// Send always fails.
func (Unconfigured) Send(context.Context, Submission) error { return ErrNotConfigured }
