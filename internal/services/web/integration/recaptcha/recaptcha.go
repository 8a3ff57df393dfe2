// Package recaptcha verifies reCAPTCHA v3 tokens.
package recaptcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/uslusolutions/clinicweb/internal/platform/timeouts"
)

// DefaultEndpoint is Google's siteverify endpoint.
const DefaultEndpoint = "https://www.google.com/recaptcha/api/siteverify"

// DefaultThreshold is the lowest accepted score.
const DefaultThreshold = 0.5

const maxErrorBody = 512

// ErrMissingSecret reports that no secret key is configured.
var ErrMissingSecret = errors.New("recaptcha secret key is not configured")

// Config configures a Verifier.
type Config struct {
	Secret     string
	Endpoint   string
	Threshold  float64
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Verifier calls siteverify.
type Verifier struct {
	secret    string
	endpoint  string
	threshold float64
	http      *http.Client
	timeout   time.Duration
	tracer    trace.Tracer
}

// Result is the siteverify response.
type Result struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score,omitempty"`
	Action     string   `json:"action,omitempty"`
	Hostname   string   `json:"hostname,omitempty"`
	ErrorCodes []string `json:"error-codes,omitempty"`
}

// ScoreValue returns the score, treating a missing score as zero.
func (r Result) ScoreValue() float64 {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

// New builds a verifier. Defaults fill a blank endpoint, a non-positive
// threshold and a nil client.
func New(cfg Config) *Verifier {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.CaptchaRequest
	}
	return &Verifier{
		secret:    strings.TrimSpace(cfg.Secret),
		endpoint:  endpoint,
		threshold: threshold,
		http:      client,
		timeout:   timeout,
		tracer:    otel.Tracer("github.com/uslusolutions/clinicweb/recaptcha"),
	}
}

// Verify reports whether token passes verification. Every failure mode
// returns false; the error explains why.
func (v *Verifier) Verify(ctx context.Context, token string) (ok bool, err error) {
	if v.secret == "" {
		return false, ErrMissingSecret
	}
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	ctx, span := v.tracer.Start(ctx, "recaptcha.Verify", trace.WithSpanKind(trace.SpanKindClient))
	defer func() {
		span.SetAttributes(attribute.Bool("recaptcha.passed", ok))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	result, err := v.siteverify(ctx, token)
	if err != nil {
		return false, err
	}
	span.SetAttributes(attribute.Float64("recaptcha.score", result.ScoreValue()))
	if !result.Success {
		return false, fmt.Errorf("recaptcha rejected token: %s", strings.Join(result.ErrorCodes, ","))
	}
	if result.ScoreValue() < v.threshold {
		return false, fmt.Errorf("recaptcha score %.2f below %.2f", result.ScoreValue(), v.threshold)
	}
	return true, nil
}

func (v *Verifier) siteverify(ctx context.Context, token string) (Result, error) {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("siteverify request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Result{}, fmt.Errorf("siteverify returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode siteverify response: %w", err)
	}
	return result, nil
}
