// Package umbraco reads content from the Umbraco Delivery API v2.
package umbraco

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/uslusolutions/clinicweb/internal/platform/timeouts"
	"github.com/uslusolutions/clinicweb/internal/services/web/content"
)

const (
	deliveryPath = "/umbraco/delivery/api/v2/content"

	headerAPIKey    = "Api-Key"
	headerStartItem = "Start-Item"

	// DescendantsPageSize is the page size used when listing descendants.
	DescendantsPageSize = 100
	maxErrorBody        = 512
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	StartItem  string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client is a read-only Delivery API client.
type Client struct {
	baseURL   string
	apiKey    string
	startItem string
	http      *http.Client
	timeout   time.Duration
	tracer    trace.Tracer
}

// StatusError reports a non-2xx Delivery API response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("umbraco: status %d", e.StatusCode)
	}
	return fmt.Sprintf("umbraco: status %d: %s", e.StatusCode, e.Body)
}

// Is matches content.ErrNotFound for 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == content.ErrNotFound && e.StatusCode == http.StatusNotFound
}

var _ content.Source = (*Client)(nil)

// NewClient builds a client. A blank base URL is an error.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("umbraco base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parse umbraco base url: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.CMSRequest
	}
	return &Client{
		baseURL:   base,
		apiKey:    strings.TrimSpace(cfg.APIKey),
		startItem: strings.TrimSpace(cfg.StartItem),
		http:      client,
		timeout:   timeout,
		tracer:    otel.Tracer("github.com/uslusolutions/clinicweb/umbraco"),
	}, nil
}

// ContentByPath loads the node published at path below the start item.
func (c *Client) ContentByPath(ctx context.Context, path, expand string) (*content.Content, error) {
	endpoint := deliveryPath + "/item/" + escapePath(path)
	var node content.Content
	if err := c.get(ctx, "umbraco.ContentByPath", endpoint, expandQuery(expand), &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// ContentByID loads a node by id.
func (c *Client) ContentByID(ctx context.Context, id, expand string) (*content.Content, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("content id is required")
	}
	endpoint := deliveryPath + "/item/" + url.PathEscape(id)
	var node content.Content
	if err := c.get(ctx, "umbraco.ContentByID", endpoint, expandQuery(expand), &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// Descendants lists every descendant of parentID, following pages until
// the reported total is reached.
func (c *Client) Descendants(ctx context.Context, parentID string) ([]content.Content, error) {
	parentID = strings.TrimSpace(parentID)
	if parentID == "" {
		return nil, errors.New("parent id is required")
	}
	var items []content.Content
	for skip := 0; ; skip += DescendantsPageSize {
		query := url.Values{}
		query.Set("fetch", "descendants:"+parentID)
		query.Set("skip", strconv.Itoa(skip))
		query.Set("take", strconv.Itoa(DescendantsPageSize))
		var page struct {
			Total int               `json:"total"`
			Items []content.Content `json:"items"`
		}
		if err := c.get(ctx, "umbraco.Descendants", deliveryPath, query, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		if len(page.Items) == 0 || len(items) >= page.Total {
			return items, nil
		}
	}
}

func (c *Client) get(ctx context.Context, spanName, endpoint string, query url.Values, target any) (err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	ctx, span := c.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	requestURL := c.baseURL + endpoint
	if encoded := query.Encode(); encoded != "" {
		requestURL += "?" + encoded
	}
	span.SetAttributes(attribute.String("url.full", requestURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("build umbraco request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(headerAPIKey, c.apiKey)
	}
	if c.startItem != "" {
		req.Header.Set(headerStartItem, c.startItem)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("umbraco request: %w", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode umbraco response: %w", err)
	}
	return nil
}

func expandQuery(expand string) url.Values {
	query := url.Values{}
	if expand = strings.TrimSpace(expand); expand != "" {
		query.Set("expand", expand)
	}
	return query
}

func escapePath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
