// internal/common/http/client.go
package http

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contact-harvester/internal/common/metrics"

	"golang.org/x/net/html/charset"
)

const defaultMaxBodyBytes int64 = 5 << 20

// Options configures a Client.
type Options struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgents   []string
}

// Client fetches pages with a per-request timeout, a body-size limit and a
// randomized User-Agent picked from an injected rotation list. It is safe for
// concurrent use.
type Client struct {
	httpClient   *http.Client
	maxBodyBytes int64
	userAgents   []string
	pick         func(n int) int
}

// Response is a fetched page. Status is reported as-is; callers decide what a
// non-success status means.
type Response struct {
	URL         string
	FinalURL    string
	Status      int
	ContentType string
	Body        string
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

func NewClient(opts Options) *Client {
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		maxBodyBytes: maxBody,
		userAgents:   append([]string(nil), opts.UserAgents...),
		pick:         rand.IntN,
	}
}

// UserAgent returns one entry of the rotation list, or "" when the list is empty.
func (c *Client) UserAgent() string {
	if len(c.userAgents) == 0 {
		return ""
	}
	return c.userAgents[c.pick(len(c.userAgents))]
}

// Fetch issues a GET for rawURL. Transport failures, timeouts and unreadable
// bodies are returned as errors; any HTTP status is a successful fetch.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		metrics.PageFetches.WithLabelValues("invalid_url").Inc()
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		metrics.PageFetches.WithLabelValues("invalid_url").Inc()
		return nil, fmt.Errorf("url must use http or https: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, err
	}
	if ua := c.UserAgent(); ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.PageFetches.WithLabelValues("transport_error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	body, err := readBody(io.LimitReader(resp.Body, c.maxBodyBytes), contentType)
	if err != nil {
		metrics.PageFetches.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("read body: %w", err)
	}
	metrics.PageFetchDuration.Observe(time.Since(start).Seconds())

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	out := &Response{
		URL:         rawURL,
		FinalURL:    finalURL,
		Status:      resp.StatusCode,
		ContentType: normalizeContentType(contentType),
		Body:        body,
	}
	if out.OK() {
		metrics.PageFetches.WithLabelValues("ok").Inc()
	} else {
		metrics.PageFetches.WithLabelValues("bad_status").Inc()
	}
	return out, nil
}

// readBody decodes the body to UTF-8 using the declared or sniffed charset.
func readBody(r io.Reader, contentType string) (string, error) {
	decoded, err := charset.NewReader(r, contentType)
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(decoded)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func normalizeContentType(value string) string {
	if value == "" {
		return "application/octet-stream"
	}
	parts := strings.Split(value, ";")
	return strings.ToLower(strings.TrimSpace(parts[0]))
}
