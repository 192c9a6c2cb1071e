package duffel

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/usestring/find-flights-mcp/pkg/contenttype"
)

// Defaults for the Duffel Air API.
const (
	DefaultBaseURL        = "https://api.duffel.com/air"
	DefaultAPIVersion     = "v2"
	DefaultRequestTimeout = 60 * time.Second
	DefaultRetryBackoff   = time.Second
)

// maxAttempts bounds offer request creation to one retry.
const maxAttempts = 2

// Client is a Duffel Air API client. It is safe for concurrent use; all
// configuration is fixed at construction.
type Client struct {
	baseURL        string
	token          string
	version        string
	httpClient     *http.Client
	requestTimeout time.Duration
	retryBackoff   time.Duration
	cache          Cache
	limiter        *rate.Limiter

	inflight singleflight.Group
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAPIVersion sets the Duffel-Version header.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.version = version
	}
}

// WithRequestTimeout bounds each HTTP attempt, including reading the body.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.requestTimeout = d
	}
}

// WithRetryBackoff sets the pause between the two offer request attempts.
func WithRetryBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.retryBackoff = d
	}
}

// WithCache sets the cache consulted by CreateOfferRequest.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithRateLimiter throttles every outbound request, retries included.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// New creates a new Duffel API client authenticating with token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:        DefaultBaseURL,
		token:          token,
		version:        DefaultAPIVersion,
		httpClient:     http.DefaultClient,
		requestTimeout: DefaultRequestTimeout,
		retryBackoff:   DefaultRetryBackoff,
		cache:          noCache{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = noCache{}
	}
	return c
}

// BaseURL returns the API base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call describes one HTTP exchange.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
	schema *jsonschema.Schema
}

// do performs a single attempt and decodes the validated response into result.
// Timeouts are reported wrapped in ErrTransportTimeout.
func (c *Client) do(ctx context.Context, cl call, result any) error {
	start := time.Now()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	u, err := url.Parse(c.baseURL + cl.path)
	if err != nil {
		return fmt.Errorf("parsing URL: %w", err)
	}
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}

	var reqBody io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, cl.method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("HTTP request failed",
			slog.String("method", cl.method),
			slog.String("path", cl.path),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return classify(ctx, fmt.Errorf("executing request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := readBody(resp)
	if err != nil {
		return classify(ctx, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Debug("HTTP request returned error",
			slog.String("method", cl.method),
			slog.String("path", cl.path),
			slog.Int("status", resp.StatusCode),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return parseError(resp.StatusCode, resp.Header.Get("Content-Type"), raw)
	}

	// Text and untyped bodies are still attempted as JSON; markup never is.
	ct := resp.Header.Get("Content-Type")
	category := contenttype.Classify(ct)
	switch category {
	case contenttype.HTML, contenttype.XML:
		return fmt.Errorf("decoding response: got %s document instead of JSON", ct)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if cl.schema != nil {
		if err := checkEnvelope(cl.schema, generic); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	slog.Debug("HTTP request completed",
		slog.String("method", cl.method),
		slog.String("path", cl.path),
		slog.Int("status", resp.StatusCode),
		slog.String("content", string(category)),
		slog.Int("bytes", len(raw)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Duffel-Version", c.version)
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
}

// readBody reads the whole body, inflating it when the server gzipped it.
// Setting Accept-Encoding by hand disables the transport's own decompression.
func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(r)
}

// parseError extracts an APIError from an error response. HTML bodies come
// from gateways in front of Duffel and are summarised, not echoed.
func parseError(status int, contentType string, body []byte) error {
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil && len(errResp.Errors) > 0 {
		return errResp.toAPIError(status)
	}
	if contenttype.IsHTML(contentType) {
		return &APIError{StatusCode: status, Message: http.StatusText(status) + " (HTML error page)"}
	}
	return &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}
}

// classify marks err as a transport timeout when the attempt deadline or the
// transport expired while the caller's own context is still live. A cancelled
// caller is never a timeout.
//
// Dial timeouts count as transport timeouts. The request never reached Duffel
// then, so the single retry cannot duplicate an offer request. Refused or
// reset connections are not timeouts and are not retried.
func classify(parent context.Context, err error) error {
	if parent.Err() != nil {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTransportTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTransportTimeout, err)
	}
	return err
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
