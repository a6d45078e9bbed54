package blackd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Formatter sends reformat requests to blackd.
// This interface is implemented by *Client and can be used for testing.
type Formatter interface {
	Format(ctx context.Context, req Request) Response
}

// Prober checks whether blackd is listening.
type Prober interface {
	Check(ctx context.Context) Connectivity
}

// Ensure Client implements Formatter and Prober at compile time.
var (
	_ Formatter = (*Client)(nil)
	_ Prober    = (*Client)(nil)
)

// Client talks to a blackd instance.
//
// No request timeout is configured: a call is bounded only by the context the
// caller passes in. A daemon that accepts the connection and never answers
// will hold the call for as long as that context lives.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

const (
	defaultAddress   = "localhost:45484"
	defaultUserAgent = "blackconnect/0.1"
	connectFailed    = "Connection failed."
)

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a Client for the given address. Both "host:port" and full
// "http://host:port" forms are accepted.
func NewClient(address string, opts ...ClientOption) (*Client, error) {
	base, err := parseBaseURL(address)
	if err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableKeepAlives = true

	c := &Client{
		baseURL:   base,
		http:      &http.Client{Transport: transport},
		userAgent: defaultUserAgent,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Address renders host:port as a base URL.
func Address(host string, port int) string {
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// BaseURL returns the daemon URL requests are posted to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Format posts req.Source to req.Endpoint, or the base URL when it is empty,
// and returns the raw status and body.
// Failures never surface as errors: a failed connection yields
// StatusConnectionFailed plus the reason, and a broken response stream yields
// the status already received plus whatever body could be read.
func (c *Client) Format(ctx context.Context, req Request) Response {
	if c == nil {
		return Response{StatusCode: StatusConnectionFailed, Body: "client is nil"}
	}
	target := c.baseURL
	if req.Endpoint != "" {
		u, err := parseBaseURL(req.Endpoint)
		if err != nil {
			return Response{StatusCode: StatusConnectionFailed, Body: err.Error()}
		}
		target = u
	}
	httpReq, err := c.newRequest(ctx, target, strings.NewReader(req.Source))
	if err != nil {
		return Response{StatusCode: StatusConnectionFailed, Body: err.Error()}
	}
	for name, value := range req.Options.headers() {
		httpReq.Header.Set(name, value)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug("blackd request failed", "url", target.String(), "error", err)
		return Response{StatusCode: StatusConnectionFailed, Body: failureReason(err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Debug("blackd response read failed", "status", resp.StatusCode, "error", err)
	}
	return Response{StatusCode: resp.StatusCode, Body: string(body)}
}

// Check performs a bodyless POST and reports the advertised black version.
func (c *Client) Check(ctx context.Context) Connectivity {
	if c == nil {
		return Connectivity{Reachable: false, Detail: "client is nil"}
	}
	endpoint := c.baseURL.String()
	httpReq, err := c.newRequest(ctx, c.baseURL, nil)
	if err != nil {
		return Connectivity{Reachable: false, Detail: err.Error(), Endpoint: endpoint}
	}
	httpReq.Header.Set(HeaderProtocolVersion, protocolVersion)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Connectivity{Reachable: false, Detail: failureReason(err), Endpoint: endpoint}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	version := strings.TrimSpace(resp.Header.Get(HeaderBlackVersion))
	if version == "" {
		version = "unknown"
	}
	return Connectivity{Reachable: true, Detail: version, Endpoint: endpoint}
}

// CheckConnection probes blackd at host:port in one call.
func CheckConnection(ctx context.Context, host string, port int) Connectivity {
	c, err := NewClient(Address(host, port))
	if err != nil {
		return Connectivity{Reachable: false, Detail: err.Error(), Endpoint: Address(host, port)}
	}
	return c.Check(ctx)
}

func (c *Client) newRequest(ctx context.Context, target *url.URL, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	return req, nil
}

func failureReason(err error) string {
	if err == nil {
		return connectFailed
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return connectFailed
}

func parseBaseURL(address string) (*url.URL, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		trimmed = defaultAddress
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse blackd address %q: %w", address, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse blackd address %q: missing host", address)
	}
	u.Path = "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
