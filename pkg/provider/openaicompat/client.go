package openaicompat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rhuss/vendorchat/pkg/api"
	"github.com/rhuss/vendorchat/pkg/debug"
)

const (
	// DefaultTimeout bounds one vendor round trip.
	DefaultTimeout = 30 * time.Second

	chatCompletionsPath = "/chat/completions"
	maxResponseBody     = 32 << 20
)

// RawResponse is the unparsed result of a round trip.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status.
func (r *RawResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client posts JSON payloads to a vendor's chat completions endpoint.
// It is safe for concurrent use and holds one pooled http.Client.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	timeout    time.Duration
}

// NewClient builds a Client for baseURL. A nil httpClient gets a pooled
// transport; timeout <= 0 means DefaultTimeout.
func NewClient(baseURL, apiKey string, timeout time.Duration, httpClient *http.Client) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = newHTTPClient()
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(baseURL, "/") + chatCompletionsPath,
		apiKey:     apiKey,
		timeout:    timeout,
	}
}

// newHTTPClient returns a client with a pooled transport. The per-call
// deadline comes from the request context.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          50,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// Endpoint returns the full URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Post sends payload in a single POST and returns the raw reply. Network
// failures, deadlines and cancellation come back as TransportErrors; the
// status code is not interpreted.
func (c *Client) Post(ctx context.Context, payload []byte) (*RawResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	debug.Log(debug.Providers, "vendor request", "url", c.endpoint, "bytes", len(payload))
	debug.Raw(debug.Providers, string(payload))

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		mapped := MapNetworkError(ctx, err)
		slog.Debug("vendor round trip failed", "url", c.endpoint, "code", mapped.Code, "error", err)
		return nil, mapped
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return nil, MapNetworkError(ctx, err)
	}

	debug.Log(debug.Providers, "vendor response",
		"status", httpResp.StatusCode, "bytes", len(body), "elapsed", time.Since(start))
	debug.Raw(debug.Providers, string(body))

	return &RawResponse{StatusCode: httpResp.StatusCode, Body: body}, nil
}

// Close drops idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
