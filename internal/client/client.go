package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/user/site-cloner/internal/preview"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 180 * time.Second

	maxErrorBody = 64 << 10
)

// ServerError is a non-2xx response from the clone service.
type ServerError struct {
	StatusCode int
	StatusText string
	Detail     string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "An error occurred: " + e.StatusText
}

// TransportError means no usable response was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil || e.Err.Error() == "" {
		return "An unknown network error occurred."
	}
	return "Failed to connect to the backend or other network error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Response is a successful clone.
type Response struct {
	HTML string
	ID   string // empty when the backend does not report one
}

type cloneRequest struct {
	URL string `json:"url"`
}

type cloneResponse struct {
	HTML string `json:"html"`
	ID   string `json:"id"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Client talks to the clone service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

// WithTimeout bounds a whole clone request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clone posts pageURL to /clone. Errors are *ServerError or *TransportError.
func (c *Client) Clone(ctx context.Context, pageURL string) (*Response, error) {
	body, err := json.Marshal(cloneRequest{URL: pageURL})
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/clone", bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("clone request failed", zap.String("url", pageURL), zap.Error(err))
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("clone response received",
		zap.String("url", pageURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serverError(resp)
	}

	var out cloneResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return &Response{HTML: out.HTML, ID: out.ID}, nil
}

func serverError(resp *http.Response) *ServerError {
	e := &ServerError{
		StatusCode: resp.StatusCode,
		StatusText: statusText(resp),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return e
	}
	var body errorResponse
	if json.Unmarshal(raw, &body) == nil {
		e.Detail = body.Detail
	}
	return e
}

// statusText is the reason phrase the server sent, or the standard one when
// the server sent none.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// PreviewURL is the service page rendering clone id in a sandboxed frame.
func (c *Client) PreviewURL(id string, device preview.Device) string {
	return c.baseURL + "/api/clones/" + url.PathEscape(id) + "/preview?device=" + url.QueryEscape(string(device))
}
