package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/erraggy/restgen"
	"github.com/erraggy/restgen/pagination"
)

// HTTPDoer performs HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestEditorFn is a function that can modify an HTTP request.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// ClientOption is a function that configures a Client.
type ClientOption func(*Client) error

// Client is the API client shared by every resource of a generated SDK.
type Client struct {
	// BaseURL is the base URL for API requests.
	BaseURL string
	// HTTPClient is the HTTP client to use for requests.
	HTTPClient HTTPDoer
	// UserAgent is the User-Agent header value for requests.
	UserAgent string
	// RequestEditors are functions that can modify requests before sending.
	RequestEditors []RequestEditorFn
}

// New creates a client for baseURL.
func New(baseURL string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		UserAgent:  restgen.UserAgent(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client HTTPDoer) ClientOption {
	return func(c *Client) error {
		if client == nil {
			return fmt.Errorf("restclient: nil HTTP client")
		}
		c.HTTPClient = client
		return nil
	}
}

// WithRequestEditor adds a request editor function.
func WithRequestEditor(fn RequestEditorFn) ClientOption {
	return func(c *Client) error {
		c.RequestEditors = append(c.RequestEditors, fn)
		return nil
	}
}

// WithUserAgent sets the User-Agent header value.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) error {
		c.UserAgent = ua
		return nil
	}
}

// WithBearerToken sends "Authorization: Bearer <token>" on every request.
func WithBearerToken(token string) ClientOption {
	return WithRequestEditor(func(_ context.Context, req *http.Request) error {
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	})
}

// Message is an optional request body with its content type.
type Message struct {
	Body        io.Reader
	ContentType string
	// Header holds header parameters of the operation.
	Header http.Header
}

// JSONBody encodes v as a JSON message.
func JSONBody(v any) (Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Message{}, fmt.Errorf("restclient: marshal request body: %w", err)
	}
	return Message{Body: bytes.NewReader(data), ContentType: "application/json"}, nil
}

// FormBody encodes values as a form message.
func FormBody(values url.Values) Message {
	return Message{
		Body:        strings.NewReader(values.Encode()),
		ContentType: "application/x-www-form-urlencoded",
	}
}

// RawBody sends r unchanged with the given content type.
func RawBody(r io.Reader, contentType string) Message {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return Message{Body: r, ContentType: contentType}
}

// Response is a successful response with its body read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, uri string, msg Message) (*Response, error) {
	return c.Do(ctx, http.MethodGet, uri, msg)
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, uri string, msg Message) (*Response, error) {
	return c.Do(ctx, http.MethodPost, uri, msg)
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, uri string, msg Message) (*Response, error) {
	return c.Do(ctx, http.MethodPut, uri, msg)
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, uri string, msg Message) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, uri, msg)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, uri string, msg Message) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, uri, msg)
}

// Do issues a request. uri is relative to BaseURL unless it is absolute.
func (c *Client) Do(ctx context.Context, method, uri string, msg Message) (*Response, error) {
	target := c.resolve(uri)
	req, err := http.NewRequestWithContext(ctx, method, target, msg.Body)
	if err != nil {
		return nil, fmt.Errorf("restclient: create request: %w", err)
	}
	for name, values := range msg.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if msg.ContentType != "" {
		req.Header.Set("Content-Type", msg.ContentType)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if !IsReentrant(ctx) {
		for _, editor := range c.RequestEditors {
			if err := editor(ctx, req); err != nil {
				return nil, fmt.Errorf("restclient: request editor: %w", err)
			}
		}
	}

	doer := c.HTTPClient
	if doer == nil {
		doer = http.DefaultClient
	}
	resp, err := doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("restclient: execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("restclient: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, &Error{
			Method: method,
			URL:    target,
			Code:   resp.StatusCode,
			Status: statusText(resp),
			Body:   body,
		}
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func (c *Client) resolve(uri string) string {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return uri
	}
	if uri != "" && !strings.HasPrefix(uri, "/") && !strings.HasPrefix(uri, "?") {
		uri = "/" + uri
	}
	return c.BaseURL + uri
}

func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

// Fetch implements pagination.Fetcher.
func (c *Client) Fetch(ctx context.Context, uri string) (*pagination.Page, error) {
	resp, err := c.Get(ctx, uri, Message{})
	if err != nil {
		return nil, err
	}
	return &pagination.Page{StatusCode: resp.StatusCode, Header: resp.Header, Body: resp.Body}, nil
}

// Pager returns a Fetcher that sends header with every page request.
func (c *Client) Pager(header http.Header) pagination.Fetcher {
	return pagination.FetcherFunc(func(ctx context.Context, uri string) (*pagination.Page, error) {
		resp, err := c.Get(ctx, uri, Message{Header: header})
		if err != nil {
			return nil, err
		}
		return &pagination.Page{StatusCode: resp.StatusCode, Header: resp.Header, Body: resp.Body}, nil
	})
}

// GetAllPages walks a bare-array collection by following Link headers.
func GetAllPages[T any](ctx context.Context, c *Client, uri string) ([]T, error) {
	return pagination.All[T](ctx, c, uri, pagination.LinkHeader{})
}

// Ensure Client implements pagination.Fetcher at compile time.
var _ pagination.Fetcher = (*Client)(nil)
