package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a request when the caller supplies no deadline.
const DefaultTimeout = 10 * time.Second

// Options customizes a single request.
type Options struct {
	Method  string
	Headers map[string]string
	Body    []byte
	Timeout time.Duration
}

// Response holds an already-received payload and exposes lazy accessors over it.
type Response struct {
	Status int
	header http.Header
	body   []byte
}

// Client issues HTTP requests with a bounded timeout and buffered responses.
type Client struct {
	hc *http.Client
}

// New creates a Client with the default timeout.
func New() *Client {
	return &Client{hc: &http.Client{Timeout: DefaultTimeout}}
}

// Fetch performs the request and reads the whole body into memory.
// Network failures and timeouts return an error; a malformed JSON body does
// not — JSON() reports that when invoked.
func (c *Client) Fetch(ctx context.Context, url string, opts Options) (*Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(opts.Body) > 0 {
		body = bytes.NewReader(opts.Body)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", url, err)
	}

	return &Response{
		Status: resp.StatusCode,
		header: resp.Header.Clone(),
		body:   payload,
	}, nil
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Header returns a response header value ("" when absent).
func (r *Response) Header(name string) string {
	return r.header.Get(name)
}

// Bytes returns the received payload.
func (r *Response) Bytes() []byte { return r.body }

// Text returns the payload as a string.
func (r *Response) Text() string { return string(r.body) }

// JSON decodes the payload into v. Parse errors surface here, not at fetch time.
func (r *Response) JSON(v interface{}) error {
	if err := json.Unmarshal(r.body, v); err != nil {
		return fmt.Errorf("decode json body: %w", err)
	}
	return nil
}
