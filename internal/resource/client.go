package resource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/vk/filepanel/internal/async"
)

// Methods of the remote resource protocol.
const (
	MethodGet    = http.MethodGet
	MethodPut    = http.MethodPut
	MethodDelete = http.MethodDelete
	MethodMkcol  = "MKCOL"
)

// ErrBodyTooLarge is the cause of a TransportError when a response exceeds
// the configured body limit.
var ErrBodyTooLarge = errors.New("resource: response body too large")

// Client issues one remote operation per Call.
type Client struct {
	base    *url.URL
	http    *http.Client
	loop    *async.Loop
	logger  *slog.Logger
	maxBody int64
}

// NewClient returns a client resolving locations against baseURL. Futures
// returned by Call run their continuations on loop.
func NewClient(baseURL string, loop *async.Loop, opts ...Option) (*Client, error) {
	if loop == nil {
		return nil, errors.New("resource: nil loop")
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	hc := &http.Client{}
	if cfg.httpClient != nil {
		c := *cfg.httpClient
		hc = &c
	}
	hc.Transport = Chain(hc.Transport, cfg.middlewares...)

	return &Client{
		base:    base,
		http:    hc,
		loop:    loop,
		logger:  cfg.logger,
		maxBody: cfg.maxBody,
	}, nil
}

// BaseURL returns the URL locations are resolved against.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Call performs method on location, sending body when it is non-nil. The
// returned future resolves with the response body, or rejects with a
// *RemoteError or *TransportError.
func (c *Client) Call(ctx context.Context, method, location string, body []byte) *async.Future[string] {
	return async.Go(c.loop, func() (text string, err error) {
		defer func() {
			if p := recover(); p != nil {
				err = &TransportError{Cause: fmt.Errorf("panic during request: %v", p)}
			}
		}()
		return c.do(ctx, method, location, body)
	})
}

func (c *Client) do(ctx context.Context, method, location string, body []byte) (string, error) {
	target, err := c.resolve(location)
	if err != nil {
		return "", &TransportError{Cause: err}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return "", &TransportError{Cause: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Cause: err}
	}

	data, err := readAllAndClose(resp.Body, c.maxBody)
	if err != nil {
		return "", &TransportError{Cause: err}
	}

	if resp.StatusCode >= 400 {
		c.logger.Debug("Remote operation failed", "method", method, "location", location, "status", resp.StatusCode)
		return "", &RemoteError{StatusCode: resp.StatusCode, StatusText: statusText(resp)}
	}
	return string(data), nil
}

// resolve joins location onto the base URL. Locations are taken verbatim:
// no cleaning or traversal checks happen here.
func (c *Client) resolve(location string) (string, error) {
	if !strings.HasPrefix(location, "/") {
		location = "/" + location
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid location %q: %w", location, err)
	}
	u := *c.base
	u.Path = strings.TrimSuffix(c.base.Path, "/") + ref.Path
	u.RawPath = ""
	u.RawQuery = ref.RawQuery
	return u.String(), nil
}

// statusText extracts the reason phrase, falling back to the standard text.
func statusText(resp *http.Response) string {
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode))); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func readAllAndClose(body io.ReadCloser, limit int64) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	defer func() {
		_ = body.Close()
	}()
	if limit <= 0 {
		return io.ReadAll(body)
	}
	b, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, ErrBodyTooLarge
	}
	return b, nil
}
