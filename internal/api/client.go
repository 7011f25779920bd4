package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	ghAPI "github.com/cli/go-gh/v2/pkg/api"
	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
)

// anonymousToken is sent when the dashboard back end needs no credential.
// go-gh resolves a token from the gh config when none is given, which is
// never what we want here.
const anonymousToken = "anonymous"

// Client talks to the dashboard back end. Paths are resolved against the
// configured base URL and handed to go-gh as absolute URLs.
type Client struct {
	rest    *ghAPI.RESTClient
	baseURL *url.URL
	logger  arbor.ILogger
}

type Options struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	Transport http.RoundTripper
	Logger    arbor.ILogger
}

func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}

	token := opts.Token
	if token == "" {
		token = anonymousToken
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	logger := opts.Logger
	if logger == nil {
		logger = arbor.NewLogger()
	}

	rest, err := ghAPI.NewRESTClient(ghAPI.ClientOptions{
		Host:      base.Host,
		AuthToken: token,
		Timeout:   opts.Timeout,
		Transport: requestIDTransport{base: transport},
		Headers:   map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create back-end client: %w", err)
	}
	return &Client{rest: rest, baseURL: base, logger: logger}, nil
}

func (c *Client) BaseURL() string {
	return strings.TrimRight(c.baseURL.String(), "/")
}

func (c *Client) endpoint(path string) string {
	ref, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return c.baseURL.String() + strings.TrimLeft(path, "/")
	}
	return c.baseURL.ResolveReference(ref).String()
}

func (c *Client) Get(ctx context.Context, op, path string, result interface{}) error {
	return c.do(ctx, op, http.MethodGet, path, nil, result)
}

func (c *Client) Post(ctx context.Context, op, path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	return c.do(ctx, op, http.MethodPost, path, reader, result)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, result interface{}) error {
	reqID := uuid.NewString()
	target := c.endpoint(path)
	start := time.Now()

	c.logger.Debug().Str("request_id", reqID).Str("method", method).Str("url", target).Msg("back-end request")

	ctx = context.WithValue(ctx, requestIDKey{}, reqID)
	resp, err := c.rest.RequestWithContext(ctx, method, target, body)
	if err != nil {
		cerr := connectionError(op, err)
		c.logger.Warn().Err(err).Str("request_id", reqID).Str("op", op).Int("status", cerr.Status).Msg("back-end request failed")
		return cerr
	}
	defer resp.Body.Close()

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
			c.logger.Warn().Err(err).Str("request_id", reqID).Str("op", op).Msg("decode back-end response")
			return connectionError(op, fmt.Errorf("decode response: %w", err))
		}
	}

	c.logger.Debug().Str("request_id", reqID).Str("op", op).Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).Msg("back-end request done")
	return nil
}

type requestIDKey struct{}

// requestIDTransport stamps X-Request-Id so back-end logs can be matched
// with ours.
type requestIDTransport struct {
	base http.RoundTripper
}

func (t requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if id, ok := req.Context().Value(requestIDKey{}).(string); ok && id != "" {
		req = req.Clone(req.Context())
		req.Header.Set("X-Request-Id", id)
	}
	return t.base.RoundTrip(req)
}
