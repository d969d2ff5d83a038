// Package renderclient talks to the remote rendering service that turns a
// region's substituted source text into markup.
package renderclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// ContentModelWikitext is the only content model the engine requests.
const ContentModelWikitext = "wikitext"

var tracer = otel.Tracer("finitefield.org/hanko-fragments/internal/fragment/renderclient")

// ErrRenderFailed wraps every transport or service-level failure. Callers do
// not differentiate error codes; any failure maps to an empty render.
var ErrRenderFailed = errors.New("renderclient: render failed")

// Request is the payload sent to the rendering service.
type Request struct {
	ContentModel string `json:"contentModel"`
	PageName     string `json:"pageName"`
	Content      string `json:"content"`
}

// Response is the successful service reply.
type Response struct {
	HTML string `json:"html"`
}

// Service is the rendering boundary the engine depends on.
type Service interface {
	Render(ctx context.Context, req Request) (string, error)
}

// Func adapts a plain function to the Service interface.
type Func func(ctx context.Context, req Request) (string, error)

// Render implements Service.
func (f Func) Render(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Client is the HTTP implementation of Service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger attaches a logger for request failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a client against the service base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render posts the request to {base}/render and returns the rendered markup.
func (c *Client) Render(ctx context.Context, req Request) (string, error) {
	ctx, span := tracer.Start(ctx, "fragment.render")
	defer span.End()
	span.SetAttributes(
		attribute.String("fragment.page", req.PageName),
		attribute.String("fragment.content_model", req.ContentModel),
	)

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrRenderFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrRenderFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, resp.Status)
		c.logger.Warn("render service returned error status",
			zap.String("page", req.PageName),
			zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%w: unexpected status %d", ErrRenderFailed, resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("%w: decode response: %v", ErrRenderFailed, err)
	}
	return out.HTML, nil
}
