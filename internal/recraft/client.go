package recraft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/recraft/internal/domain"
	"github.com/mmcdole/recraft/internal/progress"
)

const (
	// DefaultBaseURL is the public API host
	DefaultBaseURL = "https://external.api.recraft.ai/v1"

	// DefaultTimeout bounds one request when the caller sets none
	DefaultTimeout = 30 * time.Second

	userAgent = "recraft-cli/1.0"
)

// Endpoints holds the path of each operation relative to the base URL
type Endpoints struct {
	Generate          string
	RemoveBackground  string
	Vectorize         string
	ClarityUpscale    string
	GenerativeUpscale string
}

// DefaultEndpoints returns the paths published by the API
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Generate:          "/images/generations",
		RemoveBackground:  "/images/removeBackground",
		Vectorize:         "/images/vectorize",
		ClarityUpscale:    "/images/clarityUpscale",
		GenerativeUpscale: "/images/generativeUpscale",
	}
}

// Path returns the endpoint path for op
func (e Endpoints) Path(op domain.Operation) (string, error) {
	switch op {
	case domain.OpGenerate:
		return e.Generate, nil
	case domain.OpRemoveBackground:
		return e.RemoveBackground, nil
	case domain.OpVectorize:
		return e.Vectorize, nil
	case domain.OpClarityUpscale:
		return e.ClarityUpscale, nil
	case domain.OpGenerativeUpscale:
		return e.GenerativeUpscale, nil
	default:
		return "", fmt.Errorf("unknown operation: %s", op)
	}
}

// TokenSource supplies the bearer token. Implementations may prompt the user.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token
type StaticToken string

// Token returns t, or domain.ErrNoToken when t is empty
func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", domain.ErrNoToken
	}
	return string(t), nil
}

// CoordinatorFunc creates the progress coordinator for one operation
type CoordinatorFunc func(op domain.Operation, surface progress.Surface) progress.Coordinator

// Options configures the client
type Options struct {
	// BaseURL of the API.
	// Default: DefaultBaseURL
	BaseURL string

	// Endpoints per operation.
	// Default: DefaultEndpoints()
	Endpoints Endpoints

	// Styles accepted by Generate.
	// Default: domain.DefaultStyles()
	Styles *domain.StyleSet

	// Tokens supplies the bearer token (required).
	Tokens TokenSource

	// HTTPClient performs requests.
	// Default: a client without its own timeout; calls are bounded by context.
	HTTPClient *http.Client

	// Display receives the progress bar. Nil disables the display.
	Display io.Writer

	// Interval between progress refreshes.
	// Default: progress.DefaultInterval
	Interval time.Duration

	// Coordinator overrides coordinator selection.
	// Default: Background for generation, Cooperative for uploads.
	Coordinator CoordinatorFunc

	Logger *slog.Logger
}

// CallOptions tunes a single call
type CallOptions struct {
	ResponseFormat domain.ResponseFormat
	Timeout        time.Duration
}

// Client issues guarded requests against the image API
type Client struct {
	baseURL     string
	endpoints   Endpoints
	styles      domain.StyleSet
	tokens      TokenSource
	httpClient  *http.Client
	display     io.Writer
	interval    time.Duration
	coordinator CoordinatorFunc
	logger      *slog.Logger
}

// New creates a new API client
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Endpoints == (Endpoints{}) {
		opts.Endpoints = DefaultEndpoints()
	}
	styles := domain.DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}
	if opts.Tokens == nil {
		opts.Tokens = StaticToken("")
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		endpoints:   opts.Endpoints,
		styles:      styles,
		tokens:      opts.Tokens,
		httpClient:  opts.HTTPClient,
		display:     opts.Display,
		interval:    opts.Interval,
		coordinator: opts.Coordinator,
		logger:      opts.Logger,
	}
	if c.coordinator == nil {
		c.coordinator = c.defaultCoordinator
	}
	return c
}

// Styles returns the allow-list used by Generate
func (c *Client) Styles() domain.StyleSet {
	return c.styles
}

// defaultCoordinator uses a background refresher for the blocking JSON call
// and a caller-driven one for uploads.
func (c *Client) defaultCoordinator(op domain.Operation, surface progress.Surface) progress.Coordinator {
	opts := progress.Options{Interval: c.interval}
	if op == domain.OpGenerate {
		return progress.NewBackground(surface, opts)
	}
	return progress.NewCooperative(surface, opts)
}

func (c *Client) surface(op domain.Operation) progress.Surface {
	if c.display == nil {
		return progress.Discard
	}
	return progress.NewBar(c.display, op.Label())
}

func (c *Client) endpointURL(op domain.Operation) (string, error) {
	path, err := c.endpoints.Path(op)
	if err != nil {
		return "", err
	}
	return c.baseURL + path, nil
}

// requestFunc builds the outbound request for one attempt
type requestFunc func(ctx context.Context) (*http.Request, error)

// execute runs build+send bracketed by the operation's progress coordinator.
// The coordinator is stopped before execute returns on every path.
func (c *Client) execute(ctx context.Context, op domain.Operation, token string, call CallOptions, build requestFunc) (*domain.Result, error) {
	timeout := call.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	coord := c.coordinator(op, c.surface(op))

	var result *domain.Result
	err := progress.Guard(coord, func() error {
		return progress.Await(ctx, coord, func(ctx context.Context) error {
			var err error
			result, err = c.send(ctx, op, token, build)
			return err
		})
	})
	if err != nil {
		return nil, classify(err)
	}
	return result, nil
}

// send performs the HTTP exchange and parses the response
func (c *Client) send(ctx context.Context, op domain.Operation, token string, build requestFunc) (*domain.Result, error) {
	req, err := build(ctx)
	if err != nil {
		return nil, &domain.UnexpectedError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("recraft request", "operation", op, "method", req.Method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("recraft request failed", "operation", op, "error", err)
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("recraft response read failed", "operation", op, "error", err)
		return nil, &domain.TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("recraft request error", "operation", op, "status", resp.StatusCode, "body", string(body))
		return nil, &domain.HTTPStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	result, err := parseResult(body)
	if err != nil {
		c.logger.Error("recraft response parse error", "operation", op, "error", err, "bodyLen", len(body))
		return nil, err
	}

	c.logger.Info("recraft request completed", "operation", op, "url", result.IsURL())
	return result, nil
}

// parseResult extracts the image URL ("image.url" for uploads, "data[0].url"
// for generation). Responses without one are returned inline.
func parseResult(body []byte) (*domain.Result, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &domain.UnexpectedError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if payload == nil {
		return nil, &domain.UnexpectedError{Err: errors.New("empty response body")}
	}

	if img, ok := payload["image"].(map[string]any); ok {
		if u, ok := img["url"].(string); ok && u != "" {
			return domain.URLResult(u), nil
		}
	}
	if data, ok := payload["data"].([]any); ok && len(data) > 0 {
		if first, ok := data[0].(map[string]any); ok {
			if u, ok := first["url"].(string); ok && u != "" {
				return domain.URLResult(u), nil
			}
		}
	}
	return domain.InlinePayload(payload), nil
}

// classify maps errors that escaped send (panics, unknown failures)
// into the domain taxonomy.
func classify(err error) error {
	var (
		status     *domain.HTTPStatusError
		transport  *domain.TransportError
		unexpected *domain.UnexpectedError
	)
	if errors.As(err, &status) || errors.As(err, &transport) || errors.As(err, &unexpected) {
		return err
	}
	return &domain.UnexpectedError{Err: err}
}
