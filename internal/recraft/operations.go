package recraft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmcdole/recraft/internal/domain"
)

type generateRequest struct {
	Prompt         string                `json:"prompt"`
	Style          string                `json:"style"`
	ResponseFormat domain.ResponseFormat `json:"response_format,omitempty"`
}

// Generate creates an image from prompt in the given style. An empty style
// selects domain.DefaultStyle. Styles outside the allow-list fail with a
// *domain.ValidationError before any token lookup or request.
func (c *Client) Generate(ctx context.Context, prompt, style string, call CallOptions) (*domain.Result, error) {
	if style == "" {
		style = domain.DefaultStyle
	}
	if err := c.styles.Validate(style); err != nil {
		return nil, err
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, domain.ErrEmptyPrompt
	}

	endpoint, err := c.endpointURL(domain.OpGenerate)
	if err != nil {
		return nil, err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	payload, err := json.Marshal(generateRequest{
		Prompt:         prompt,
		Style:          style,
		ResponseFormat: call.ResponseFormat,
	})
	if err != nil {
		return nil, &domain.UnexpectedError{Err: fmt.Errorf("encode request: %w", err)}
	}

	return c.execute(ctx, domain.OpGenerate, token, call, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
}

// Process uploads the image at filePath to the endpoint of op
func (c *Client) Process(ctx context.Context, op domain.Operation, filePath string, call CallOptions) (*domain.Result, error) {
	if op == domain.OpGenerate {
		return nil, fmt.Errorf("%s does not take a file upload", op)
	}
	endpoint, err := c.endpointURL(op)
	if err != nil {
		return nil, err
	}
	if call.ResponseFormat != domain.FormatDefault {
		endpoint += "?" + url.Values{"response_format": {string(call.ResponseFormat)}}.Encode()
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, &domain.UnexpectedError{Err: err}
	}
	defer f.Close()

	return c.execute(ctx, op, token, call, func(ctx context.Context) (*http.Request, error) {
		body, contentType, err := multipartBody(f)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
}

// multipartBody encodes f as the "file" field of a multipart form
func multipartBody(f *os.File) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filepath.Base(f.Name()))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read %s: %w", f.Name(), err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// RemoveBackground removes the background of a raster image
func (c *Client) RemoveBackground(ctx context.Context, filePath string, call CallOptions) (*domain.Result, error) {
	return c.Process(ctx, domain.OpRemoveBackground, filePath, call)
}

// Vectorize converts a raster image to SVG
func (c *Client) Vectorize(ctx context.Context, filePath string, call CallOptions) (*domain.Result, error) {
	return c.Process(ctx, domain.OpVectorize, filePath, call)
}

// Upscale enhances a raster image. An unknown mode returns
// domain.ErrInvalidMode before any request is built.
func (c *Client) Upscale(ctx context.Context, filePath string, mode domain.UpscaleMode, call CallOptions) (*domain.Result, error) {
	m, err := domain.ParseUpscaleMode(string(mode))
	if err != nil {
		return nil, err
	}
	return c.Process(ctx, m.Operation(), filePath, call)
}
