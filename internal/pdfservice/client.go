// Package pdfservice talks to the external HTML-to-PDF rendering service.
// The service is a black box: it accepts HTML plus print options and answers with PDF bytes.
package pdfservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/rezoom/internal/logging"
)

// DefaultTimeout bounds a single render request
const DefaultTimeout = 30 * time.Second

// MaxPDFBytes caps how much of the service's answer is read
const MaxPDFBytes = 20 << 20

var pdfMagic = []byte("%PDF-")

// Error is the single failure reported for any PDF generation problem
type Error struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("PDF generation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("PDF generation failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Margin is a page margin in CSS units
type Margin struct {
	Top    string `json:"top"`
	Right  string `json:"right"`
	Bottom string `json:"bottom"`
	Left   string `json:"left"`
}

// PrintOptions are passed through to the rendering service
type PrintOptions struct {
	Format          string `json:"format"`
	PrintBackground bool   `json:"printBackground"`
	Margin          Margin `json:"margin"`
}

// DefaultPrintOptions returns letter-sized pages with half-inch margins
func DefaultPrintOptions() PrintOptions {
	return PrintOptions{
		Format:          "Letter",
		PrintBackground: true,
		Margin:          Margin{Top: "0.5in", Right: "0.5in", Bottom: "0.5in", Left: "0.5in"},
	}
}

type renderRequest struct {
	HTML    string       `json:"html"`
	Options PrintOptions `json:"options"`
}

// Renderer converts HTML into a PDF document
type Renderer interface {
	Render(ctx context.Context, html string, opts PrintOptions) ([]byte, error)
}

// Client is the HTTP implementation of Renderer
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a client for the service at endpoint
func New(endpoint string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{Message: fmt.Sprintf("invalid service URL %q", endpoint), Cause: err}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.OrNop(logger).Named("pdfservice"),
	}, nil
}

// Render posts the HTML and returns the PDF bytes
func (c *Client) Render(ctx context.Context, html string, opts PrintOptions) ([]byte, error) {
	body, err := json.Marshal(renderRequest{HTML: html, Options: opts})
	if err != nil {
		return nil, &Error{Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("render request failed", zap.Error(err))
		return nil, &Error{Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxPDFBytes+1))
	if err != nil {
		return nil, &Error{Message: "failed to read response body", StatusCode: resp.StatusCode, Cause: err}
	}

	c.logger.Debug("render request finished",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Message: fmt.Sprintf("HTTP status %d", resp.StatusCode), StatusCode: resp.StatusCode}
	}
	if len(data) > MaxPDFBytes {
		return nil, &Error{Message: "response exceeds size limit", StatusCode: resp.StatusCode}
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, &Error{Message: "response is not a PDF document", StatusCode: resp.StatusCode}
	}
	return data, nil
}
