// Package invoiceapi is a client for the invoice-recognition service.
//
// The service exposes four JSON endpoints:
//   - POST   /process-invoice  multipart upload (field "file"), returns the stored record
//   - GET    /invoices         every stored record
//   - GET    /summary          monthly and all-time converted totals
//   - DELETE /invoices         purges every stored record
//
// Each call is a single request/response exchange; nothing is retried.
// Success is decided by the HTTP status alone. The body is always decoded
// before it is inspected, and a body that cannot be decoded on a
// successful status fails the call.
package invoiceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"invoicedesk/internal/logger"
	"invoicedesk/pkg/models"
)

const (
	// DefaultTimeout bounds a single exchange. Recognition of a large scan
	// can take a while on the service side.
	DefaultTimeout = 120 * time.Second

	// MaxResponseBytes caps how much of a response body is read.
	MaxResponseBytes = 32 << 20

	pathProcess  = "/process-invoice"
	pathInvoices = "/invoices"
	pathSummary  = "/summary"
)

// Config holds the settings of a Client.
type Config struct {
	// BaseURL is the service root, e.g. "http://127.0.0.1:8000".
	BaseURL string

	// Timeout applies when HTTPClient is nil. Default: DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// Client talks to the invoice-recognition service.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     zerolog.Logger
}

// New creates a Client for the service at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	const op = "New"

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid base URL %q: %w", op, cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%s: base URL %q must use http or https", op, cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		log:     logger.WithComponent("invoice-api"),
	}, nil
}

// errorBody is the failure shape used by the service.
type errorBody struct {
	Detail string `json:"detail"`
}

// Submit uploads a file for recognition and returns the stored record.
func (c *Client) Submit(ctx context.Context, filename string, data []byte) (*models.Record, error) {
	const op = "Submit"

	body, contentType, err := multipartBody(filename, data)
	if err != nil {
		return nil, &APIError{Op: op, Kind: ErrRecognition, Message: msgRecognitionFailed, Err: err}
	}

	resp, err := c.do(ctx, http.MethodPost, pathProcess, body, contentType)
	if err != nil {
		return nil, &APIError{Op: op, Kind: ErrRecognition, Message: msgRecognitionFailed, Err: err}
	}

	if !resp.ok() {
		var failure errorBody
		_ = json.Unmarshal(resp.body, &failure)
		return nil, &APIError{
			Op:         op,
			Kind:       ErrRecognition,
			Message:    firstNonEmpty(failure.Detail, msgRecognitionFailed),
			StatusCode: resp.status,
		}
	}

	var record models.Record
	if err := json.Unmarshal(resp.body, &record); err != nil {
		return nil, &APIError{Op: op, Kind: ErrRecognition, Message: msgRecognitionFailed, StatusCode: resp.status, Err: err}
	}

	c.log.Info().
		Str("file", filename).
		Str("invoice_number", record.InvoiceNumber()).
		Msg("Invoice recognized")

	return &record, nil
}

// ListInvoices returns every stored record in the order the service sent them.
func (c *Client) ListInvoices(ctx context.Context) ([]models.Record, error) {
	const op = "ListInvoices"

	resp, err := c.do(ctx, http.MethodGet, pathInvoices, nil, "")
	if err != nil {
		return nil, &APIError{Op: op, Kind: ErrFetch, Message: msgRequestFailed, Err: err}
	}

	if !resp.ok() {
		return nil, resp.fetchError(op)
	}

	var records []models.Record
	if err := json.Unmarshal(resp.body, &records); err != nil {
		return nil, &APIError{Op: op, Kind: ErrFetch, Message: msgRequestFailed, StatusCode: resp.status, Err: err}
	}
	if records == nil {
		records = []models.Record{}
	}
	return records, nil
}

// FetchSummary returns the monthly and all-time converted totals.
func (c *Client) FetchSummary(ctx context.Context) (*models.Summary, error) {
	const op = "FetchSummary"

	resp, err := c.do(ctx, http.MethodGet, pathSummary, nil, "")
	if err != nil {
		return nil, &APIError{Op: op, Kind: ErrFetch, Message: msgRequestFailed, Err: err}
	}

	if !resp.ok() {
		return nil, resp.fetchError(op)
	}

	var summary models.Summary
	if err := json.Unmarshal(resp.body, &summary); err != nil {
		return nil, &APIError{Op: op, Kind: ErrFetch, Message: msgRequestFailed, StatusCode: resp.status, Err: err}
	}
	return &summary, nil
}

// DeleteAll purges every stored record.
func (c *Client) DeleteAll(ctx context.Context) (*models.DeleteResult, error) {
	const op = "DeleteAll"

	resp, err := c.do(ctx, http.MethodDelete, pathInvoices, nil, "")
	if err != nil {
		return nil, &APIError{Op: op, Kind: ErrDelete, Message: msgDeleteFailed, Err: err}
	}

	if !resp.ok() {
		var failure errorBody
		_ = json.Unmarshal(resp.body, &failure)
		return nil, &APIError{
			Op:         op,
			Kind:       ErrDelete,
			Message:    firstNonEmpty(failure.Detail, msgDeleteFailed),
			StatusCode: resp.status,
		}
	}

	var result models.DeleteResult
	if err := json.Unmarshal(resp.body, &result); err != nil {
		return nil, &APIError{Op: op, Kind: ErrDelete, Message: msgDeleteFailed, StatusCode: resp.status, Err: err}
	}

	c.log.Info().Str("message", result.Message).Msg("Stored invoices deleted")
	return &result, nil
}

// response is a fully read HTTP response.
type response struct {
	status     int
	statusText string
	body       []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// fetchError prefers the service's detail and falls back to the status
// text. Failure bodies of the listing endpoints are not guaranteed to be
// JSON, so a decode failure here only means there is no detail.
func (r *response) fetchError(op string) error {
	var failure errorBody
	_ = json.Unmarshal(r.body, &failure)
	return &APIError{
		Op:         op,
		Kind:       ErrFetch,
		Message:    firstNonEmpty(failure.Detail, r.statusText, msgRequestFailed),
		StatusCode: r.status,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*response, error) {
	endpoint := c.baseURL.JoinPath(path)

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().
			Err(err).
			Str("method", method).
			Str("path", path).
			Msg("Request to invoice service failed")
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Dur("duration", time.Since(start)).
		Msg("Invoice service responded")

	return &response{
		status:     resp.StatusCode,
		statusText: statusText(resp),
		body:       data,
	}, nil
}

// statusText returns the reason phrase of a response, e.g. "Not Found".
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// multipartBody encodes data as the "file" field of a multipart form. The
// part carries a real content type because the service picks its
// recognizer (PDF text or image OCR) from it.
func multipartBody(filename string, data []byte) (io.Reader, string, error) {
	if filename == "" {
		return nil, "", errors.New("file name is required")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filepath.Base(filename))))
	header.Set("Content-Type", DetectContentType(filename, data))

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("creating form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("writing form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// DetectContentType guesses the MIME type of an upload from its extension,
// falling back to sniffing the content.
func DetectContentType(filename string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".heic":
		return "image/heic"
	case ".webp":
		return "image/webp"
	}
	return http.DetectContentType(data)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
