// Package api is the HTTP client for the Orphan Care REST API. Every call
// returns either decoded data or an *Error with a Kind the caller can act on.
package api

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
	"strings"
	"time"

	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/performance"
)

const maxResponseBytes = 10 << 20

// Config holds the client settings read from pkg/config
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is safe for concurrent use
type Client struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewClient creates a client for the API rooted at cfg.BaseURL
func NewClient(cfg Config, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient:  &http.Client{},
		timeout:     cfg.Timeout,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// WithHTTPClient swaps the transport, mainly for tests
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the configured API root
func (c *Client) BaseURL() string { return c.baseURL }

// FilePart is one file in a multipart upload
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// call describes one request. endpoint is the route template used as a
// metrics label so IDs do not explode label cardinality.
type call struct {
	op             string
	method         string
	endpoint       string
	path           string
	query          url.Values
	body           any
	fields         map[string]string
	file           *FilePart
	token          string
	idempotencyKey string
	payload        Payload
}

// do executes c and decodes the payload into out (if non-nil). It returns the
// envelope so callers can read message and token.
func (c *Client) do(ctx context.Context, req call, out any) (*envelope, error) {
	start := time.Now()
	env, err := c.roundTrip(ctx, req, out)

	kind := string(KindOf(err))
	if c.perfTracker != nil {
		c.perfTracker.ObserveUpstream(req.endpoint, req.method, kind, time.Since(start))
	}
	if c.logger != nil {
		log := c.logger.WithContext(logging.ChannelAPI, ctx)
		switch KindOf(err) {
		case "":
			log.Debug("API call completed", "op", req.op, "method", req.method, "endpoint", req.endpoint, "duration", time.Since(start))
		case KindMalformed:
			log.Error("API returned malformed payload", "op", req.op, "method", req.method, "endpoint", req.endpoint, "error", err)
		default:
			log.Warn("API call failed", "op", req.op, "method", req.method, "endpoint", req.endpoint, "kind", kind, "error", err, "duration", time.Since(start))
		}
	}
	return env, err
}

func (c *Client) roundTrip(ctx context.Context, req call, out any) (*envelope, error) {
	// The caller's context still cancels; the timeout only bounds this call.
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: req.op, Err: err}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: req.op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: req.op, Status: resp.StatusCode, Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Kind: KindRejected, Op: req.op, Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Message = env.message()
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, &Error{Kind: KindMalformed, Op: req.op, Status: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", decodeErr)}
	}
	if env.failed() {
		return nil, &Error{Kind: KindRejected, Op: req.op, Status: resp.StatusCode, Message: env.message()}
	}

	if req.payload == PayloadNone || out == nil {
		return &env, nil
	}
	raw := env.payload(req.payload)
	if raw == nil {
		return nil, &Error{Kind: KindMalformed, Op: req.op, Status: resp.StatusCode, Err: fmt.Errorf("missing %q field", req.payload)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, &Error{Kind: KindMalformed, Op: req.op, Status: resp.StatusCode, Err: fmt.Errorf("decode %q: %w", req.payload, err)}
	}
	return &env, nil
}

func (c *Client) newRequest(ctx context.Context, req call) (*http.Request, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.file != nil:
		buf, ct, err := encodeMultipart(req.fields, req.file)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case req.body != nil:
		raw, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body, contentType = bytes.NewReader(raw), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.method == http.MethodGet {
		httpReq.Header.Set("Cache-Control", "no-cache")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	if req.idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.idempotencyKey)
	}
	return httpReq, nil
}

func encodeMultipart(fields map[string]string, file *FilePart) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Filename))
	h.Set("Content-Type", file.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// IsCanceled reports whether err came from the caller giving up
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
