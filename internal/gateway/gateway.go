// Package gateway is the single configured client every resource module talks through.
// It injects the base URL and the x-api-key header and folds every failure into
// either a NetworkError or an APIError.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"kyri56xcaesar/abac-front/internal/logger"
)

const apiKeyHeader = "x-api-key"

// Doer is what the resource modules need from the gateway.
type Doer interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

type Options struct {
	BaseURL string
	APIKey  string
	// Timeout of 0 leaves requests bounded only by their context.
	Timeout time.Duration
}

type Client struct {
	http *resty.Client
}

func New(opts Options) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetHeader(apiKeyHeader, opts.APIKey).
		SetHeader("Accept", "application/json").
		SetLogger(logger.Resty()).
		SetRetryCount(0)

	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}

	// calls made while serving a request reuse its id; others get a fresh one
	c.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		id := logger.RequestID(r.Context())
		if id == "" {
			id = uuid.NewString()
		}
		r.SetHeader(logger.RequestIDHeader, id)
		return nil
	})

	return &Client{http: c}
}

// Do performs one call. body is sent as JSON when non-nil; out receives the decoded
// response when non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		logger.Ctx(ctx).Debug().Err(err).Str("method", method).Str("path", path).Msg("gateway: no response")
		return &NetworkError{Method: method, Path: path, Err: err}
	}

	logger.Ctx(ctx).Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("latency", time.Since(start)).
		Msg("gateway")

	if !resp.IsSuccess() {
		return &APIError{Status: resp.StatusCode(), Message: serverMessage(resp.Body())}
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrDecode, method, path, err)
	}

	return nil
}

func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || strings.TrimSpace(payload.Message) == "" {
		return fallbackMessage
	}

	return payload.Message
}
