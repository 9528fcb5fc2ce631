// Package agent is the HTTP transport to the external reasoning agent.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/config"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/intelligence/assistant"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
)

const (
	invokePath      = "/v1/agents/invoke"
	userAgent       = "consulttrack-agent-client/1.0"
	maxResponseSize = 4 << 20
	maxErrorText    = 200
)

// Option configures an HTTPCaller.
type Option func(*HTTPCaller)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPCaller) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// HTTPCaller implements assistant.AgentCaller over JSON/HTTP.
type HTTPCaller struct {
	endpoint     string
	apiKey       string
	httpClient   *http.Client
	maxRetries   int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	logger       logging.Logger
}

var _ assistant.AgentCaller = (*HTTPCaller)(nil)

type invokeRequest struct {
	Message string `json:"message"`
	AgentID string `json:"agent_id"`
}

// NewHTTPCaller builds a caller for cfg.BaseURL.
func NewHTTPCaller(cfg config.AgentConfig, logger logging.Logger, opts ...Option) (*HTTPCaller, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "agent base_url must be an http(s) URL").WithDetail(cfg.BaseURL)
	}

	c := &HTTPCaller{
		endpoint:     strings.TrimSuffix(cfg.BaseURL, "/") + invokePath,
		apiKey:       cfg.APIKey,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		maxRetries:   cfg.MaxRetries,
		retryWaitMin: cfg.RetryWaitMin,
		retryWaitMax: cfg.RetryWaitMax,
		logger:       logger.Named("agent"),
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	if c.retryWaitMin <= 0 {
		c.retryWaitMin = 500 * time.Millisecond
	}
	if c.retryWaitMax < c.retryWaitMin {
		c.retryWaitMax = c.retryWaitMin
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Call posts message to the agent.  Rejections (4xx, or success=false in the
// body) come back as an unsuccessful AgentResult.  Network failures, 5xx and
// 429 are retried and, once exhausted, returned as errors.
func (c *HTTPCaller) Call(ctx context.Context, message, agentID string) (*assistant.AgentResult, error) {
	body, err := json.Marshal(invokeRequest{Message: message, AgentID: agentID})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode agent request")
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff(attempt)
			c.logger.Debug("retrying agent call", logging.Int("attempt", attempt), logging.Duration("backoff", wait))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), errors.ErrCodeAgentUnavailable, "agent call cancelled")
			}
		}

		status, respBody, retryAfter, err := c.post(ctx, body)
		if err != nil {
			lastErr = errors.Wrap(err, errors.ErrCodeAgentUnavailable, "agent request failed")
			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}

		switch {
		case status == http.StatusTooManyRequests || status >= 500:
			lastErr = errors.Newf(errors.ErrCodeAgentUnavailable, "agent returned HTTP %d", status).
				WithDetail(errorText(respBody))
			if retryAfter > 0 && attempt < c.maxRetries {
				select {
				case <-time.After(retryAfter):
				case <-ctx.Done():
					return nil, lastErr
				}
			}
			continue
		case status >= 400:
			msg := errorText(respBody)
			if msg == "" {
				msg = http.StatusText(status)
			}
			c.logger.Warn("agent rejected request", logging.Int("status", status), logging.String("error", msg))
			return &assistant.AgentResult{Success: false, Error: msg}, nil
		}
		return decodeResult(respBody)
	}

	c.logger.Error("agent call failed", logging.Int("attempts", c.maxRetries+1), logging.Err(lastErr))
	return nil, lastErr
}

func (c *HTTPCaller) post(ctx context.Context, body []byte) (int, []byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, 0, err
	}
	c.logger.Debug("agent responded",
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", time.Since(start)),
		logging.Int("bytes", len(respBody)),
	)

	var retryAfter time.Duration
	if s, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && s > 0 {
		retryAfter = time.Duration(s) * time.Second
	}
	return resp.StatusCode, respBody, retryAfter, nil
}

func (c *HTTPCaller) backoff(attempt int) time.Duration {
	wait := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if wait > c.retryWaitMax || wait <= 0 {
		wait = c.retryWaitMax
	}
	if q := int64(wait / 4); q > 0 {
		wait += time.Duration(rand.Int63n(q))
	}
	return wait
}

// decodeResult maps a 2xx body onto AgentResult.  The result payload may be
// an object or a string; anything else is an empty payload.
func decodeResult(body []byte) (*assistant.AgentResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New(errors.ErrCodeAgentResponseFailed, "agent response is not valid JSON")
	}
	doc := gjson.ParseBytes(body)

	out := &assistant.AgentResult{
		Success: doc.Get("success").Bool(),
		Error:   errorText(body),
	}
	if result := doc.Get("response.result"); result.Exists() {
		var p assistant.Payload
		if err := json.Unmarshal([]byte(result.Raw), &p); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeAgentResponseFailed, "agent result is malformed")
		}
		out.Response = &assistant.AgentResponse{Result: p}
	}
	return out, nil
}

// errorText pulls a human message out of an error body: "error" as a string,
// or "error.message", or "message".  Non-JSON bodies (proxy HTML pages and
// the like) yield "" so callers fall back to the status text.
func errorText(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	var msg string
	e := gjson.GetBytes(body, "error")
	switch {
	case e.Type == gjson.String:
		msg = e.String()
	case e.IsObject():
		msg = e.Get("message").String()
	default:
		msg = gjson.GetBytes(body, "message").String()
	}
	return truncate(strings.TrimSpace(msg), maxErrorText)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

//Personal.AI order the ending
