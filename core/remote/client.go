package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"delivery-admin/core/apperr"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HeaderRequestID carries the correlation id of a workflow operation.
const HeaderRequestID = "X-Request-ID"

var errEmptyBody = errors.New("empty response body")

type requestIDKey struct{}

// WithRequestID attaches a correlation id that is sent with every request made under ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Client talks to the catalog REST API.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a client based on the configuration.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid remote base url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid remote base url %q: scheme must be http or https", cfg.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("invalid remote base url %q: missing host", cfg.BaseURL)
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		http:    &http.Client{Transport: transport},
		baseURL: base,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Do sends one request and decodes a 2xx body into out (when out is non-nil).
//
// A GET must return a body; other methods may answer with an empty one.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return apperr.Fetch(err)
		}
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return apperr.Internal("encode %s %s: %v", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return apperr.Internal("build %s %s: %v", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := RequestID(ctx)
	if requestID != "" {
		req.Header.Set(HeaderRequestID, requestID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("Remote call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return apperr.Fetch(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Fetch(err)
	}

	c.logger.Debug("Remote call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := strings.TrimSpace(string(data))
		if text == "" {
			return apperr.FetchStatus(resp.StatusCode)
		}
		return apperr.Remote(resp.StatusCode, text)
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		if method == http.MethodGet {
			return apperr.Decode(errEmptyBody)
		}
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperr.Decode(err)
	}
	return nil
}

// Link adds an ingredient to a food: POST /food/{foodId}/ingredient/{ingredientId}.
func (c *Client) Link(ctx context.Context, foodID, ingredientID int64) error {
	if err := c.Do(ctx, http.MethodPost, relationPath(foodID, ingredientID), nil, nil, nil); err != nil {
		return fmt.Errorf("link food %d ingredient %d: %w", foodID, ingredientID, err)
	}
	return nil
}

// Unlink removes an ingredient from a food with DELETE on the link path.
func (c *Client) Unlink(ctx context.Context, foodID, ingredientID int64) error {
	if err := c.Do(ctx, http.MethodDelete, relationPath(foodID, ingredientID), nil, nil, nil); err != nil {
		return fmt.Errorf("unlink food %d ingredient %d: %w", foodID, ingredientID, err)
	}
	return nil
}

func relationPath(foodID, ingredientID int64) string {
	return "/food/" + strconv.FormatInt(foodID, 10) + "/ingredient/" + strconv.FormatInt(ingredientID, 10)
}
