package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Getter fetches the body of an upstream URL.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// StatusError is returned for non-success upstream responses.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string { return fmt.Sprintf("upstream status %d for %s", e.Code, e.URL) }

type ClientOptions struct {
	Timeout   time.Duration
	PerSecond int // upstream requests per second, shared by all callers
	Retries   int // 0 keeps the default of 3, negative disables retries
	Header    http.Header
	Logger    *zap.Logger
}

// Client is a paced, retrying HTTP GET client.
type Client struct {
	http    *retryablehttp.Client
	limiter *rate.Limiter
	header  http.Header
}

func NewClient(o ClientOptions) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = 3
	switch {
	case o.Retries < 0:
		rc.RetryMax = 0
	case o.Retries > 0:
		rc.RetryMax = o.Retries
	}
	rc.HTTPClient.Timeout = 6 * time.Second
	if o.Timeout > 0 {
		rc.HTTPClient.Timeout = o.Timeout
	}
	rc.Logger = nil
	if o.Logger != nil {
		rc.Logger = leveled{o.Logger.Sugar()}
	}
	// hand the final response back so the status becomes a StatusError
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	limit := rate.Inf
	if o.PerSecond > 0 {
		limit = rate.Limit(o.PerSecond)
	}
	return &Client{
		http:    rc,
		limiter: rate.NewLimiter(limit, max(o.PerSecond, 1)),
		header:  o.Header,
	}
}

func (c *Client) Get(ctx context.Context, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{Code: resp.StatusCode, URL: u}
	}
	return ioReadAllLimit(resp.Body, 4<<20) // 4MB guard
}

func ioReadAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}

// leveled routes retryablehttp's logging into zap.
type leveled struct{ s *zap.SugaredLogger }

func (l leveled) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveled) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveled) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveled) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
