// Package iosparql talks to a SPARQL query service such as
// query.wikidata.org. It sends form-encoded POST queries, retries
// rate-limited requests and turns the JSON result set into bindings.
package iosparql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/revatlas/revatlas/pkg/config"
	"github.com/tidwall/gjson"
)

const acceptSparqlJSON = "application/sparql-results+json"

// Binding is one result row: field name to value. Fields absent from
// the row read as an empty string.
type Binding map[string]string

// Get returns the value of a field or "" when the field is absent.
func (b Binding) Get(field string) string {
	return b[field]
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Client sends queries to one SPARQL endpoint.
type Client struct {
	http           *resty.Client
	endpoint       string
	maxAttempts    int
	initialBackoff time.Duration
	maxRetryWait   time.Duration
	sleep          SleepFunc
}

// Option changes a Client.
type Option func(*Client)

// OptSleep replaces the function used to wait between attempts.
func OptSleep(fn SleepFunc) Option {
	return func(c *Client) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// New creates a client from import settings.
func New(cfg config.ImportConfig, opts ...Option) *Client {
	rc := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", acceptSparqlJSON).
		SetHeader("User-Agent", cfg.UserAgent).
		SetLogger(restyLogger{})

	res := &Client{
		http:           rc,
		endpoint:       cfg.Endpoint,
		maxAttempts:    max(cfg.MaxAttempts, 1),
		initialBackoff: cfg.InitialBackoff,
		maxRetryWait:   cfg.MaxRetryWait,
		sleep:          sleepCtx,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Query runs a SELECT query and returns its bindings in order.
//
// Responses 429 and 503 and network failures are retried. The wait is
// taken from Retry-After when the server sends it, otherwise it starts
// at the initial backoff and doubles with every retry. Other non-2xx
// responses fail right away.
func (c *Client) Query(ctx context.Context, query string) ([]Binding, error) {
	backoff := c.initialBackoff
	var lastErr error

	for attempt := 1; ; attempt++ {
		resp, err := c.http.R().
			SetContext(ctx).
			SetFormData(map[string]string{"query": query}).
			Post(c.endpoint)

		delay := backoff
		switch {
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			lastErr = RequestError(c.endpoint, err)
		case isRetryable(resp.StatusCode()):
			lastErr = StatusError(resp.StatusCode(), resp.Body())
			if d, ok := retryAfter(resp.Header().Get("Retry-After"), time.Now()); ok {
				delay = d
			}
		case !resp.IsSuccess():
			return nil, StatusError(resp.StatusCode(), resp.Body())
		default:
			return parseBindings(resp.Body())
		}

		if attempt >= c.maxAttempts {
			return nil, RetriesExhaustedError(attempt, lastErr)
		}

		if c.maxRetryWait > 0 && delay > c.maxRetryWait {
			delay = c.maxRetryWait
		}
		slog.Warn("SPARQL request failed, retrying",
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"delay", delay,
			"error", lastErr,
		)
		if err = c.sleep(ctx, delay); err != nil {
			return nil, err
		}
		backoff *= 2
	}
}

func isRetryable(status int) bool {
	return status == http.StatusTooManyRequests ||
		status == http.StatusServiceUnavailable
}

// retryAfter reads a Retry-After header given either in seconds or as
// an HTTP date.
func retryAfter(header string, now time.Time) (time.Duration, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(header); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(header); err == nil {
		d := t.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}

// parseBindings extracts results.bindings from a SPARQL JSON result.
func parseBindings(body []byte) ([]Binding, error) {
	if !gjson.ValidBytes(body) {
		return nil, MalformedResponseError("body is not valid JSON")
	}

	rows := gjson.GetBytes(body, "results.bindings")
	if !rows.IsArray() {
		return nil, MalformedResponseError("results.bindings is not an array")
	}

	res := make([]Binding, 0, len(rows.Array()))
	rows.ForEach(func(_, row gjson.Result) bool {
		b := make(Binding)
		row.ForEach(func(field, val gjson.Result) bool {
			b[field.String()] = val.Get("value").String()
			return true
		})
		res = append(res, b)
		return true
	})
	return res, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsCancelled reports whether err comes from a cancelled or expired
// context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// restyLogger sends resty's own messages to slog.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...any) {
	slog.Error("resty", "msg", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (restyLogger) Warnf(format string, v ...any) {
	slog.Warn("resty", "msg", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (restyLogger) Debugf(format string, v ...any) {
	slog.Debug("resty", "msg", strings.TrimSpace(fmt.Sprintf(format, v...)))
}
