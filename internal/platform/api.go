package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/conn-castle/steward/internal/messages"
)

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 30 * time.Second

// APIOptions configures an API.
type APIOptions struct {
	Platform string
	BaseURL  string
	// Authorize sets credentials on every request.
	Authorize func(*http.Request)
	UserAgent string
	// MaxRetries bounds retries of transient failures; 0 disables retrying.
	MaxRetries int
	// RequestsPerSecond paces requests; 0 means unlimited.
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            logr.Logger
	// InitialInterval is the first retry delay.
	InitialInterval time.Duration
}

// API is a small JSON REST client with pacing, retries, and Link pagination.
type API struct {
	opts    APIOptions
	base    *url.URL
	client  *http.Client
	limiter *rate.Limiter
	log     logr.Logger
}

// RateLimitError indicates the platform's API rate limit was hit.
type RateLimitError struct {
	StatusCode int
	Status     string
	Remaining  *int
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	remainingText := "unknown"
	if e.Remaining != nil {
		remainingText = strconv.Itoa(*e.Remaining)
	}
	return fmt.Sprintf(messages.PlatformRateLimitFmt, e.Status, remainingText)
}

// IsRateLimitError reports whether err represents a rate-limit condition.
func IsRateLimitError(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// NewAPI validates opts and builds an API.
func NewAPI(opts APIOptions) (*API, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/") + "/")
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf(messages.PlatformBaseURLInvalidFmt, opts.BaseURL)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 500 * time.Millisecond
	}
	return &API{
		opts:    opts,
		base:    base,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		log:     opts.Logger.WithValues("platform", opts.Platform),
	}, nil
}

// Platform returns the platform identifier used in errors.
func (a *API) Platform() string { return a.opts.Platform }

// Do sends one request and decodes a JSON response into out when out is not
// nil. path is relative to the base URL unless it is absolute.
func (a *API) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	_, err := a.do(ctx, method, a.resolve(path, query), body, out)
	return err
}

// List fetches every page of a JSON array endpoint, following rel="next"
// links, and calls each with the raw JSON of every element in order.
func (a *API) List(ctx context.Context, path string, query url.Values, each func(json.RawMessage) error) error {
	next := a.resolve(path, query)
	for next != "" {
		var page []json.RawMessage
		header, err := a.do(ctx, http.MethodGet, next, nil, &page)
		if err != nil {
			return err
		}
		for _, item := range page {
			if err := each(item); err != nil {
				return err
			}
		}
		next = nextLink(header.Get("Link"))
	}
	return nil
}

func (a *API) resolve(path string, query url.Values) string {
	ref, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return path
	}
	u := a.base.ResolveReference(ref)
	if len(query) > 0 {
		q := u.Query()
		for key, values := range query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (a *API) do(ctx context.Context, method, rawURL string, body, out any) (http.Header, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, a.wrap(method, rawURL, 0, errors.Wrap(err, messages.PlatformEncodeBody))
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = a.opts.InitialInterval
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(max(a.opts.MaxRetries, 0))), ctx)

	var header http.Header
	attempt := 0
	operation := func() error {
		attempt++
		if err := a.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(a.wrap(method, rawURL, 0, err))
		}
		h, err := a.roundTrip(ctx, method, rawURL, payload, out)
		if err != nil {
			return err
		}
		header = h
		return nil
	}
	notify := func(err error, delay time.Duration) {
		a.log.Info("retrying request", "method", method, "url", rawURL, "attempt", attempt, "delay", delay.String(), "error", err.Error())
	}
	if err := backoff.RetryNotify(operation, retry, notify); err != nil {
		return nil, err
	}
	return header, nil
}

// roundTrip performs a single attempt. Transient failures are returned as
// plain errors so the caller retries them; everything else is permanent.
func (a *API) roundTrip(ctx context.Context, method, rawURL string, payload []byte, out any) (http.Header, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, backoff.Permanent(a.wrap(method, rawURL, 0, errors.Wrap(err, messages.PlatformCreateRequest)))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.opts.UserAgent != "" {
		req.Header.Set("User-Agent", a.opts.UserAgent)
	}
	if a.opts.Authorize != nil {
		a.opts.Authorize(req)
	}

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		wrapped := a.wrap(method, rawURL, 0, err)
		if isTransient(err) {
			return nil, wrapped
		}
		return nil, backoff.Permanent(wrapped)
	}
	defer func() { _ = resp.Body.Close() }()
	a.log.V(1).Info("request", "method", method, "url", rawURL, "status", resp.StatusCode, "elapsed", time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if rl := rateLimitErrorFromResponse(resp); rl != nil {
			return nil, backoff.Permanent(a.wrap(method, rawURL, resp.StatusCode, rl))
		}
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		statusErr := errors.New(statusText(resp.Status, detail))
		wrapped := a.wrap(method, rawURL, resp.StatusCode, statusErr)
		if resp.StatusCode >= 500 {
			return nil, wrapped
		}
		return nil, backoff.Permanent(wrapped)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return nil, backoff.Permanent(a.wrap(method, rawURL, resp.StatusCode, errors.Wrap(err, messages.PlatformDecodeResponse)))
		}
	}
	return resp.Header, nil
}

func (a *API) wrap(method, rawURL string, status int, err error) error {
	return &Error{
		Platform:   a.opts.Platform,
		Op:         method + " " + redact(rawURL),
		StatusCode: status,
		Err:        errors.WithStack(err),
	}
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func rateLimitErrorFromResponse(resp *http.Response) *RateLimitError {
	var retryAfter time.Duration
	if seconds, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("Retry-After"))); err == nil {
		retryAfter = time.Duration(seconds) * time.Second
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{StatusCode: resp.StatusCode, Status: resp.Status, RetryAfter: retryAfter}
	}
	// GitHub answers 403 when the quota is exhausted; confirm with the header.
	if resp.StatusCode == http.StatusForbidden {
		remainingStr := strings.TrimSpace(resp.Header.Get("X-RateLimit-Remaining"))
		if remainingStr == "" {
			remainingStr = strings.TrimSpace(resp.Header.Get("RateLimit-Remaining"))
		}
		remaining, err := strconv.Atoi(remainingStr)
		if err != nil {
			return nil
		}
		if remaining == 0 {
			return &RateLimitError{StatusCode: resp.StatusCode, Status: resp.Status, Remaining: &remaining, RetryAfter: retryAfter}
		}
	}
	return nil
}

func statusText(status string, detail []byte) string {
	var payload struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if json.Unmarshal(detail, &payload) == nil {
		switch {
		case payload.Message != nil:
			return fmt.Sprintf("%s: %v", status, payload.Message)
		case payload.Error != nil:
			return fmt.Sprintf("%s: %v", status, payload.Error)
		}
	}
	return status
}

// nextLink extracts the rel="next" target of an RFC 8288 Link header.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		sections := strings.Split(part, ";")
		if len(sections) < 2 {
			continue
		}
		target := strings.TrimSpace(sections[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range sections[1:] {
			param = strings.TrimSpace(param)
			if param == `rel="next"` || param == "rel=next" {
				return strings.Trim(target, "<>")
			}
		}
	}
	return ""
}

// redact drops query credentials some self-hosted setups pass in URLs.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	for _, key := range []string{"private_token", "access_token"} {
		if q.Has(key) {
			q.Set(key, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
