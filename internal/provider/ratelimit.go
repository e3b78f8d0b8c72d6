package provider

import (
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	defaultMaxRetries = 5
	defaultMaxWait    = 2 * time.Minute
)

// RateLimitTransport wraps an http.RoundTripper with client-side request
// pacing and retries for GitHub's rate-limit responses: 429, and 403 when
// the primary quota is exhausted or a Retry-After is sent.
type RateLimitTransport struct {
	ReqPerSec  float64           // 0 = unlimited (retry-only)
	Base       http.RoundTripper // nil = http.DefaultTransport
	MaxRetries int               // 0 = defaultMaxRetries
	MaxWait    time.Duration     // longest single wait; 0 = defaultMaxWait

	once    sync.Once
	limiter chan struct{}
}

func (t *RateLimitTransport) init() {
	if t.ReqPerSec > 0 {
		t.limiter = make(chan struct{}, 1)
		interval := time.Duration(float64(time.Second) / t.ReqPerSec)
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for range ticker.C {
				select {
				case t.limiter <- struct{}{}:
				default:
				}
			}
		}()
	}
}

func (t *RateLimitTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *RateLimitTransport) maxRetries() int {
	if t.MaxRetries > 0 {
		return t.MaxRetries
	}
	return defaultMaxRetries
}

func (t *RateLimitTransport) maxWait() time.Duration {
	if t.MaxWait > 0 {
		return t.MaxWait
	}
	return defaultMaxWait
}

// RoundTrip implements http.RoundTripper.
func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.once.Do(t.init)

	for attempt := 0; ; attempt++ {
		if t.limiter != nil {
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-t.limiter:
			}
		}

		resp, err := t.base().RoundTrip(req)
		if err != nil {
			return nil, err
		}

		delay, limited := retryDelay(resp, attempt, time.Now())
		if !limited || attempt >= t.maxRetries() || delay > t.maxWait() {
			return resp, nil
		}
		if req.Body != nil && req.GetBody == nil {
			return resp, nil // body cannot be replayed
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(delay):
		}

		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			req.Body = body
		}
	}
}

// retryDelay reports whether resp is a rate-limit response and how long to
// wait: Retry-After first, then X-RateLimit-Reset, then exponential backoff.
func retryDelay(resp *http.Response, attempt int, now time.Time) (time.Duration, bool) {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
	case http.StatusForbidden:
		if resp.Header.Get("Retry-After") == "" && resp.Header.Get("X-RateLimit-Remaining") != "0" {
			return 0, false
		}
	default:
		return 0, false
	}

	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second, true
		}
	}
	if resp.Header.Get("X-RateLimit-Remaining") == "0" {
		if reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
			if d := time.Unix(reset, 0).Sub(now); d > 0 {
				return d + time.Second, true
			}
		}
	}
	return time.Duration(1<<uint(attempt)) * time.Second, true
}
