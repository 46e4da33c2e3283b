package resource

import (
	"log/slog"
	"net/http"
	"time"
)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Middleware wraps a RoundTripper.
type Middleware func(next http.RoundTripper) http.RoundTripper

// Chain applies middlewares to base: Chain(base, a, b) returns a(b(base)).
// A nil base is replaced by a clone of http.DefaultTransport.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = cloneDefaultTransport()
	}
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		base = mws[i](base)
	}
	return base
}

func cloneDefaultTransport() http.RoundTripper {
	if t, ok := http.DefaultTransport.(*http.Transport); ok && t != nil {
		return t.Clone()
	}
	return http.DefaultTransport
}

// SetHeader sets a static header on every outgoing request. The request is
// cloned, never mutated.
func SetHeader(key, value string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			r = r.Clone(r.Context())
			r.Header.Set(key, value)
			return next.RoundTrip(r)
		})
	}
}

// LogRequests logs every exchange at debug level.
func LogRequests(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			logger.Debug("Making HTTP request", "method", r.Method, "url", r.URL.String())
			resp, err := next.RoundTrip(r)
			if err != nil {
				logger.Debug("HTTP request failed", "method", r.Method, "url", r.URL.String(), "error", err)
				return nil, err
			}
			logger.Debug("Received HTTP response", "method", r.Method, "url", r.URL.String(), "status", resp.Status, "elapsed", time.Since(start))
			return resp, nil
		})
	}
}
