package resource

import (
	"log/slog"
	"net/http"
)

type config struct {
	httpClient  *http.Client
	middlewares []Middleware
	logger      *slog.Logger
	maxBody     int64
}

func defaultConfig() config {
	return config{logger: slog.Default()}
}

// Option configures a Client.
type Option func(*config)

// WithHTTPClient uses c for every exchange. Middlewares are still applied
// on top of its transport.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) {
		cfg.httpClient = c
	}
}

// WithMiddlewares appends RoundTripper middlewares. Nil entries are skipped.
func WithMiddlewares(mws ...Middleware) Option {
	return func(cfg *config) {
		cfg.middlewares = append(cfg.middlewares, mws...)
	}
}

// WithHeader sets a static header on every request.
func WithHeader(key, value string) Option {
	return WithMiddlewares(SetHeader(key, value))
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMaxBodySize bounds the size of response bodies. Zero means no limit.
func WithMaxBodySize(n int64) Option {
	return func(cfg *config) {
		cfg.maxBody = n
	}
}
