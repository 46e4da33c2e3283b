package host

import (
	"log/slog"
	"time"
)

// DefaultRenderTimeout bounds how long a dispatch waits for the panel to
// settle before rendering anyway.
const DefaultRenderTimeout = 30 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// WithRenderTimeout overrides DefaultRenderTimeout.
func WithRenderTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.renderTimeout = d
		}
	}
}
