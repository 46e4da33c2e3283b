package host

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/vk/filepanel/internal/ctxlog"
	"github.com/vk/filepanel/internal/session"
	"github.com/zishang520/socket.io/v2/socket"
)

// DefaultTitle is the page title unless configured.
const DefaultTitle = "File panel"

// Server is the HTTP side of the panel: page shell, health endpoint and
// the socket.io channel.
type Server struct {
	factory       *session.Factory
	sessions      *session.Store
	logger        *slog.Logger
	title         string
	renderTimeout time.Duration

	io  *socket.Server
	mux *http.ServeMux
}

// New returns a server creating one session per connection with factory.
func New(factory *session.Factory, opts ...Option) *Server {
	s := &Server{
		factory:       factory,
		sessions:      session.NewStore(),
		logger:        slog.Default(),
		title:         DefaultTitle,
		renderTimeout: DefaultRenderTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.io = socket.NewServer(nil, nil)
	s.io.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			s.logger.Error("Unexpected connection payload.", "type", clients[0])
			return
		}
		s.accept(client)
	})

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/", s.handlePage)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/socket.io/", s.io.ServeHandler(nil))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Sessions returns the live sessions.
func (s *Server) Sessions() *session.Store {
	return s.sessions
}

// Close ends every session and stops the socket.io server.
func (s *Server) Close() {
	s.logger.Debug("Closing panel host.", "sessions", s.sessions.Len())
	s.sessions.CloseAll()
	s.io.Close(nil)
}

func (s *Server) context() context.Context {
	return ctxlog.WithLogger(context.Background(), s.logger)
}
