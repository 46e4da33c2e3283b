package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vk/filepanel/internal/async"
	"github.com/vk/filepanel/internal/ctxlog"
	"github.com/vk/filepanel/internal/dom"
	"github.com/vk/filepanel/internal/panel"
	"github.com/vk/filepanel/internal/registry"
	"github.com/vk/filepanel/internal/resource"
)

// HostID is the id attribute of the node every panel is mounted on.
const HostID = "panel"

// DefaultPromptTimeout bounds how long a prompt waits for the browser.
const DefaultPromptTimeout = 2 * time.Minute

// Factory creates sessions against one remote file server.
type Factory struct {
	// BaseURL is the remote file server every session talks to.
	BaseURL string
	// HomeDirectory is the directory panels manage. Defaults to "/".
	HomeDirectory string
	// Registry provides the controls. Defaults to registry.Default.
	Registry *registry.Registry
	// ClientOptions are applied to every session's resource client.
	ClientOptions []resource.Option
	// PromptTimeout defaults to DefaultPromptTimeout.
	PromptTimeout time.Duration
}

// Option configures a single session.
type Option func(*Session)

// WithPromptSender sets how the session shows a prompt to the user. The
// answer is delivered later through Session.Answer.
func WithPromptSender(send func(message string)) Option {
	return func(s *Session) {
		s.sendPrompt = send
	}
}

// WithErrorReporter adds a hook told about every failure the panel reports.
func WithErrorReporter(fn func(error)) Option {
	return func(s *Session) {
		s.report = fn
	}
}

// New starts a session: a running loop, a host node and a panel composed on
// the loop. The returned session must be closed.
func (f *Factory) New(ctx context.Context, opts ...Option) (*Session, error) {
	id := uuid.NewString()
	logger := ctxlog.FromContext(ctx).With("session", id)

	timeout := f.PromptTimeout
	if timeout <= 0 {
		timeout = DefaultPromptTimeout
	}
	home := f.HomeDirectory
	if home == "" {
		home = panel.DefaultHomeDirectory
	}

	runCtx, cancel := context.WithCancel(ctxlog.WithLogger(context.WithoutCancel(ctx), logger))
	s := &Session{
		id:            id,
		ctx:           runCtx,
		cancel:        cancel,
		logger:        logger,
		loop:          async.NewLoop(async.WithLoopLogger(logger)),
		host:          dom.NewElement("div"),
		answers:       make(chan answer, 1),
		promptTimeout: timeout,
		done:          make(chan struct{}),
	}
	s.host.SetAttr("id", HostID)
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	clientOpts := append([]resource.Option{
		resource.WithLogger(logger),
		resource.WithMiddlewares(resource.LogRequests(logger)),
	}, f.ClientOptions...)
	client, err := resource.NewClient(f.BaseURL, s.loop, clientOpts...)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating resource client: %w", err)
	}

	go s.run()

	var buildErr error
	if err := s.loop.Do(ctx, func() {
		s.panel, buildErr = panel.New(s.ctx, s.host, client,
			panel.WithRegistry(f.Registry),
			panel.WithHomeDirectory(home),
			panel.WithLogger(logger),
			panel.WithPrompter(s.prompt),
			panel.WithErrorReporter(s.reportError),
		)
	}); err != nil {
		s.Close()
		if runErr := s.Err(); runErr != nil {
			return nil, fmt.Errorf("composing panel: %w", runErr)
		}
		return nil, fmt.Errorf("composing panel: %w", err)
	}
	if buildErr != nil {
		s.Close()
		return nil, fmt.Errorf("composing panel: %w", buildErr)
	}

	logger.Info("Session opened.", "remote", client.BaseURL(), "home", home)
	return s, nil
}
