package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vk/filepanel/internal/async"
	"github.com/vk/filepanel/internal/ctxlog"
	"github.com/vk/filepanel/internal/session"
	"github.com/zishang520/socket.io/v2/socket"
)

// eventBacklog is how many dispatches may queue per connection before new
// ones are dropped. Dropped user actions are reported to the browser.
const eventBacklog = 64

// syncEvents only report control state. They are applied to the panel but do
// not trigger a new rendering, which would clobber the user's typing.
var syncEvents = map[string]bool{
	"input":  true,
	"select": true,
}

type emitFunc func(event string, args ...any)

// connection serves one socket.io client.
type connection struct {
	srv     *Server
	sess    *session.Session
	emit    emitFunc
	logger  *slog.Logger
	events  chan session.Event
	closing chan struct{}
	once    sync.Once
}

func (s *Server) accept(client *socket.Socket) {
	emit := func(event string, args ...any) {
		client.Emit(event, args...)
	}
	c, err := s.open(s.context(), emit)
	if err != nil {
		s.logger.Error("Opening session failed.", "socket", client.Id(), "error", err)
		emit("report", err.Error())
		client.Disconnect(true)
		return
	}
	c.logger.Debug("Socket connected.", "socket", client.Id())

	client.On("dispatch", func(args ...any) {
		var ev session.Event
		if err := decode(args, &ev); err != nil {
			c.logger.Warn("Ignoring malformed dispatch.", "error", err)
			return
		}
		c.enqueue(ev)
	})
	client.On("prompt-answer", func(args ...any) {
		var a struct {
			Value string `json:"value"`
			OK    bool   `json:"ok"`
		}
		if err := decode(args, &a); err != nil {
			c.logger.Warn("Ignoring malformed prompt answer.", "error", err)
			return
		}
		c.sess.Answer(a.Value, a.OK)
	})
	client.On("disconnect", func(...any) {
		c.logger.Debug("Socket disconnected.", "socket", client.Id())
		c.close()
	})

	go c.serve()
	go func() {
		select {
		case <-c.sess.Done():
			if err := c.sess.Err(); err != nil {
				emit("report", "panel halted: "+err.Error())
				client.Disconnect(true)
			}
		case <-c.closing:
		}
	}()
}

// open starts a session whose prompts and reports go out through emit.
func (s *Server) open(ctx context.Context, emit emitFunc) (*connection, error) {
	sess, err := s.factory.New(ctx,
		session.WithPromptSender(func(msg string) { emit("prompt", msg) }),
		session.WithErrorReporter(func(err error) { emit("report", err.Error()) }),
	)
	if err != nil {
		return nil, err
	}
	s.sessions.Put(sess)
	return &connection{
		srv:     s,
		sess:    sess,
		emit:    emit,
		logger:  ctxlog.FromContext(ctx).With("session", sess.ID()),
		events:  make(chan session.Event, eventBacklog),
		closing: make(chan struct{}),
	}, nil
}

func (c *connection) enqueue(ev session.Event) {
	select {
	case c.events <- ev:
	case <-c.closing:
	default:
		c.logger.Warn("Dropping event, backlog full.", "node", ev.Node, "type", ev.Type)
		if !syncEvents[ev.Type] {
			c.emit("report", fmt.Sprintf("Panel is busy, %s ignored.", ev.Type))
		}
	}
}

// serve renders the initial panel, then handles queued events in order.
func (c *connection) serve() {
	c.render()
	for {
		select {
		case <-c.closing:
			return
		case ev := <-c.events:
			if err := c.handle(ev); err != nil {
				if errors.Is(err, async.ErrLoopClosed) {
					return
				}
				c.logger.Warn("Handling event failed.", "node", ev.Node, "type", ev.Type, "error", err)
				c.emit("report", err.Error())
			}
		}
	}
}

// handle applies ev and, unless it only syncs state, pushes the panel as it
// looks once every started operation has finished.
func (c *connection) handle(ev session.Event) error {
	if err := c.sess.Dispatch(c.srv.context(), ev); err != nil {
		return err
	}
	if !syncEvents[ev.Type] {
		c.render()
	}
	return nil
}

func (c *connection) render() {
	ctx, cancel := context.WithTimeout(c.srv.context(), c.srv.renderTimeout)
	defer cancel()
	if err := c.sess.Settle(ctx); err != nil {
		c.logger.Warn("Panel did not settle, rendering anyway.", "error", err)
	}
	html, err := c.sess.Render(ctx)
	if err != nil {
		c.logger.Error("Rendering panel failed.", "error", err)
		return
	}
	c.emit("render", html)
}

// close ends the session. It is safe to call more than once.
func (c *connection) close() {
	c.once.Do(func() {
		close(c.closing)
		c.srv.sessions.Remove(c.sess.ID())
		c.sess.Close()
	})
}

// decode converts the first socket.io argument into v through JSON.
func decode(args []any, v any) error {
	if len(args) == 0 {
		return errors.New("missing payload")
	}
	raw, err := json.Marshal(args[0])
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}
	return nil
}
