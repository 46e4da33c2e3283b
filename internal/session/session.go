package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/vk/filepanel/internal/async"
	"github.com/vk/filepanel/internal/dom"
	"github.com/vk/filepanel/internal/panel"
)

type answer struct {
	text string
	ok   bool
}

// Session is one live panel.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	loop  *async.Loop
	host  *dom.Node
	panel *panel.Panel

	sendPrompt    func(message string)
	answers       chan answer
	promptTimeout time.Duration
	report        func(error)

	done      chan struct{}
	runErr    error
	closeOnce sync.Once
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Done is closed once the session's loop has stopped.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err returns why the loop stopped, once Done is closed. It is nil after a
// regular Close and a *async.PanicError if a handler panicked.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.runErr
	default:
		return nil
	}
}

func (s *Session) run() {
	defer close(s.done)
	err := s.loop.Run(s.ctx)
	var pe *async.PanicError
	if errors.As(err, &pe) {
		s.logger.Error("Panel halted after a handler panic.", "error", pe, "stack", string(pe.Stack))
		s.runErr = err
	}
}

// Do runs fn on the session loop, with the panel, and waits for it.
func (s *Session) Do(ctx context.Context, fn func(p *panel.Panel)) error {
	return s.loop.Do(ctx, func() { fn(s.panel) })
}

// Dispatch applies the reported control state to the target node and
// delivers the event to it. It does not wait for work the listeners start.
func (s *Session) Dispatch(ctx context.Context, ev Event) error {
	if ev.Node == "" || ev.Type == "" {
		return errors.New("invalid event: node and type are required")
	}
	var dispatchErr error
	err := s.Do(ctx, func(p *panel.Panel) {
		target, err := p.Node(ev.Node)
		if err != nil {
			dispatchErr = err
			return
		}
		applyState(target, ev)
		_, dispatchErr = p.Dispatch(s.ctx, ev.Node, dom.NewEvent(ev.Type))
	})
	if err != nil {
		return err
	}
	return dispatchErr
}

func applyState(n *dom.Node, ev Event) {
	if ev.Value != nil {
		n.SetValue(*ev.Value)
	}
	if ev.SelectionStart != nil && ev.SelectionEnd != nil {
		v := n.Value()
		n.SetSelectionRange(dom.RuneOffset(v, *ev.SelectionStart), dom.RuneOffset(v, *ev.SelectionEnd))
	}
}

// Settle waits until every operation started by the panel has finished.
func (s *Session) Settle(ctx context.Context) error {
	return s.loop.Settle(ctx)
}

// Render returns the HTML of the host node.
func (s *Session) Render(ctx context.Context) (string, error) {
	var (
		out       string
		renderErr error
	)
	if err := s.loop.Do(ctx, func() { out, renderErr = dom.RenderString(s.host) }); err != nil {
		return "", err
	}
	return out, renderErr
}

// Answer delivers the user's reply to the pending prompt. ok is false if
// the user dismissed it. Answers arriving while no prompt is pending are
// dropped.
func (s *Session) Answer(text string, ok bool) {
	select {
	case s.answers <- answer{text: text, ok: ok}:
	default:
		s.logger.Debug("Dropping prompt answer, one is already pending.")
	}
}

// prompt runs on the loop and blocks it until the browser answers.
func (s *Session) prompt(message string) (string, bool) {
	if s.sendPrompt == nil {
		s.logger.Debug("No prompt sender configured.", "message", message)
		return "", false
	}
	// Discard an answer left over from an earlier, timed out prompt.
	select {
	case <-s.answers:
	default:
	}
	s.sendPrompt(message)

	timer := time.NewTimer(s.promptTimeout)
	defer timer.Stop()
	select {
	case a := <-s.answers:
		return a.text, a.ok
	case <-timer.C:
		s.logger.Warn("Prompt timed out.", "message", message, "timeout", s.promptTimeout)
		return "", false
	case <-s.ctx.Done():
		return "", false
	}
}

func (s *Session) reportError(err error) {
	if s.report != nil {
		s.report(err)
	}
}

// Close stops the loop and waits for it. Work still in flight is dropped.
// Close is idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.loop.Close()
		<-s.done
		s.logger.Info("Session closed.")
	})
}
