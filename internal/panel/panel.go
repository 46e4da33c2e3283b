package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vk/filepanel/internal/dom"
	"github.com/vk/filepanel/internal/filemanager"
	"github.com/vk/filepanel/internal/registry"
)

// Panel is a composed set of controls mounted on a host node. It implements
// registry.Capabilities.
type Panel struct {
	ctx      context.Context
	host     *dom.Node
	files    *filemanager.Manager
	controls map[string]*dom.Node
	order    []string
	logger   *slog.Logger
	prompter Prompter
	reporter func(error)
}

var _ registry.Capabilities = (*Panel)(nil)

// New composes a panel onto host. client carries out the file manager's
// remote operations; ctx bounds work the builders start while building.
func New(ctx context.Context, host *dom.Node, client filemanager.Caller, opts ...Option) (*Panel, error) {
	if host == nil {
		return nil, errors.New("panel: nil host node")
	}
	if client == nil {
		return nil, errors.New("panel: nil resource client")
	}

	o := options{
		registry: registry.Default,
		home:     DefaultHomeDirectory,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	p := &Panel{
		ctx:      ctx,
		host:     host,
		controls: make(map[string]*dom.Node),
		logger:   o.logger,
		prompter: o.prompter,
		reporter: o.reporter,
	}

	p.files = filemanager.New(client, o.home,
		filemanager.WithLogger(o.logger),
		filemanager.WithErrorReporter(o.reporter),
	)

	if err := p.buildControls(o.registry.Entries()); err != nil {
		return nil, err
	}
	p.mount()

	p.logger.Debug("Panel composed.", "controls", len(p.order), "home", o.home)
	return p, nil
}

// buildControls realizes every entry. Builder panics are not recovered.
func (p *Panel) buildControls(entries []registry.Entry) error {
	for _, e := range entries {
		node, err := e.Builder(p)
		if err != nil {
			return fmt.Errorf("building control '%s': %w", e.Name, err)
		}
		if node == nil {
			return fmt.Errorf("building control '%s': builder returned no node", e.Name)
		}
		p.controls[e.Name] = node
		p.order = append(p.order, e.Name)
		p.logger.Debug("Control built.", "name", e.Name, "tag", node.Tag())
	}
	return nil
}

func (p *Panel) mount() {
	for _, name := range p.order {
		p.host.AppendChild(p.controls[name])
	}
}

// Control returns the realized node registered under name. It panics with
// *UnknownControlError if there is none.
func (p *Panel) Control(name string) *dom.Node {
	n, err := p.LookupControl(name)
	if err != nil {
		panic(err)
	}
	return n
}

// LookupControl is Control without the panic.
func (p *Panel) LookupControl(name string) (*dom.Node, error) {
	n, ok := p.controls[name]
	if !ok {
		return nil, &UnknownControlError{Name: name}
	}
	return n, nil
}

// ControlNames returns the realized control names in mount order.
func (p *Panel) ControlNames() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Host returns the node the panel is mounted on.
func (p *Panel) Host() *dom.Node { return p.host }

// Context returns the context the panel was built with.
func (p *Panel) Context() context.Context { return p.ctx }

// Files returns the panel's file manager.
func (p *Panel) Files() *filemanager.Manager { return p.files }

// Logger returns the panel logger.
func (p *Panel) Logger() *slog.Logger { return p.logger }

// Prompt asks the user for input through the configured prompter.
func (p *Panel) Prompt(message string) (string, bool) {
	if p.prompter == nil {
		p.logger.Debug("No prompter configured, prompt left unanswered.", "message", message)
		return "", false
	}
	return p.prompter(message)
}

// Report logs a failure caught by a handler and forwards it to the error
// reporter, if any.
func (p *Panel) Report(err error, msg string) {
	p.logger.Error(msg, "error", err)
	if p.reporter != nil {
		p.reporter(err)
	}
}

// ReplaceOptions drops every child of sel and appends one option per value,
// in order.
func (p *Panel) ReplaceOptions(sel *dom.Node, values []string) {
	sel.RemoveChildren()
	for _, v := range values {
		sel.AppendChild(p.BuildNode("option", nil, v))
	}
}

// BuildNode creates an element. Children may be strings (text nodes),
// *dom.Node values or nil (skipped); anything else is a programming error
// and panics.
func (p *Panel) BuildNode(tag string, attrs dom.Attrs, children ...any) *dom.Node {
	n := dom.NewElement(tag)
	n.SetAttrs(attrs)
	for _, child := range children {
		switch c := child.(type) {
		case nil:
		case string:
			n.AppendChild(dom.NewText(c))
		case *dom.Node:
			n.AppendChild(c)
		default:
			panic(fmt.Sprintf("panel: unsupported child type %T", child))
		}
	}
	return n
}

// Node returns the node with the given ID under the host.
func (p *Panel) Node(id string) (*dom.Node, error) {
	n := p.host.FindByID(id)
	if n == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return n, nil
}

// Dispatch delivers ev to the node with the given ID. It reports whether the
// default action may proceed.
func (p *Panel) Dispatch(ctx context.Context, id string, ev *dom.Event) (bool, error) {
	n, err := p.Node(id)
	if err != nil {
		return false, err
	}
	p.logger.Debug("Dispatching event.", "node", id, "type", ev.Type)
	return n.Dispatch(ctx, ev), nil
}
