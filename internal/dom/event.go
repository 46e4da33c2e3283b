package dom

import "context"

// Event is delivered to listeners of the target node and its ancestors.
type Event struct {
	Type string

	// Target is the node the event was dispatched on.
	Target *Node
	// CurrentTarget is the node whose listener is running.
	CurrentTarget *Node

	defaultPrevented bool
	stopped          bool
}

// NewEvent returns an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation keeps the event from reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// AddEventListener registers l for events of type typ on n.
func (n *Node) AddEventListener(typ string, l Listener) {
	if l == nil {
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]Listener)
	}
	n.listeners[typ] = append(n.listeners[typ], l)
}

// Dispatch delivers ev to n and then to each ancestor in turn. It returns
// false if a listener called PreventDefault.
func (n *Node) Dispatch(ctx context.Context, ev *Event) bool {
	ev.Target = n
	for cur := n; cur != nil && !ev.stopped; cur = cur.parent {
		ev.CurrentTarget = cur
		for _, l := range cur.listeners[ev.Type] {
			l(ctx, ev)
		}
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}
