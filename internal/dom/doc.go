// Package dom is a small, DOM-like node tree used as the panel's UI model.
//
// Nodes are elements or text. Elements carry ordered attributes, children,
// live form state (value, selection range) and event listeners. Events
// dispatched on a node bubble to its ancestors, the way browser events do,
// so a form listener sees the submit of any control inside it.
//
// A Node is not safe for concurrent use. The panel only touches its nodes
// from its event loop.
//
// Render serializes a tree to HTML through golang.org/x/net/html. Every
// element is rendered with a data-node attribute holding its ID, which the
// browser echoes back when reporting events.
package dom
