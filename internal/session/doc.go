// Package session ties one browser connection to one panel.
//
// A Session owns an event loop running on its own goroutine, the host node
// the panel is mounted on, and the panel itself. Every access to the node
// tree goes through the loop: Dispatch and Render post work onto it and wait.
//
// Sessions are created by a Factory and tracked in a Store.
package session
