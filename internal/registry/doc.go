// Package registry is the extension point of the panel: a process-wide,
// append-only mapping from control name to the Builder that realizes it.
//
// Control packages register their builders before any panel is composed,
// typically by implementing Module and being listed by the application, or
// by calling Register from an init function. A panel reads Entries once,
// at construction, and realizes every builder in registration order; that
// order is also the order controls appear on screen.
//
// Names are write-once. Registering a name twice is a wiring bug: Register
// returns a *DuplicateNameError and the package-level helpers panic with it.
package registry
