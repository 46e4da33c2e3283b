// Package panel composes registered controls into a live panel.
//
// New follows a fixed protocol: it creates the panel's file manager, calls
// every registered builder with the panel as its registry.Capabilities, and
// mounts the resulting nodes onto the host node in registration order. A
// failing builder aborts construction; no partially wired panel is returned.
//
// After construction all access to a panel, including construction itself,
// must happen on the panel's event loop. Handlers that start remote
// operations catch their own failures and route them to Report, so no
// rejected future goes unobserved.
package panel
