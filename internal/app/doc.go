// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the process lifecycle: the panel host and
// the optional built-in file server, decoupled from any specific entrypoint
// like a CLI.
package app
