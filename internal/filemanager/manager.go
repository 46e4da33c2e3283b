// Package filemanager exposes file semantics (list, read, write, delete) on
// top of a resource client, scoped to one base directory.
//
// Every operation is a fresh remote round-trip; nothing is cached. Names are
// appended to the base directory verbatim, so validation (empty names, "..")
// is the caller's concern.
//
// Errors from Read, Remove and WriteOrCreate propagate unmodified. List is
// the exception: a failed listing is reported and resolves to an empty
// slice. Callers relying on List must not expect it to ever reject.
package filemanager

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vk/filepanel/internal/async"
	"github.com/vk/filepanel/internal/resource"
)

// Caller performs one remote operation. *resource.Client implements it.
type Caller interface {
	Call(ctx context.Context, method, location string, body []byte) *async.Future[string]
}

// ErrorReporter receives errors absorbed by List.
type ErrorReporter func(err error)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithErrorReporter installs a hook that is told about every failed listing.
func WithErrorReporter(r ErrorReporter) Option {
	return func(m *Manager) {
		m.report = r
	}
}

// Manager is a file-oriented view of the remote store.
type Manager struct {
	client           Caller
	currentDirectory string
	logger           *slog.Logger
	report           ErrorReporter
}

// New returns a manager rooted at currentDirectory, e.g. "/".
func New(client Caller, currentDirectory string, opts ...Option) *Manager {
	m := &Manager{
		client:           client,
		currentDirectory: currentDirectory,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// CurrentDirectory returns the base location every name is resolved in.
func (m *Manager) CurrentDirectory() string {
	return m.currentDirectory
}

// List returns the entry names of the current directory, one per line of
// the remote listing. Subdirectories are listed like files.
//
// A name containing a newline cannot be represented in the listing and will
// show up split into several entries.
func (m *Manager) List(ctx context.Context) *async.Future[[]string] {
	listing := async.Then(m.client.Call(ctx, resource.MethodGet, m.currentDirectory, nil), func(body string) ([]string, error) {
		if body == "" {
			return []string{}, nil
		}
		return strings.Split(body, "\n"), nil
	})
	return async.Catch(listing, func(err error) ([]string, error) {
		m.logger.Error("Listing directory failed.", "directory", m.currentDirectory, "error", err)
		if m.report != nil {
			m.report(err)
		}
		return []string{}, nil
	})
}

// Read returns the content of name.
func (m *Manager) Read(ctx context.Context, name string) *async.Future[string] {
	file := m.currentDirectory + name
	return async.Then(m.client.Call(ctx, resource.MethodGet, file, nil), func(content string) (string, error) {
		m.logger.Debug("File loaded.", "file", file)
		return content, nil
	})
}

// Remove deletes name.
func (m *Manager) Remove(ctx context.Context, name string) *async.Future[struct{}] {
	file := m.currentDirectory + name
	return async.Then(m.client.Call(ctx, resource.MethodDelete, file, nil), func(string) (struct{}, error) {
		m.logger.Debug("File deleted.", "file", file)
		return struct{}{}, nil
	})
}

// WriteOrCreate overwrites name with content, creating it if it does not
// exist. An empty content is sent as an empty body and leaves an empty file.
func (m *Manager) WriteOrCreate(ctx context.Context, name, content string) *async.Future[struct{}] {
	file := m.currentDirectory + name
	return async.Then(m.client.Call(ctx, resource.MethodPut, file, []byte(content)), func(string) (struct{}, error) {
		m.logger.Debug("File saved.", "file", file)
		return struct{}{}, nil
	})
}

// Create makes name an empty file, truncating it if it already exists.
func (m *Manager) Create(ctx context.Context, name string) *async.Future[struct{}] {
	return m.WriteOrCreate(ctx, name, "")
}
