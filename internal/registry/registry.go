package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vk/filepanel/internal/dom"
	"github.com/vk/filepanel/internal/filemanager"
)

// Capabilities is everything a builder, and every event handler it wires,
// may use: sibling controls, node construction and the file manager.
// Controls never talk to each other directly, only through this interface.
type Capabilities interface {
	// Control returns the realized node registered under name. It panics
	// with an error when name was never realized.
	Control(name string) *dom.Node
	// BuildNode creates an element with attrs and children. A string child
	// becomes a text node; a *dom.Node child is appended as is.
	BuildNode(tag string, attrs dom.Attrs, children ...any) *dom.Node
	// ReplaceOptions replaces every option of sel with one per value.
	ReplaceOptions(sel *dom.Node, values []string)
	// Context returns the panel's lifetime context, for work started while
	// building rather than from an event handler.
	Context() context.Context
	// Files returns the panel's file manager.
	Files() *filemanager.Manager
	// Logger returns the panel logger.
	Logger() *slog.Logger
	// Prompt asks the user for a line of text.
	Prompt(message string) (string, bool)
	// Report records a failure caught by a handler.
	Report(err error, msg string)
}

// Builder realizes one control.
type Builder func(c Capabilities) (*dom.Node, error)

// Entry is one registration.
type Entry struct {
	Name    string
	Builder Builder
}

// Module is implemented by packages contributing controls.
type Module interface {
	Register(r *Registry)
}

// DuplicateNameError reports a second registration of a name.
type DuplicateNameError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("control with name '%s' already registered", e.Name)
}

var (
	// ErrEmptyName is returned when registering an empty control name.
	ErrEmptyName = errors.New("control name is empty")
	// ErrNilBuilder is returned when registering a nil builder.
	ErrNilBuilder = errors.New("control builder is nil")
)

// Registry holds control builders in registration order.
type Registry struct {
	mu      sync.RWMutex
	index   map[string]struct{}
	entries []Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{index: make(map[string]struct{})}
}

// Register adds b under name.
func (r *Registry) Register(name string, b Builder) error {
	if name == "" {
		return ErrEmptyName
	}
	if b == nil {
		return fmt.Errorf("control '%s': %w", name, ErrNilBuilder)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[name]; exists {
		return &DuplicateNameError{Name: name}
	}
	slog.Debug("Registering control.", "name", name)
	r.index[name] = struct{}{}
	r.entries = append(r.entries, Entry{Name: name, Builder: b})
	return nil
}

// MustRegister is Register for load-time wiring: it panics on error.
func (r *Registry) MustRegister(name string, b Builder) {
	if err := r.Register(name, b); err != nil {
		panic(err)
	}
}

// Entries returns a snapshot of all registrations in registration order.
// Later registrations do not affect a snapshot already taken.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Name
	}
	return out
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[name]
	return ok
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Load registers every module into r, in order.
func (r *Registry) Load(mods ...Module) {
	for _, mod := range mods {
		if mod != nil {
			mod.Register(r)
		}
	}
}

// Default is the process-wide registry used when a panel is not given one.
var Default = New()

// Register adds b under name to Default, panicking on error. It is meant
// for init-time registration by extension packages.
func Register(name string, b Builder) {
	Default.MustRegister(name, b)
}
