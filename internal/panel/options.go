package panel

import (
	"log/slog"

	"github.com/vk/filepanel/internal/registry"
)

// DefaultHomeDirectory is the directory a panel manages unless configured.
const DefaultHomeDirectory = "/"

// Prompter asks the user for a line of text. ok is false if the user gave
// no answer.
type Prompter func(message string) (answer string, ok bool)

type options struct {
	registry *registry.Registry
	home     string
	logger   *slog.Logger
	prompter Prompter
	reporter func(error)
}

// Option configures a Panel.
type Option func(*options)

// WithRegistry realizes the controls of r instead of registry.Default.
func WithRegistry(r *registry.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithHomeDirectory sets the directory the file manager is scoped to.
func WithHomeDirectory(dir string) Option {
	return func(o *options) {
		o.home = dir
	}
}

// WithLogger sets the panel logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPrompter sets how the panel asks the user for input.
func WithPrompter(p Prompter) Option {
	return func(o *options) {
		o.prompter = p
	}
}

// WithErrorReporter adds a hook receiving every reported failure, including
// failed listings absorbed by the file manager.
func WithErrorReporter(fn func(error)) Option {
	return func(o *options) {
		o.reporter = fn
	}
}
