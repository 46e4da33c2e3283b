package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/vk/filepanel/internal/config"
	"github.com/vk/filepanel/internal/ctxlog"
	"github.com/vk/filepanel/internal/fileserver"
	"github.com/vk/filepanel/internal/host"
	"github.com/vk/filepanel/internal/registry"
	"github.com/vk/filepanel/internal/resource"
	"github.com/vk/filepanel/internal/session"
)

// Loader reads the configuration files.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*config.Config, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *config.Config
	registry *registry.Registry
	host     *host.Server
	files    *fileserver.Server

	mu        sync.Mutex
	ready     chan struct{}
	hostAddr  string
	filesAddr string
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Modules default to coreModules; controls registered on registry.Default
// are added after them.
func NewApp(outW io.Writer, appConfig *Config, loader Loader, modules ...registry.Module) (*App, error) {
	bootCtx := ctxlog.WithLogger(context.Background(), slog.Default())
	cfg, err := loader.Load(bootCtx, appConfig.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	appConfig.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg.Log, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	reg.Load(modules...)
	for _, e := range registry.Default.Entries() {
		if err := reg.Register(e.Name, e.Builder); err != nil {
			return nil, fmt.Errorf("adding extension control: %w", err)
		}
	}
	logger.Debug("All control modules registered.", "modules", len(modules), "controls", reg.Names())

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		ready:    make(chan struct{}),
	}

	factory := &session.Factory{
		BaseURL:       cfg.Remote.BaseURL,
		HomeDirectory: cfg.Remote.HomeDirectory,
		Registry:      reg,
		ClientOptions: []resource.Option{
			resource.WithHeader("User-Agent", "filepanel"),
		},
	}
	a.host = host.New(factory, host.WithLogger(logger))
	if cfg.FileServer.Enabled {
		a.files = fileserver.NewDir(cfg.FileServer.Root, fileserver.WithLogger(logger))
	}
	return a, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Config returns the effective configuration.
func (a *App) Config() *config.Config {
	return a.config
}

// Ready is closed once Run is listening.
func (a *App) Ready() <-chan struct{} {
	return a.ready
}

// HostAddr returns the address the panel host listens on, once Ready.
func (a *App) HostAddr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hostAddr
}

// FileServerAddr returns the address of the built-in file server, once
// Ready. It is empty if the file server is disabled.
func (a *App) FileServerAddr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.filesAddr
}
