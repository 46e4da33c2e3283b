package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Remote describes the file server panels talk to.
type Remote struct {
	BaseURL       string
	HomeDirectory string
}

// Server describes the panel host.
type Server struct {
	Listen string
}

// FileServer describes the optional built-in file server.
type FileServer struct {
	Enabled bool
	Listen  string
	Root    string
}

// Log describes the process logger.
type Log struct {
	Level  string
	Format string
}

// Config is the complete process configuration.
type Config struct {
	Remote     Remote
	Server     Server
	FileServer FileServer
	Log        Log
}

// Default returns the configuration used for anything the files leave unset.
func Default() *Config {
	return &Config{
		Remote:     Remote{BaseURL: "http://localhost:8000", HomeDirectory: "/"},
		Server:     Server{Listen: ":8080"},
		FileServer: FileServer{Enabled: false, Listen: ":8000", Root: "./data"},
		Log:        Log{Level: "info", Format: "text"},
	}
}

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Remote.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("remote.base_url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("remote.base_url: unsupported scheme %q", u.Scheme))
	case u.Host == "":
		errs = append(errs, errors.New("remote.base_url: missing host"))
	}
	if !strings.HasPrefix(c.Remote.HomeDirectory, "/") || !strings.HasSuffix(c.Remote.HomeDirectory, "/") {
		errs = append(errs, fmt.Errorf("remote.home_directory: %q must start and end with '/'", c.Remote.HomeDirectory))
	}
	if c.Server.Listen == "" {
		errs = append(errs, errors.New("server.listen: must not be empty"))
	}
	if c.FileServer.Enabled {
		if c.FileServer.Listen == "" {
			errs = append(errs, errors.New("fileserver.listen: must not be empty"))
		}
		if c.FileServer.Root == "" {
			errs = append(errs, errors.New("fileserver.root: must not be empty"))
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: must be 'debug', 'info', 'warn', or 'error', got %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: must be 'text' or 'json', got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
