package app

import (
	"errors"

	"github.com/vk/filepanel/internal/config"
)

// Config holds what the entrypoint collected: the configuration files to
// load and the values overriding them. Empty overrides are ignored.
type Config struct {
	ConfigPaths []string // hcl files or directories

	RemoteURL     string
	HomeDirectory string
	Listen        string
	LogFormat     string
	LogLevel      string

	FileServerRoot   string // non-empty enables the built-in file server
	FileServerListen string
}

func NewConfig(cfg Config) (*Config, error) {
	for _, p := range cfg.ConfigPaths {
		if p == "" {
			return nil, errors.New("configuration paths cannot be empty")
		}
	}
	return &cfg, nil
}

// apply writes the overrides into cfg.
func (c *Config) apply(cfg *config.Config) {
	override(&cfg.Remote.BaseURL, c.RemoteURL)
	override(&cfg.Remote.HomeDirectory, c.HomeDirectory)
	override(&cfg.Server.Listen, c.Listen)
	override(&cfg.Log.Format, c.LogFormat)
	override(&cfg.Log.Level, c.LogLevel)
	if c.FileServerRoot != "" {
		cfg.FileServer.Enabled = true
		cfg.FileServer.Root = c.FileServerRoot
	}
	override(&cfg.FileServer.Listen, c.FileServerListen)
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
