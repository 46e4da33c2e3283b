package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/filepanel/internal/ctxlog"
	"github.com/vk/filepanel/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Extension is the suffix of configuration files found in directories.
const Extension = ".hcl"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Remote     *remoteBlock     `hcl:"remote,block"`
	Server     *serverBlock     `hcl:"server,block"`
	FileServer *fileServerBlock `hcl:"fileserver,block"`
	Log        *logBlock        `hcl:"log,block"`
}

type remoteBlock struct {
	BaseURL       *string `hcl:"base_url,optional"`
	HomeDirectory *string `hcl:"home_directory,optional"`
}

type serverBlock struct {
	Listen *string `hcl:"listen,optional"`
}

type fileServerBlock struct {
	Enabled *bool   `hcl:"enabled,optional"`
	Listen  *string `hcl:"listen,optional"`
	Root    *string `hcl:"root,optional"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// Loader reads HCL configuration files.
type Loader struct {
	environ func() []string
}

// NewLoader creates a loader reading the process environment.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ}
}

// Load applies every file found under paths, in order, on top of Default().
// Directories are searched for files with Extension. The result is not
// validated.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Config, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(Extension, paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	cfg := Default()
	parser := hclparse.NewParser()
	evalCtx := l.evalContext()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		root.applyTo(cfg)
		logger.Debug("Applied configuration file.", "file", file)
	}

	logger.Debug("HCL loading complete.", "files", len(files))
	return cfg, nil
}

// evalContext exposes the environment as env.NAME plus string helpers.
func (l *Loader) evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
		Functions: map[string]function.Function{
			"coalesce":  stdlib.CoalesceFunc,
			"format":    stdlib.FormatFunc,
			"lower":     stdlib.LowerFunc,
			"upper":     stdlib.UpperFunc,
			"trimspace": stdlib.TrimSpaceFunc,
		},
	}
}

func (r *fileRoot) applyTo(cfg *Config) {
	if b := r.Remote; b != nil {
		set(&cfg.Remote.BaseURL, b.BaseURL)
		set(&cfg.Remote.HomeDirectory, b.HomeDirectory)
	}
	if b := r.Server; b != nil {
		set(&cfg.Server.Listen, b.Listen)
	}
	if b := r.FileServer; b != nil {
		set(&cfg.FileServer.Enabled, b.Enabled)
		set(&cfg.FileServer.Listen, b.Listen)
		set(&cfg.FileServer.Root, b.Root)
	}
	if b := r.Log; b != nil {
		set(&cfg.Log.Level, b.Level)
		set(&cfg.Log.Format, b.Format)
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
