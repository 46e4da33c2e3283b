package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/filepanel/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// pathList collects a repeatable flag.
type pathList []string

func (p *pathList) String() string { return strings.Join(*p, ",") }

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("filepanel", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
filepanel - A browser editor panel for files on a remote file server.

Usage:
  filepanel [options] [CONFIG_PATH...]

Arguments:
  CONFIG_PATH
    Path to a .hcl file or a directory containing .hcl files. Later files
    override earlier ones; flags override all files.

Options:
`)
		flagSet.PrintDefaults()
	}

	var configPaths pathList
	flagSet.Var(&configPaths, "config", "Path to a configuration file or directory. May be repeated.")
	remoteFlag := flagSet.String("remote", "", "Base URL of the remote file server.")
	homeFlag := flagSet.String("home", "", "Directory on the remote file server the panel manages, e.g. '/docs/'.")
	listenFlag := flagSet.String("listen", "", "Address the panel host listens on, e.g. ':8080'.")
	serveFilesFlag := flagSet.String("serve-files", "", "Serve this local directory with the built-in file server.")
	filesListenFlag := flagSet.String("files-listen", "", "Address of the built-in file server, e.g. ':8000'.")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	paths := append([]string(nil), configPaths...)
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Configuration paths determined.", "paths", paths)

	logFormat := strings.ToLower(*logFormatFlag)
	switch logFormat {
	case "", "text", "json":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigPaths:      paths,
		RemoteURL:        *remoteFlag,
		HomeDirectory:    *homeFlag,
		Listen:           *listenFlag,
		LogFormat:        logFormat,
		LogLevel:         logLevel,
		FileServerRoot:   *serveFilesFlag,
		FileServerListen: *filesListenFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
