package fileserver

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
	"github.com/vk/filepanel/internal/resource"
)

var allowedMethods = strings.Join([]string{
	resource.MethodGet, resource.MethodPut, resource.MethodDelete, resource.MethodMkcol,
}, ", ")

// Server is an http.Handler exposing an afero.Fs.
type Server struct {
	fs     afero.Fs
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a handler serving fsys.
func New(fsys afero.Fs, opts ...Option) *Server {
	s := &Server{fs: fsys, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// NewDir returns a handler serving the directory root on the local disk.
// Paths cannot escape root.
func NewDir(root string, opts ...Option) *Server {
	return New(afero.NewBasePathFs(afero.NewOsFs(), root), opts...)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	logger := s.logger.With("method", r.Method, "path", name)
	logger.Debug("File server request.")

	var status int
	var err error
	switch r.Method {
	case resource.MethodGet:
		status, err = s.get(w, name)
	case resource.MethodPut:
		status, err = s.put(name, r.Body)
	case resource.MethodDelete:
		status, err = s.delete(name)
	case resource.MethodMkcol:
		status, err = s.mkcol(name)
	default:
		w.Header().Set("Allow", allowedMethods)
		http.Error(w, "Method "+r.Method+" not allowed.", http.StatusMethodNotAllowed)
		return
	}

	if err != nil {
		logger.Debug("File server request failed.", "status", status, "error", err)
		http.Error(w, err.Error(), status)
		return
	}
	if status != 0 {
		w.WriteHeader(status)
	}
}

func (s *Server) get(w http.ResponseWriter, name string) (int, error) {
	info, err := s.fs.Stat(name)
	if err != nil {
		return statusFor(err), err
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if info.IsDir() {
		entries, err := afero.ReadDir(s.fs, name)
		if err != nil {
			return statusFor(err), err
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		_, _ = io.WriteString(w, strings.Join(names, "\n"))
		return 0, nil
	}

	f, err := s.fs.Open(name)
	if err != nil {
		return statusFor(err), err
	}
	defer f.Close()
	_, _ = io.Copy(w, f)
	return 0, nil
}

func (s *Server) put(name string, body io.Reader) (int, error) {
	if info, err := s.fs.Stat(name); err == nil && info.IsDir() {
		return http.StatusBadRequest, errors.New("is a directory")
	}
	f, err := s.fs.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return statusFor(err), err
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		return http.StatusInternalServerError, err
	}
	if err := f.Close(); err != nil {
		return http.StatusInternalServerError, err
	}
	return http.StatusNoContent, nil
}

func (s *Server) delete(name string) (int, error) {
	if _, err := s.fs.Stat(name); err != nil {
		return statusFor(err), err
	}
	if err := s.fs.Remove(name); err != nil {
		return statusFor(err), err
	}
	return http.StatusNoContent, nil
}

func (s *Server) mkcol(name string) (int, error) {
	info, err := s.fs.Stat(name)
	switch {
	case err == nil && info.IsDir():
		return http.StatusNoContent, nil
	case err == nil:
		return http.StatusBadRequest, errors.New("file exists")
	}
	if err := s.fs.Mkdir(name, 0o755); err != nil {
		return statusFor(err), err
	}
	return http.StatusNoContent, nil
}

func statusFor(err error) int {
	if errors.Is(err, fs.ErrNotExist) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
