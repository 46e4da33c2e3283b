package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/vk/filepanel/internal/async"
	"github.com/vk/filepanel/internal/fileserver"
)

// DefaultTimeout bounds every wait performed by the helpers in this package.
const DefaultTimeout = 5 * time.Second

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// NewLogger returns a debug-level text logger writing into a SafeBuffer. The
// captured output is printed when FILEPANEL_TEST_LOGS=true.
func NewLogger(t *testing.T) (*slog.Logger, *SafeBuffer) {
	t.Helper()
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if os.Getenv("FILEPANEL_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
	return logger, buf
}

// Remote is an in-memory remote file store reachable over HTTP.
type Remote struct {
	URL string
	FS  afero.Fs
}

// NewRemote starts a file server backed by an empty in-memory filesystem and
// seeds it with files (name -> content).
func NewRemote(t *testing.T, files map[string]string) *Remote {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, "/"+name, []byte(content), 0o644))
	}
	srv := httptest.NewServer(fileserver.New(fs))
	t.Cleanup(srv.Close)
	return &Remote{URL: srv.URL, FS: fs}
}

// ReadFile returns the stored content of name.
func (r *Remote) ReadFile(t *testing.T, name string) string {
	t.Helper()
	data, err := afero.ReadFile(r.FS, "/"+name)
	require.NoError(t, err)
	return string(data)
}

// StartLoop runs a new event loop until the test ends.
func StartLoop(t *testing.T) *async.Loop {
	t.Helper()
	l := async.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l
}

// Settle waits for the loop to run out of work.
func Settle(t *testing.T, l *async.Loop) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	require.NoError(t, l.Settle(ctx))
}

// Do runs fn on the loop and waits for it.
func Do(t *testing.T, l *async.Loop, fn func()) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	require.NoError(t, l.Do(ctx, fn))
}

// Await waits for f with the default timeout.
func Await[T any](t *testing.T, f *async.Future[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	return f.Await(ctx)
}
