package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/vk/filepanel/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds the graceful shutdown of each HTTP server.
const shutdownTimeout = 5 * time.Second

// Run serves until ctx is cancelled or a server fails.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	hostLn, err := net.Listen("tcp", a.config.Server.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.config.Server.Listen, err)
	}
	servers := []*http.Server{{Handler: a.host}}
	listeners := []net.Listener{hostLn}

	var filesAddr string
	if a.files != nil {
		filesLn, err := net.Listen("tcp", a.config.FileServer.Listen)
		if err != nil {
			_ = hostLn.Close()
			return fmt.Errorf("failed to listen on %s: %w", a.config.FileServer.Listen, err)
		}
		servers = append(servers, &http.Server{Handler: a.files})
		listeners = append(listeners, filesLn)
		filesAddr = filesLn.Addr().String()
		a.logger.Info("File server starting.", "address", filesAddr, "root", a.config.FileServer.Root)
	}

	a.mu.Lock()
	a.hostAddr = hostLn.Addr().String()
	a.filesAddr = filesAddr
	a.mu.Unlock()
	a.logger.Info("Panel host starting.", "address", fmt.Sprintf("http://%s/", a.hostAddr), "remote", a.config.Remote.BaseURL)

	g, gctx := errgroup.WithContext(ctx)
	for i, srv := range servers {
		ln := listeners[i]
		g.Go(func() error {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server on %s failed: %w", ln.Addr(), err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown(servers)
	})
	close(a.ready)

	err = g.Wait()
	a.logger.Debug("App.Run method finished.")
	return err
}

func (a *App) shutdown(servers []*http.Server) error {
	a.logger.Info("Shutting down...")
	a.host.Close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			a.logger.Error("Server shutdown failed.", "error", err)
			errs = append(errs, err)
		}
	}
	a.logger.Debug("Servers shut down gracefully.")
	return errors.Join(errs...)
}
