package builder

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/futig/docchat/internal/watcher"
	"go.uber.org/zap"
)

// App represents the application with all its components
type App struct {
	server  *http.Server
	core    *core
	watcher *watcher.Watcher
	logger  *zap.Logger
}

// Run starts the HTTP server and the inbox watcher, then blocks until a
// shutdown signal or a server error
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	watcherDone := make(chan struct{})
	if a.watcher != nil {
		go func() {
			defer close(watcherDone)
			if err := a.watcher.Run(ctx); err != nil {
				a.logger.Error("Inbox watcher stopped", zap.Error(err))
			}
		}()
	} else {
		close(watcherDone)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		cancel()
		<-watcherDone
		a.core.close()
		return err
	case sig := <-sigChan:
		a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	cancel()
	<-watcherDone
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.logger.Info("Shutting down server gracefully")

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
		return err
	}

	a.logger.Info("Closing database connections and index")
	a.core.close()

	a.logger.Info("Application stopped gracefully")
	return nil
}
