package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/LerianStudio/lib-openhours/openhours"
	"github.com/LerianStudio/lib-openhours/openhours/log"
	"github.com/LerianStudio/lib-openhours/openhours/opentelemetry"
	"github.com/LerianStudio/lib-openhours/openhours/runtime"
)

// ErrNoServersConfigured indicates no server was configured for the manager.
var ErrNoServersConfigured = errors.New("no servers configured: use WithHTTPServer()")

const defaultShutdownTimeout = 30 * time.Second

// ServerManager owns the HTTP server lifecycle: start, wait for a stop
// signal, then shut down the server, telemetry and logger in that order.
type ServerManager struct {
	httpServer         *fiber.App
	telemetry          *opentelemetry.Telemetry
	logger             log.Logger
	httpAddress        string
	serversStarted     chan struct{}
	serversStartedOnce sync.Once
	shutdownChan       <-chan struct{}
	shutdownOnce       sync.Once
	shutdownTimeout    time.Duration
	startupErrors      chan error
}

// NewServerManager creates a new instance of ServerManager.
// A nil logger is replaced by a no-op logger.
func NewServerManager(telemetry *opentelemetry.Telemetry, logger log.Logger) *ServerManager {
	if logger == nil {
		logger = log.NewNop()
	}

	return &ServerManager{
		telemetry:       telemetry,
		logger:          logger,
		serversStarted:  make(chan struct{}),
		shutdownTimeout: defaultShutdownTimeout,
		startupErrors:   make(chan error, 1),
	}
}

// WithHTTPServer configures the HTTP server for the ServerManager.
func (sm *ServerManager) WithHTTPServer(app *fiber.App, address string) *ServerManager {
	sm.httpServer = app
	sm.httpAddress = address

	return sm
}

// WithShutdownChannel replaces OS signal handling with ch; closing it triggers shutdown.
func (sm *ServerManager) WithShutdownChannel(ch <-chan struct{}) *ServerManager {
	sm.shutdownChan = ch

	return sm
}

// WithShutdownTimeout bounds how long in-flight requests may take to drain.
// Defaults to 30 seconds.
func (sm *ServerManager) WithShutdownTimeout(d time.Duration) *ServerManager {
	if d > 0 {
		sm.shutdownTimeout = d
	}

	return sm
}

// ServersStarted returns a channel closed once the server goroutine has been
// launched. It does not mean the socket is bound yet.
func (sm *ServerManager) ServersStarted() <-chan struct{} {
	return sm.serversStarted
}

// Run implements openhours.App so the manager can be driven by a Launcher.
func (sm *ServerManager) Run(_ *openhours.Launcher) error {
	return sm.StartWithGracefulShutdownWithError()
}

// StartWithGracefulShutdownWithError starts the configured server and blocks
// until a termination signal arrives, the shutdown channel is closed or the
// server fails to start. A startup failure is returned after cleanup.
func (sm *ServerManager) StartWithGracefulShutdownWithError() error {
	if sm.httpServer == nil {
		return ErrNoServersConfigured
	}

	sm.startServers()

	return sm.handleShutdown()
}

func (sm *ServerManager) startServers() {
	runtime.SafeGoWithContextAndComponent(
		context.Background(),
		sm.logger,
		"server",
		"start_http_server",
		runtime.KeepRunning,
		func(ctx context.Context) {
			sm.logger.Log(ctx, log.LevelInfo, "starting HTTP server", log.String("address", sm.httpAddress))

			if err := sm.httpServer.Listen(sm.httpAddress); err != nil {
				select {
				case sm.startupErrors <- fmt.Errorf("HTTP server: %w", err):
				default:
				}
			}
		},
	)

	sm.serversStartedOnce.Do(func() {
		close(sm.serversStarted)
	})
}

func (sm *ServerManager) handleShutdown() error {
	var startupErr error

	if sm.shutdownChan != nil {
		select {
		case <-sm.shutdownChan:
		case startupErr = <-sm.startupErrors:
		}
	} else {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		select {
		case <-c:
		case startupErr = <-sm.startupErrors:
		}

		signal.Stop(c)
	}

	if startupErr != nil {
		sm.logger.Log(context.Background(), log.LevelError, "server startup failed", log.Err(startupErr))
	}

	sm.logger.Log(context.Background(), log.LevelInfo, "gracefully shutting down")

	sm.executeShutdown()

	return startupErr
}

// executeShutdown is idempotent; only the first call runs the sequence.
func (sm *ServerManager) executeShutdown() {
	sm.shutdownOnce.Do(func() {
		ctx := context.Background()

		if sm.httpServer != nil {
			if err := sm.httpServer.ShutdownWithTimeout(sm.shutdownTimeout); err != nil {
				sm.logger.Log(ctx, log.LevelError, "HTTP server shutdown failed", log.Err(err))
			}
		}

		if sm.telemetry != nil {
			shutdownCtx, cancel := context.WithTimeout(ctx, sm.shutdownTimeout)

			if err := sm.telemetry.ShutdownTelemetryWithContext(shutdownCtx); err != nil {
				sm.logger.Log(ctx, log.LevelError, "telemetry shutdown failed", log.Err(err))
			}

			cancel()
		}

		sm.logger.Log(ctx, log.LevelInfo, "graceful shutdown completed")

		if err := sm.logger.Sync(ctx); err != nil {
			sm.logger.Log(ctx, log.LevelWarn, "failed to sync logger", log.Err(err))
		}
	})
}
