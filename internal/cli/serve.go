package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/catkoreabeauty/shopcheck/internal/config"
	"github.com/catkoreabeauty/shopcheck/internal/handlers"
)

// ServerDependencies holds all dependencies needed for the stub storefront
type ServerDependencies struct {
	ServerConfig config.ServerConfig
	HomeHandler  http.Handler
	ShopHandler  http.Handler
	Logger       *zap.Logger
}

// NewServerDependencies wires the storefront handlers with the embedded templates
func NewServerDependencies(cfg config.ServerConfig, store handlers.Storefront, logger *zap.Logger) (ServerDependencies, error) {
	renderer, err := handlers.DefaultRenderer()
	if err != nil {
		return ServerDependencies{}, fmt.Errorf("failed to create renderer: %w", err)
	}

	return ServerDependencies{
		ServerConfig: cfg,
		HomeHandler:  handlers.NewHomeHandler(renderer, store),
		ShopHandler:  handlers.NewShopHandler(renderer, store),
		Logger:       logger,
	}, nil
}

// RunServe starts the stub storefront and blocks until SIGINT or SIGTERM
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil, deps.Logger)
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle("/", deps.HomeHandler)
	mux.Handle("/shop/", deps.ShopHandler)

	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	go func() {
		logger.Info("Storefront listening", zap.String("addr", listener.Addr().String()))
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", zap.Error(err))
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server.
// If shutdown channel is nil, a new channel will be created and registered with signal.Notify.
func WaitForShutdown(server *http.Server, shutdown chan os.Signal, logger *zap.Logger) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second, logger)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout (primarily for testing)
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	logger.Info("Shutting down storefront", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		// http.Server.Close does not propagate listener close errors, so the
		// nested failure is effectively unreachable.
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	logger.Info("Storefront stopped")
	return nil
}
