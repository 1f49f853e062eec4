// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nowa-systems/nowa-go/internal/application/container"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/caching/cleanup"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/caching/manager"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/email"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/media"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/performance"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/persistence/offline"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/security"
	"github.com/nowa-systems/nowa-go/internal/presentation/http/server"
	"github.com/nowa-systems/nowa-go/pkg/config"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[32m" + `

  ███╗   ██╗ ██████╗ ██╗    ██╗ █████╗
  ████╗  ██║██╔═══██╗██║    ██║██╔══██╗
  ██╔██╗ ██║██║   ██║██║ █╗ ██║███████║
  ██║╚██╗██║██║   ██║██║███╗██║██╔══██║
  ██║ ╚████║╚██████╔╝╚███╔███╔╝██║  ██║
  ╚═╝  ╚═══╝ ╚═════╝  ╚══╝╚══╝ ╚═╝  ╚═╝
` + "\033[97m" + `
  NOWA Systems offline cache + chat triage
` + "\033[0m")

	// Step 1: Channeled logging
	log.Println("Initializing logging...")
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	perfTracker := performance.NewTracker()
	logger.Startup().Info("Channeled logging initialized")

	// Step 2: Admin credentials
	if err := ensureAdminCredentials(logger); err != nil {
		return fmt.Errorf("failed to prepare admin credentials: %w", err)
	}

	// Step 3: Outbound email
	logger.Startup().Info("Initializing email service...")
	emailService, err := email.NewService()
	if err != nil {
		logger.Startup().Warn("Email service disabled", "reason", err.Error())
		emailService = email.NewDisabledService()
	}

	// Step 4: Pending-action queue storage
	logger.Startup().Info("Opening pending-action queue...")
	queue, err := offline.NewQueue(offline.Config{
		SQLitePath:       config.OfflineQueueDBPath,
		TursoDatabaseURL: config.TursoDatabaseURL,
		TursoAuthToken:   config.TursoAuthToken,
		TursoEnabled:     config.TursoEnabled,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to open pending-action queue: %w", err)
	}

	// Step 5: Cache controller
	logger.Startup().Info("Initializing cache controller...", "origin", config.OriginURL, "version", config.CacheVersion)
	controller, err := manager.NewController(manager.Config{
		OriginURL:          config.OriginURL,
		Version:            config.CacheVersion,
		StaticPartition:    config.StaticPartition,
		DynamicPartition:   config.DynamicPartition,
		ShellAssets:        config.ShellAssets,
		NavigationFallback: config.NavigationFallback,
	}, &http.Client{Timeout: config.FetchTimeout}, queue, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cache controller: %w", err)
	}

	// Step 6: Install and activate the configured cache version. A failed
	// install leaves the controller in pass-through mode; the server still
	// proxies requests, it just has no offline shell.
	installStart := time.Now()
	if err := controller.Install(ctx, config.CacheVersion, config.ShellAssets); err != nil {
		logger.LogStartupPhase("cache-install", time.Since(installStart), false)
		logger.Startup().Warn("Shell pre-cache failed, serving pass-through", "error", err.Error())
	} else {
		if err := controller.Activate(); err != nil {
			logger.LogStartupPhase("cache-activate", time.Since(installStart), false)
			logger.Startup().Warn("Cache activation failed, serving pass-through", "error", err.Error())
		} else {
			logger.LogStartupPhase("cache-install", time.Since(installStart), true)
		}
	}

	// Step 7: App icon set (best-effort)
	if _, err := os.Stat(config.IconSourcePath); err == nil {
		iconStart := time.Now()
		processor := media.NewIconProcessor(config.IconSourcePath, config.IconOutputDir, logger)
		if written, err := processor.GenerateIconSet(); err != nil {
			logger.Startup().Warn("Icon generation failed", "error", err.Error())
		} else {
			logger.Startup().Info("Icon set generated", "files", len(written), "duration", time.Since(iconStart))
		}
	}

	// Step 8: Dependency injection container
	logger.Startup().Info("Initializing dependency injection container...")
	appContainer := container.NewContainer(controller, queue, emailService, logger, perfTracker)

	// Step 9: Background maintenance worker
	logger.Startup().Info("Starting background cleanup worker...")
	cleanupWorker := cleanup.NewWorker(controller, cleanup.Config{
		CleanupInterval: config.CleanupInterval,
		SyncInterval:    config.SyncInterval,
		DynamicName:     config.DynamicPartition,
		DynamicEntryTTL: config.DynamicEntryTTL,
	}, logger)
	go cleanupWorker.Start(ctx)

	// Step 10: HTTP server
	port := config.Port
	httpServer := server.New(port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"cacheState", string(controller.State()),
		"cacheVersion", controller.Version(),
		"port", port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	// Cancel background tasks
	cancelBackgroundTasks()

	// Stop server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Closing pending-action queue...")
	if err := queue.Close(); err != nil {
		logger.Shutdown().Error("Error closing pending-action queue", "error", err.Error())
	}

	elapsed := time.Since(start)
	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", elapsed,
		"shutdownDuration", time.Since(shutdownStart))

	return logger.Close()
}

// ensureAdminCredentials hardens the admin auth configuration before any
// handler can use it. A missing JWT secret is back-filled with a generated
// key so tokens signed with an empty HMAC key never validate; admin sessions
// then do not survive a restart. A plaintext ADMIN_PASSWORD is hashed at
// boot so the stored value is always a bcrypt hash.
func ensureAdminCredentials(logger *logging.ChanneledLogger) error {
	if config.JWTSecret == "" {
		secret, err := security.GenerateSecureKey(64)
		if err != nil {
			return fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		config.JWTSecret = secret
		logger.Auth().Warn("JWT_SECRET not set, generated an ephemeral secret; admin sessions will not survive a restart")
	}

	if config.AdminPassword != "" && !strings.HasPrefix(config.AdminPassword, "$2") {
		hash, err := security.HashPassword(config.AdminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		config.AdminPassword = hash
		logger.Auth().Warn("ADMIN_PASSWORD was plaintext, hashed at boot")
	}

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
