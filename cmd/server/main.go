// Copyright 2026 The ContactDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contactdesk/contactdesk/internal/audit"
	"github.com/contactdesk/contactdesk/internal/config"
	"github.com/contactdesk/contactdesk/internal/contact"
	"github.com/contactdesk/contactdesk/internal/directory"
	"github.com/contactdesk/contactdesk/internal/observability/logger"
	"github.com/contactdesk/contactdesk/internal/observability/metrics"
	"github.com/contactdesk/contactdesk/internal/observability/tracing"
	"github.com/contactdesk/contactdesk/internal/store/postgres"
	"github.com/contactdesk/contactdesk/internal/ticket"
	"github.com/contactdesk/contactdesk/internal/token"
	transportHTTP "github.com/contactdesk/contactdesk/internal/transport/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
	slog.Info("starting contactdesk service")

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(cfg); err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx := context.Background()

	// Initialize tracer
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer tracer.Shutdown(ctx)

	// Initialize meter
	meter, err := metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
	}

	dbConfig := postgresConfig(cfg)

	// Master database holds the user and client directory.
	db, err := postgres.New(ctx, dbConfig)
	if err != nil {
		slog.Error("failed to connect to master database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to master database")

	// Tenant databases are opened lazily as credentials resolve them.
	tenantPools := postgres.NewTenantPools(dbConfig)
	defer tenantPools.Close()

	// Initialize repositories
	directoryRepo := postgres.NewDirectoryRepository(db)
	contactRepo := postgres.NewContactRepository(tenantPools)
	ticketRepo := postgres.NewTicketRepository(tenantPools)
	inspectRepo := postgres.NewInspectRepository(tenantPools)

	// Initialize helpers
	auditLogger := audit.NewSlogLogger()
	passwordHasher := directory.NewPasswordHasher(
		cfg.Security.Argon2Memory,
		cfg.Security.Argon2Iterations,
		cfg.Security.Argon2Parallelism,
		cfg.Security.Argon2SaltLength,
		cfg.Security.Argon2KeyLength,
	)

	// Initialize services
	directoryService := directory.NewService(directoryRepo, passwordHasher, cfg.Auth.LegacyTenantFallback)
	contactService := contact.NewService(contactRepo)
	ticketService := ticket.NewService(ticketRepo)

	tokenService, err := token.NewService(cfg.Auth.SecretKey, cfg.Auth.Algorithm, cfg.TokenLifetime())
	if err != nil {
		slog.Error("failed to initialize token service", logger.Error(err))
		os.Exit(1)
	}

	// Rate Limiter
	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// Initialize HTTP handler
	handler := transportHTTP.NewHandler(
		directoryService,
		contactService,
		ticketService,
		tokenService,
		inspectRepo,
		auditLogger,
		meter,
		cfg.Debug.Enabled,
	)

	router := transportHTTP.NewRouter(handler, rateLimiter, cfg.CORS.AllowedOrigins)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}

	slog.Info("server stopped")
}

func postgresConfig(cfg *config.Config) postgres.Config {
	return postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	}
}

// runMigrate applies the master schema, then the tenant schema to every
// tenant database registered in the directory.
func runMigrate(cfg *config.Config) error {
	ctx := context.Background()
	dbConfig := postgresConfig(cfg)

	db, err := postgres.New(ctx, dbConfig)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Applying master schema...")
	if err := db.Migrate(ctx, postgres.MasterSchema); err != nil {
		return err
	}

	pools := postgres.NewTenantPools(dbConfig)
	defer pools.Close()

	directoryRepo := postgres.NewDirectoryRepository(db)
	clients, err := directoryRepo.GetAllValidClients(ctx)
	if err != nil {
		return err
	}

	for _, client := range clients {
		fmt.Printf("Applying tenant schema to %s...\n", client.DBName)
		pool, err := pools.Get(ctx, client.DBName)
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, postgres.TenantSchema); err != nil {
			return fmt.Errorf("failed to migrate tenant %s: %w", client.DBName, err)
		}
	}

	fmt.Println("Migration successful.")
	return nil
}
