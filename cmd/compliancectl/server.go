package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/audit"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/auth"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/config"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/db"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/scheduler"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/server/endpoints"
)

const shutdownTimeout = 30 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if p, err := strconv.Atoi(defaultPort()); err == nil {
		return p
	}
	return 8000
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the compliance API server",
	Long: `Run the compliance API server.

The server requires DATABASE_URL, AIACT_DATA_KEY and AIACT_JWT_SECRET.
Database migrations run on startup unless --no-migrate is given. The
config file is watched and reloaded while the server runs.`,
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")

		exitOnError("Server failed", runServer(host, port, noMigrate))
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

func runServer(host, port string, noMigrate bool) error {
	// fail fast on missing secrets
	cipher, err := loadCipher(true)
	if err != nil {
		return err
	}
	if db.URL() == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	secret := os.Getenv("AIACT_JWT_SECRET")
	if secret == "" {
		return fmt.Errorf("AIACT_JWT_SECRET environment variable is required")
	}

	lggr, err := logger.New()
	if err != nil {
		return err
	}
	defer func() { _ = lggr.Sync() }()
	audit.SetLogger(lggr)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	config.Set(cfg)

	if !noMigrate {
		lggr.Info("Running database migrations")
		if err := runMigrations(); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	database, err := db.Connect(db.Config{
		Cipher:          cipher,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxOpenConns / 2,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return err
	}
	defer closeDB(database)

	issuer, err := auth.NewIssuer([]byte(secret), cfg.TokenTTL())
	if err != nil {
		return err
	}

	s, err := server.NewServer(server.Options{
		DB:             database,
		Config:         cfg,
		Logger:         lggr,
		Cipher:         cipher,
		Issuer:         issuer,
		SearchEngineID: os.Getenv("GOOGLE_SEARCH_ENGINE_ID"),
		Host:           host,
		Port:           port,
	})
	if err != nil {
		return err
	}
	endpoints.RegisterAll(s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.LoadProviderKeys(ctx); err != nil {
		lggr.Warnw("Failed to load stored provider keys, continuing with environment keys", "err", err)
	}

	jobs := scheduler.New(lggr, s.KeyManager, s.Clients, s.ApprovalsStore)
	if err := jobs.Start(cfg); err != nil {
		return err
	}

	err = config.Watch(ctx, lggr.Named("config"), func(c *config.Config) {
		s.ApplyConfig(c)
		if err := jobs.Reschedule(c); err != nil {
			lggr.Errorw("Failed to reschedule jobs", "err", err)
		}
	})
	if err != nil {
		lggr.Warnw("Config file changes will not be picked up", "err", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()
	lggr.Infow("Server listening", "addr", s.Addr())

	select {
	case err := <-errCh:
		jobs.Stop(context.Background())
		return err
	case <-ctx.Done():
	}

	lggr.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	jobs.Stop(shutdownCtx)
	return s.Shutdown(shutdownCtx)
}
