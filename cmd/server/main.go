package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tokopos/internal/cache"
	"tokopos/internal/cart"
	"tokopos/internal/config"
	"tokopos/internal/httpapi"
	"tokopos/internal/jobs"
	"tokopos/internal/logger"
	"tokopos/internal/printq"
	"tokopos/internal/service"
	"tokopos/internal/store"
	"tokopos/internal/store/memory"
	pgstore "tokopos/internal/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := validateSecurityConfig(*cfg); err != nil {
		return fmt.Errorf("invalid security configuration: %w", err)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)
	defer func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				log.Warn("close error", zap.Error(err))
			}
		}
	}()

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(startCtx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("postgres unavailable and DATABASE_URL is set, refusing to start with in-memory fallback: %w", err)
		}
		closers = append(closers, pg.Close)
		if cfg.RunMigrations {
			if err := pg.Migrate(log); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
		}
		repo = pg
		log.Info("repository: postgres")
	} else {
		repo = memory.NewSeeded()
		log.Info("repository: in-memory")
		if memory.DefaultCredentials() {
			log.Warn("seed users use default dev credentials, set SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD to override")
		}
	}

	var cartStore cache.CartStore = cache.NewMemoryCartStore()
	if cfg.RedisAddr != "" {
		redisCarts := cache.NewRedisCartStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCarts.Ping(startCtx); err != nil {
			log.Warn("redis unavailable, keeping carts in memory", zap.Error(err))
			_ = redisCarts.Close()
		} else {
			cartStore = redisCarts
			closers = append(closers, redisCarts.Close)
			log.Info("cart sessions: redis")
		}
	} else {
		log.Info("cart sessions: in-memory")
	}

	svc := service.New(repo, log, service.Options{Timeout: cfg.RequestTimeout})
	svc.SetPrinter(printq.NewQueue(repo), cfg.AutoPrint)

	var drainer jobs.Drainer
	if cfg.PrintBridgeURL != "" {
		drainer = printq.NewWorker(repo, svc, printq.NewBridge(cfg.PrintBridgeURL, cfg.PrintTimeout), log)
		log.Info("print bridge configured", zap.String("url", cfg.PrintBridgeURL), zap.Bool("auto_print", cfg.AutoPrint))
	}

	carts := cart.NewSessions(cartStore, svc, svc, cart.Options{
		TTL:                    cfg.CartSessionTTL,
		OverrideUpdatesCatalog: cfg.OverrideUpdatesCatalog,
	}, log)
	auth := httpapi.NewAuthManager(cfg.AuthSecret, cfg.AccessTokenTTL, cfg.ManagerPIN, repo, log)
	api := httpapi.New(svc, carts, auth, httpapi.Options{
		AllowedOrigin:  cfg.AllowedOrigin,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         log,
	})

	scheduler := jobs.NewScheduler(jobs.Specs{
		LowStock:     cfg.LowStockScanSpec,
		PrintQueue:   cfg.PrintQueueSpec,
		DailySummary: cfg.DailySummarySpec,
	}, svc, svc, drainer, time.Minute, log)
	if err := scheduler.Start(); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("tokopos listening", zap.String("addr", cfg.Address()), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)

	log.Info("server stopped")
	return nil
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	if len(cfg.ManagerPIN) < 6 {
		return fmt.Errorf("MANAGER_PIN must be set and at least 6 digits")
	}
	if err := validatePINStrength(cfg.ManagerPIN); err != nil {
		return fmt.Errorf("MANAGER_PIN is too weak: %w", err)
	}
	return nil
}

// validatePINStrength rejects PINs that are all the same digit,
// sequential (ascending or descending), or from a known-weak list.
func validatePINStrength(pin string) error {
	known := map[string]bool{
		"123456": true, "654321": true, "000000": true, "111111": true,
		"222222": true, "333333": true, "444444": true, "555555": true,
		"666666": true, "777777": true, "888888": true, "999999": true,
		"121212": true, "112233": true, "123123": true,
	}
	if known[pin] {
		return fmt.Errorf("common PIN not allowed")
	}

	// Reject all-same-digit PINs.
	allSame := true
	for i := 1; i < len(pin); i++ {
		if pin[i] != pin[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return fmt.Errorf("all-same-digit PIN not allowed")
	}

	// Reject ascending or descending sequential PINs (e.g. 123456, 987654).
	ascending, descending := true, true
	for i := 1; i < len(pin); i++ {
		diff := int(pin[i]) - int(pin[i-1])
		if diff != 1 {
			ascending = false
		}
		if diff != -1 {
			descending = false
		}
	}
	if ascending || descending {
		return fmt.Errorf("sequential PIN not allowed")
	}

	return nil
}
