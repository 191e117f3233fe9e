package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/LoohanZinho/enem2-sub003/internal/api/router"
	"github.com/LoohanZinho/enem2-sub003/internal/config"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/logger"
	"github.com/LoohanZinho/enem2-sub003/internal/repository/postgres"
	"github.com/LoohanZinho/enem2-sub003/internal/services"
	"github.com/LoohanZinho/enem2-sub003/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database: " + err.Error())
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations: " + err.Error())
	}

	accountRepo := postgres.NewAccountRepository(db)
	keyRepo := postgres.NewAccessKeyRepository(db)

	accounts := services.NewAccountService(accountRepo, cfg.Auth.BCryptCost, log)
	entitlements := services.NewEntitlementService(keyRepo, cfg.Billing.RenewalWindow, log)

	renewer := worker.NewRenewer(entitlements, cfg.Billing.RenewalSpec, log)
	if err := renewer.Start(); err != nil {
		log.Fatal("Failed to start renewal worker: " + err.Error())
	}
	defer renewer.Stop()

	handler := router.New(router.Deps{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		Accounts:     accounts,
		Entitlements: entitlements,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed: " + err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.ErrorWithErr(err, "Forced shutdown")
	}

	log.Info("Server stopped")
}
