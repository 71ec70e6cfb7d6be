package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vytor/learnearn/internal/api"
	"github.com/vytor/learnearn/internal/catalog"
	"github.com/vytor/learnearn/internal/logger"
	"github.com/vytor/learnearn/internal/notify"
	"github.com/vytor/learnearn/internal/repository"
	"github.com/vytor/learnearn/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the app on ADDR",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	log.Info("===========================================")
	log.Info("Learn&Earn Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("store_driver=%s", cfg.StoreDriver)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("splash_delay=%s feedback_delay=%s login_delay=%s", cfg.SplashDelay, cfg.FeedbackDelay, cfg.LoginDelay)

	lessons, err := catalog.Default()
	if err != nil {
		log.Error("failed to load lesson catalog: %v", err)
		return err
	}

	store, err := openStore(cfg, log)
	if err != nil {
		log.Error("failed to open store: %v", err)
		return err
	}
	defer func() {
		log.Debug("closing store")
		if err := store.Close(); err != nil {
			log.Warn("store close error: %v", err)
		}
	}()

	log.Debug("loading templates")
	tmpl, err := api.LoadTemplates()
	if err != nil {
		log.Error("failed to load templates: %v", err)
		return err
	}

	accounts := repository.NewAccountRepository(store, cfg.StorageKey)
	notices := notify.NewQueue()
	session := services.NewSessionService(lessons, accounts, services.SessionOptions{
		SplashDelay:   cfg.SplashDelay,
		FeedbackDelay: cfg.FeedbackDelay,
		LoginDelay:    cfg.LoginDelay,
		Notifier:      notices,
		Haptics:       notices,
		Logger:        log,
	})
	defer session.Close()
	session.Start(logger.NewContext(cmd.Context(), log))

	srv := &api.Server{
		Session:       session,
		Accounts:      services.NewAccountService(accounts),
		Catalog:       lessons,
		Notices:       notices,
		Store:         store,
		Templates:     tmpl,
		SplashDelay:   cfg.SplashDelay,
		FeedbackDelay: cfg.FeedbackDelay,
		LoginDelay:    cfg.LoginDelay,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info("received signal %v, initiating graceful shutdown", sig)
	case err := <-serveErr:
		if err != nil {
			log.Error("HTTP server error: %v", err)
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("Learn&Earn Server Stopped")
	log.Info("===========================================")
	return nil
}
