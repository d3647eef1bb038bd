package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Skotchmaster/techstore/internal/config"
	"github.com/Skotchmaster/techstore/internal/db"
	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/httpserver"
	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/middleware/auth"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/search"
	"github.com/Skotchmaster/techstore/internal/service"
)

func main() {
	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	if err == nil {
		err = db.Migrate(initCtx, gdb)
	}
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	publisher := events.New(cfg.KafkaBrokers)
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("kafka disabled, events are dropped")
	}

	r := repo.New(gdb)

	catalogSvc := &service.CatalogService{Repo: r, Events: publisher}
	if cfg.ESURL != "" {
		es, err := search.NewClient(search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Warn("elasticsearch unavailable, using sql search", "error", err)
		} else {
			catalogSvc.Index = search.NewDeviceIndex(es, cfg.ESIndex)
		}
	}

	authSvc := &service.AuthService{
		Repo:          r,
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
		Events:        publisher,
	}

	e := httpserver.NewEcho(logger)
	httpserver.Register(e, &httpserver.Deps{
		Catalog: &httpserver.CatalogHTTP{Svc: catalogSvc},
		Auth:    &httpserver.AuthHTTP{Svc: authSvc},
		Basket:  &httpserver.BasketHTTP{Svc: &service.BasketService{Repo: r, Events: publisher}},
		AuthMW:  auth.New(cfg.JWTAccessSecret, authSvc),
		Ready:   r.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("starting http server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("kafka close", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close", "error", err)
	}
	logger.Info("server stopped")
}
