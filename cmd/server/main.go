package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/dcastano/miscelanea/internal/config"
	"github.com/dcastano/miscelanea/internal/repository/mongodb"
	"github.com/dcastano/miscelanea/internal/repository/sheets"
	"github.com/dcastano/miscelanea/internal/scheduler"
	"github.com/dcastano/miscelanea/internal/server/handlers"
	"github.com/dcastano/miscelanea/internal/server/router"
	authsvc "github.com/dcastano/miscelanea/internal/service/auth"
	customersvc "github.com/dcastano/miscelanea/internal/service/customers"
	inventorysvc "github.com/dcastano/miscelanea/internal/service/inventory"
	reportingsvc "github.com/dcastano/miscelanea/internal/service/reporting"
	salesvc "github.com/dcastano/miscelanea/internal/service/sales"
	telegramsvc "github.com/dcastano/miscelanea/internal/service/telegram"
	telegramclient "github.com/dcastano/miscelanea/pkg/clients/telegram"
	"github.com/dcastano/miscelanea/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.New(context.Background(), cfg.MongoDB)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var exporter sheets.Exporter
	if cfg.SheetsEnabled() {
		sheetsExporter, err := sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		exporter = sheetsExporter
		baseLogger.Info("daily summary export to google sheets enabled")
	}

	reportingSvc := reportingsvc.NewService(mongoRepo, exporter, cfg.Stock.LowStockThreshold, baseLogger.Named("svc.reporting"))
	inventorySvc := inventorysvc.NewService(mongoRepo, baseLogger.Named("svc.inventory"))
	customerSvc := customersvc.NewService(mongoRepo, baseLogger.Named("svc.customers"))
	authSvc := authsvc.NewService(mongoRepo, cfg.Auth, baseLogger.Named("svc.auth"))

	if err := authSvc.EnsureBootstrapAdmin(context.Background()); err != nil {
		baseLogger.Fatal("failed to bootstrap administrator", zap.Error(err))
	}

	var botSvc *telegramsvc.Service
	if cfg.TelegramEnabled() {
		tgClient := telegramclient.NewClient(cfg.Telegram)
		botSvc = telegramsvc.NewService(cfg.Telegram, tgClient, inventorySvc, reportingSvc, baseLogger.Named("svc.telegram"))
		baseLogger.Info("telegram bot enabled")
	} else {
		baseLogger.Warn("telegram token missing, bot and stock alerts disabled")
	}

	var saleNotifier salesvc.Notifier
	var reportNotifier scheduler.Notifier
	if botSvc != nil {
		saleNotifier = botSvc
		reportNotifier = botSvc
	}

	saleSvc := salesvc.NewService(mongoRepo, mongoRepo, saleNotifier, cfg.Stock.LowStockThreshold, baseLogger.Named("svc.sales"))

	h := router.Handlers{
		Auth:     handlers.NewAuthHandler(authSvc, baseLogger.Named("handlers.auth")),
		Products: handlers.NewProductHandler(inventorySvc, baseLogger.Named("handlers.products")),
		Customer: handlers.NewCustomerHandler(customerSvc, baseLogger.Named("handlers.customers")),
		Sales:    handlers.NewSaleHandler(saleSvc, baseLogger.Named("handlers.sales")),
	}
	if botSvc != nil {
		h.Telegram = handlers.NewTelegramHandler(botSvc, baseLogger.Named("handlers.telegram"))
	}

	engine := router.New(cfg.Server, h, authSvc, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, reportNotifier, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
