package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/cacao/internal/config"
	"github.com/mamadbah2/cacao/internal/domain/models"
	"github.com/mamadbah2/cacao/internal/repository/mongodb"
	"github.com/mamadbah2/cacao/internal/repository/sheets"
	"github.com/mamadbah2/cacao/internal/repository/workbook"
	"github.com/mamadbah2/cacao/internal/scheduler"
	"github.com/mamadbah2/cacao/internal/server/handlers"
	"github.com/mamadbah2/cacao/internal/server/router"
	"github.com/mamadbah2/cacao/internal/server/web"
	"github.com/mamadbah2/cacao/internal/service/auth"
	reportingsvc "github.com/mamadbah2/cacao/internal/service/reporting"
	"github.com/mamadbah2/cacao/internal/service/shipments"
	whatsappclient "github.com/mamadbah2/cacao/pkg/clients/whatsapp"
	"github.com/mamadbah2/cacao/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	source, err := newSource(cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init shipment source", zap.Error(err))
	}

	var archiver shipments.Archiver
	if cfg.MongoDB.URI != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archiver = mongoRepo
		baseLogger.Info("season snapshot archive enabled", zap.String("db", cfg.MongoDB.DBName))
	} else {
		baseLogger.Warn("mongodb uri missing, season snapshot archive disabled")
	}

	loader := shipments.NewLoader(source, []shipments.SheetPort{
		{Sheet: cfg.Data.SheetPortA, Port: models.Port(cfg.Data.PortAName)},
		{Sheet: cfg.Data.SheetPortB, Port: models.Port(cfg.Data.PortBName)},
	}, baseLogger.Named("svc.loader"))
	shipmentSvc := shipments.NewService(loader, archiver, cfg.Data.CacheTTL, baseLogger.Named("svc.shipments"))
	reportingSvc := reportingsvc.NewService(shipmentSvc, baseLogger.Named("svc.reporting"))

	if cfg.Auth.SessionSecret == "" {
		baseLogger.Warn("session secret missing, sessions will not survive a restart")
	}
	gate, err := auth.NewGate(cfg.Auth.Password, cfg.Auth.SessionSecret)
	if err != nil {
		baseLogger.Fatal("failed to init access gate", zap.Error(err))
	}

	templates, err := web.Templates()
	if err != nil {
		baseLogger.Fatal("failed to parse templates", zap.Error(err))
	}

	authHandler := handlers.NewAuthHandler(gate, baseLogger.Named("handlers.auth"))
	dashboardHandler := handlers.NewDashboardHandler(shipmentSvc, baseLogger.Named("handlers.dashboard"))
	engine := router.New(authHandler, dashboardHandler, templates, baseLogger.Named("router"))

	var sender scheduler.Sender
	if cfg.WhatsApp.Enabled() {
		sender = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp season digest enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, season digest disabled")
	}

	sched, err := scheduler.NewScheduler(*cfg, shipmentSvc, reportingSvc, sender, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Register(); err != nil {
		baseLogger.Fatal("failed to register scheduled jobs", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("source", source.Name()))
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

func newSource(cfg *config.Config, base *zap.Logger) (shipments.Source, error) {
	if cfg.Data.Source == config.SourceGoogleSheets {
		return sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, base.Named("repo.sheets"))
	}
	return workbook.NewRepository(cfg.Data.WorkbookPath, base.Named("repo.workbook")), nil
}
