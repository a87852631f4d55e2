package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/cache"
	"github.com/mamadbah2/birdo/internal/config"
	"github.com/mamadbah2/birdo/internal/repository/mongodb"
	"github.com/mamadbah2/birdo/internal/repository/sheets"
	"github.com/mamadbah2/birdo/internal/scheduler"
	"github.com/mamadbah2/birdo/internal/server/handlers"
	"github.com/mamadbah2/birdo/internal/server/middleware"
	"github.com/mamadbah2/birdo/internal/server/router"
	birdsvc "github.com/mamadbah2/birdo/internal/service/birds"
	dashboardsvc "github.com/mamadbah2/birdo/internal/service/dashboard"
	financesvc "github.com/mamadbah2/birdo/internal/service/finance"
	pairsvc "github.com/mamadbah2/birdo/internal/service/pairs"
	pedigreesvc "github.com/mamadbah2/birdo/internal/service/pedigree"
	profilesvc "github.com/mamadbah2/birdo/internal/service/profile"
	reportingsvc "github.com/mamadbah2/birdo/internal/service/reporting"
	uploadsvc "github.com/mamadbah2/birdo/internal/service/uploads"
	"github.com/mamadbah2/birdo/pkg/clients/storage"
	"github.com/mamadbah2/birdo/pkg/clients/whatsapp"
	"github.com/mamadbah2/birdo/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	gin.SetMode(gin.ReleaseMode)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	mongoRepo, err := mongodb.NewRepository(startCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()
	if err := mongoRepo.EnsureIndexes(startCtx); err != nil {
		baseLogger.Fatal("failed to create mongodb indexes", zap.Error(err))
	}

	var docCache cache.Cache = cache.NewNullCache()
	if cfg.Redis.Enabled() {
		redisCache, err := cache.NewRedisCache(startCtx, cfg.Redis.URL, "birdo")
		if err != nil {
			baseLogger.Fatal("failed to init redis cache", zap.Error(err))
		}
		docCache = redisCache
		baseLogger.Info("document cache enabled", zap.Duration("ttl", cfg.Redis.TTL))
	}
	defer func() { _ = docCache.Close() }()

	var ledger financesvc.Sheet
	if cfg.Sheets.Enabled() {
		sheetLedger, err := sheets.NewLedger(startCtx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		ledger = sheetLedger
	} else {
		baseLogger.Warn("google sheets not configured, ledger export disabled")
	}

	var notifier reportingsvc.Notifier
	if cfg.WhatsApp.Enabled() {
		notifier = whatsapp.NewClient(cfg.WhatsApp)
	} else {
		baseLogger.Warn("whatsapp not configured, weekly digests are stored only")
	}

	var bucket uploadsvc.Bucket
	if cfg.Storage.Enabled() {
		bucket = storage.NewClient(cfg.Storage)
	} else {
		baseLogger.Warn("object storage not configured, photo upload disabled")
	}

	birdSvc := birdsvc.NewService(mongoRepo, baseLogger.Named("svc.birds"))
	pairSvc := pairsvc.NewService(mongoRepo, baseLogger.Named("svc.pairs"))
	financeSvc := financesvc.NewService(mongoRepo, ledger, cfg.Sheets.Range, baseLogger.Named("svc.finance"))
	profileSvc := profilesvc.NewService(mongoRepo, baseLogger.Named("svc.profile"))
	dashboardSvc := dashboardsvc.NewService(mongoRepo, baseLogger.Named("svc.dashboard"))
	pedigreeSvc := pedigreesvc.NewService(mongoRepo, docCache, cfg.Redis.TTL, baseLogger.Named("svc.pedigree"))
	uploadSvc := uploadsvc.NewService(bucket, baseLogger.Named("svc.uploads"))
	reportingSvc := reportingsvc.NewService(mongoRepo, notifier, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Options{
		Server: cfg.Server,
		Auth:   middleware.Auth(cfg.Auth, baseLogger.Named("middleware.auth")),
		Health: mongoRepo,
		Logger: baseLogger.Named("router"),
	},
		handlers.NewBirdHandler(birdSvc, baseLogger.Named("handlers.birds")),
		handlers.NewPairHandler(pairSvc, baseLogger.Named("handlers.pairs")),
		handlers.NewFinanceHandler(financeSvc, baseLogger.Named("handlers.finance")),
		handlers.NewAccountHandler(profileSvc, dashboardSvc, baseLogger.Named("handlers.account")),
		handlers.NewPedigreeHandler(pedigreeSvc, baseLogger.Named("handlers.pedigree")),
		handlers.NewUploadHandler(uploadSvc, baseLogger.Named("handlers.uploads")),
	)

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
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
