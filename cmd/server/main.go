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

	"github.com/mamadbah2/portaria/internal/config"
	"github.com/mamadbah2/portaria/internal/repository"
	"github.com/mamadbah2/portaria/internal/repository/memory"
	"github.com/mamadbah2/portaria/internal/repository/mongodb"
	"github.com/mamadbah2/portaria/internal/repository/sheets"
	"github.com/mamadbah2/portaria/internal/scheduler"
	"github.com/mamadbah2/portaria/internal/server/handlers"
	"github.com/mamadbah2/portaria/internal/server/router"
	authsvc "github.com/mamadbah2/portaria/internal/service/auth"
	checkinsvc "github.com/mamadbah2/portaria/internal/service/checkin"
	checkoutsvc "github.com/mamadbah2/portaria/internal/service/checkout"
	reportingsvc "github.com/mamadbah2/portaria/internal/service/reporting"
	"github.com/mamadbah2/portaria/internal/service/session"
	whatsappsvc "github.com/mamadbah2/portaria/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/portaria/pkg/clients/whatsapp"
	"github.com/mamadbah2/portaria/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Register.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, creds := openStore(ctx, cfg, loc, baseLogger)

	var sessions session.Store
	if cfg.Session.RedisAddr != "" {
		redisStore, err := session.NewRedisStore(ctx, cfg.Session.RedisAddr, cfg.Session.TTL)
		if err != nil {
			baseLogger.Fatal("failed to init redis session store", zap.Error(err))
		}
		defer func() { _ = redisStore.Close() }()
		sessions = redisStore
		baseLogger.Info("redis session store enabled", zap.String("addr", cfg.Session.RedisAddr))
	} else {
		sessions = session.NewMemoryStore(cfg.Session.TTL)
	}

	checkinSvc := checkinsvc.NewService(records, checkinsvc.Options{
		Location:    loc,
		PaymentKey:  cfg.Register.PaymentKey,
		PhoneRegion: cfg.Register.PhoneRegion,
	}, baseLogger.Named("svc.checkin"))
	authSvc := authsvc.NewService(creds, baseLogger.Named("svc.auth"))
	checkoutSvc := checkoutsvc.NewService(records, loc, baseLogger.Named("svc.checkout"))

	entryHandler := handlers.NewEntryHandler(checkinSvc, baseLogger.Named("handlers.entry"))
	exitHandler := handlers.NewExitHandler(authSvc, checkoutSvc, baseLogger.Named("handlers.exit"))
	sessionMiddleware := handlers.SessionMiddleware(sessions, cfg.Session.TTL, baseLogger.Named("handlers.session"))
	engine := router.New(entryHandler, exitHandler, sessionMiddleware, baseLogger.Named("router"))

	if cfg.Reporting.CronSchedule != "" {
		var archive scheduler.Archive
		if cfg.MongoDB.URI != "" {
			mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
			if err != nil {
				baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
			}
			defer func() {
				if err := mongoRepo.Close(context.Background()); err != nil {
					baseLogger.Error("failed to close mongodb connection", zap.Error(err))
				}
			}()
			archive = mongoRepo
		} else {
			baseLogger.Warn("mongodb uri missing, closing summaries will not be archived")
		}

		var notifier scheduler.Notifier
		if cfg.WhatsApp.Enabled() {
			whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
			notifier = whatsappsvc.NewMetaWhatsAppService(whatsClient, baseLogger.Named("svc.whatsapp"))
		} else {
			baseLogger.Warn("whatsapp settings missing, closing summaries will not be sent")
		}

		reportingSvc := reportingsvc.NewService(records, loc, baseLogger.Named("svc.reporting"))
		sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, loc, reportingSvc, archive, notifier, cfg.WhatsApp.ManagerID, baseLogger.Named("scheduler"))
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
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

// openStore connects the visitor records and the credential reader for the
// configured driver. Failing to connect is fatal.
func openStore(ctx context.Context, cfg *config.Config, loc *time.Location, base *zap.Logger) (repository.RecordStore, repository.CellReader) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		store := memory.New(loc)
		store.SetCredentials(cfg.Store.StaffUsername, cfg.Store.StaffPasswordHash)
		base.Warn("using in-memory record store, records are lost on restart")
		return store, store
	}

	sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, base.Named("repo.sheets"))
	if err != nil {
		base.Fatal("failed to init sheets repository", zap.Error(err))
	}

	records, err := sheets.NewRecordStore(ctx, sheetsRepo, cfg.Sheets.VisitorSheet, loc, base.Named("repo.records"))
	if err != nil {
		base.Fatal("failed to open visitor sheet", zap.Error(err))
	}

	creds, err := sheets.NewCredentialTable(ctx, sheetsRepo, cfg.Sheets.CredentialsSheet)
	if err != nil {
		base.Fatal("failed to open credentials sheet", zap.Error(err))
	}

	base.Info("google sheets store connected", zap.String("visitor_sheet", records.Title()))
	return records, creds
}
