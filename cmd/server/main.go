package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/tropicaldog17/lessondesk/docs"
	"github.com/tropicaldog17/lessondesk/internal/config"
	"github.com/tropicaldog17/lessondesk/internal/db"
	"github.com/tropicaldog17/lessondesk/internal/flags"
	"github.com/tropicaldog17/lessondesk/internal/handlers"
	"github.com/tropicaldog17/lessondesk/internal/logger"
	"github.com/tropicaldog17/lessondesk/internal/repositories"
	"github.com/tropicaldog17/lessondesk/internal/services"
)

// @title			Lessondesk API
// @version		1.0
// @description	Booking lifecycle and human/automation handoff governance.
// @host			localhost:8080
// @BasePath		/api
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	database, err := db.Open(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Health(); err != nil {
		log.Fatal("database health check failed", zap.Error(err))
	}
	if err := database.AutoMigrate(); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}
	log.Info("database connection established", zap.String("driver", cfg.Database.Driver))

	var killSwitch flags.Store = flags.NewStatic(cfg.DisabledChannels)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatal("failed to reach redis", zap.Error(err))
		}
		killSwitch = flags.NewRedisStore(client, killSwitch)
		log.Info("kill-switch backed by redis", zap.String("addr", cfg.RedisAddr))
	}

	// Repositories
	bookingRepo := repositories.NewBookingRepository(database)
	conversationRepo := repositories.NewConversationRepository(database)
	messageRepo := repositories.NewMessageRepository(database)
	auditRepo := repositories.NewAuditLogRepository(database)
	draftRepo := repositories.NewDraftRepository(database)
	quotaRepo := repositories.NewQuotaRepository(database)
	confirmationRepo := repositories.NewConfirmationRepository(database)

	// Services
	bookingService := services.NewBookingService(bookingRepo, auditRepo, log)
	automationService := services.NewAutomationService(conversationRepo, log)
	snapshotService := services.NewSnapshotService(automationService, conversationRepo, messageRepo, bookingService, killSwitch, cfg.AllowedChannels, auditRepo, log, nil)

	svc := handlers.Services{
		Bookings:      bookingService,
		Confirmations: services.NewConfirmationService(confirmationRepo, auditRepo, log, nil),
		Messages:      services.NewMessageService(conversationRepo, messageRepo, log, nil),
		Automation:    automationService,
		Eligibility:   services.NewEligibilityService(conversationRepo, messageRepo, bookingService, killSwitch, cfg.AllowedChannels, log),
		Escalation:    services.NewEscalationService(conversationRepo, messageRepo, bookingService, log),
		Snapshots:     snapshotService,
		Drafts:        services.NewDraftService(draftRepo, messageRepo, automationService, bookingService, snapshotService, auditRepo, log, nil),
		Quotas:        services.NewQuotaService(quotaRepo, auditRepo, log),
		KillSwitch:    services.NewKillSwitchService(killSwitch, auditRepo, log),
		Audit:         services.NewAuditService(auditRepo),
	}

	if cfg.DraftSigningSecret == "" {
		log.Warn("DRAFT_SIGNING_SECRET is empty, draft proposals will be rejected")
	}

	router := handlers.NewRouter(svc, handlers.RouterConfig{
		DraftSigningSecret: cfg.DraftSigningSecret,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Health:             database.Health,
	}, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
