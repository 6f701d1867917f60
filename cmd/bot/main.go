package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"buildflow/internal/ai"
	"buildflow/internal/bot"
	"buildflow/internal/config"
	"buildflow/internal/database"
	"buildflow/internal/logger"
	"buildflow/internal/services"
	"buildflow/internal/web"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	manager, err := database.NewManager(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	if err := manager.Migrate(); err != nil {
		log.Fatalw("failed to migrate database", "error", err)
	}
	db := manager.DB()

	deps := bot.Deps{
		Users:        services.NewUserService(db),
		Projects:     services.NewProjectService(db),
		Transactions: services.NewTransactionService(db),
		Photos:       services.NewPhotoService(db),
		ChangeOrders: services.NewChangeOrderService(db),
		Tasks:        services.NewTaskService(db),
		Reports:      services.NewReportService(db),
		Audit:        services.NewAuditService(db),
		AI:           ai.NewClient(cfg.OpenAIKey),
	}
	if deps.AI == nil {
		log.Infow("voice input disabled", "reason", "OPENAI_API_KEY not set")
	}

	b, err := bot.New(cfg.BotToken, deps)
	if err != nil {
		log.Fatalw("failed to authorize bot", "error", err)
	}
	log.Infow("bot authorized", "username", b.Username())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.StatusPort != "" {
		srv := &http.Server{
			Addr:              ":" + cfg.StatusPort,
			Handler:           web.NewRouter(db, cfg.Environment),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Infow("status endpoint listening", "port", cfg.StatusPort)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorw("status endpoint failed", "error", err)
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	b.Run(ctx)
	log.Info("shutdown complete")
}
