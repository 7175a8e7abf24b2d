package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"adaptcoach/internal/api"
	"adaptcoach/internal/bot"
	"adaptcoach/internal/chart"
	"adaptcoach/internal/config"
	"adaptcoach/internal/excel"
	"adaptcoach/internal/gsheets"
	"adaptcoach/internal/i18n"
	"adaptcoach/internal/logging"
	"adaptcoach/internal/repository"
	"adaptcoach/internal/rules"
	"adaptcoach/internal/scheduler"
	"adaptcoach/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lang := i18n.ParseLanguage(cfg.DefaultLang)

	tables, err := rules.Load(cfg.RulesPath)
	if err != nil {
		return err
	}
	store := rules.NewStore(tables)
	if cfg.RulesPath != "" && cfg.RulesWatch {
		watcher, err := rules.NewWatcher(store, cfg.RulesPath, logger.Named("rules"))
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Close()
		logger.Info("watching rule tables", zap.String("path", cfg.RulesPath))
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := repository.Migrate(ctx, db); err != nil {
		return err
	}

	repo := repository.New(db)
	prescriptions := service.NewPrescriptionService(store, repo.Athlete, repo.Baseline, repo.Prescription, logger.Named("prescription"))
	nutrition := service.NewNutritionService(store, repo.Athlete, repo.Nutrition)
	athletes := service.NewAthleteService(repo.Athlete, repo.Baseline, logger.Named("athlete"))

	var publisher scheduler.Publisher
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheets.NewClient(ctx, cfg.GoogleCredentialsPath)
		if err != nil {
			logger.Warn("google sheets publishing disabled", zap.Error(err))
		} else {
			publisher = gsheets.NewPublisher(client, cfg.GoogleSpreadsheetID, lang)
			logger.Info("publishing to google sheets", zap.String("url", gsheets.GetSpreadsheetURL(cfg.GoogleSpreadsheetID)))
		}
	}

	if cfg.RecomputeSchedule != "" {
		sched, err := scheduler.New(cfg.RecomputeSchedule, repo.Athlete, prescriptions, publisher, logger.Named("scheduler"))
		if err != nil {
			return err
		}
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	if cfg.BotToken != "" {
		botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		logger.Info("telegram bot authorized", zap.String("username", botAPI.Self.UserName))

		telegramBot := bot.New(botAPI, bot.Deps{
			Athletes:      repo.Athlete,
			Prescriptions: prescriptions,
			Nutrition:     nutrition,
			Workbook:      excel.WritePrescriptions,
			Chart:         chart.FactorBreakdown,
		}, lang, logger.Named("bot"))
		go func() {
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("telegram bot stopped", zap.Error(err))
			}
		}()
	}

	server := api.NewServer(prescriptions, nutrition, athletes, excel.WritePrescriptions, lang, logger.Named("api")).
		NewHTTPServer(cfg.HTTPAddr)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
