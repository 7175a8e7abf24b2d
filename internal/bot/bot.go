// Package bot serves prescriptions and nutrition targets to athletes over Telegram.
package bot

import (
	"context"
	"io"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"adaptcoach/internal/adaptive"
	"adaptcoach/internal/i18n"
	"adaptcoach/internal/models"
)

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// AthleteFinder resolves the athlete linked to a Telegram account.
type AthleteFinder interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.Athlete, error)
}

// Prescriber recomputes an athlete's plan.
type Prescriber interface {
	Recompute(ctx context.Context, athleteID int, ruleIDs []int) ([]models.Prescription, error)
}

// NutritionPlanner builds an athlete's personalized nutrition plan.
type NutritionPlanner interface {
	Plan(ctx context.Context, athleteID int, intensity adaptive.Intensity) (*models.NutritionPlan, error)
}

// Deps groups what the command handlers need.
type Deps struct {
	Athletes      AthleteFinder
	Prescriptions Prescriber
	Nutrition     NutritionPlanner
	Workbook      func(w io.Writer, athleteName string, prescriptions []models.Prescription, lang i18n.Language) error
	Chart         func(result adaptive.AdaptiveResult, lang i18n.Language) ([]byte, error)
}

// Bot is the Telegram front end.
type Bot struct {
	api    API
	deps   Deps
	lang   i18n.Language
	logger *zap.Logger
}

// New creates a bot. lang is used for users whose athlete record has no language.
func New(api API, deps Deps, lang i18n.Language, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{api: api, deps: deps, lang: lang, logger: logger}
}

// Start processes updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updates := b.initUpdatesChannel()

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	b.handleUpdates(ctx, updates)
	return ctx.Err()
}

func (b *Bot) handleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) initUpdatesChannel() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	return b.api.GetUpdatesChan(u)
}
