package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"adaptcoach/internal/adaptive"
	"adaptcoach/internal/i18n"
	"adaptcoach/internal/models"
	"adaptcoach/internal/repository"
	"adaptcoach/internal/service"
)

const (
	commandStart     = "start"
	commandPlan      = "plan"
	commandNutrition = "nutricion"
	commandChart     = "grafico"
	commandExcel     = "excel"
)

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	lang := b.lang
	if message.From != nil && message.From.LanguageCode != "" {
		lang = i18n.ParseLanguage(message.From.LanguageCode)
	}

	if !message.IsCommand() {
		b.sendMessage(chatID, i18n.T("bot.unknown_command", lang))
		return
	}

	telegramID := chatID
	if message.From != nil {
		telegramID = message.From.ID
	}
	athlete, err := b.deps.Athletes.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			b.sendMessage(chatID, i18n.T("bot.unknown_user", lang))
			return
		}
		b.sendError(chatID, i18n.T("bot.error", lang), err)
		return
	}
	if i18n.IsValidLanguage(athlete.Lang) {
		lang = i18n.ParseLanguage(athlete.Lang)
	}

	b.logger.Debug("command",
		zap.String("command", message.Command()),
		zap.Int("athlete_id", athlete.ID))

	switch message.Command() {
	case commandStart:
		b.sendMessage(chatID, i18n.Tf("bot.start", lang, athlete.Name))
	case commandPlan:
		b.handlePlan(ctx, chatID, athlete, lang)
	case commandNutrition:
		b.handleNutrition(ctx, chatID, athlete, message.CommandArguments(), lang)
	case commandChart:
		b.handleChart(ctx, chatID, athlete, lang)
	case commandExcel:
		b.handleExcel(ctx, chatID, athlete, lang)
	default:
		b.sendMessage(chatID, i18n.T("bot.unknown_command", lang))
	}
}

// recompute runs the master rule set and reports user-facing failures itself.
func (b *Bot) recompute(ctx context.Context, chatID int64, athlete *models.Athlete, lang i18n.Language) ([]models.Prescription, bool) {
	prescriptions, err := b.deps.Prescriptions.Recompute(ctx, athlete.ID, []int{adaptive.MasterRule})
	switch {
	case errors.Is(err, service.ErrNoBaselines):
		b.sendMessage(chatID, i18n.T("bot.no_baselines", lang))
		return nil, false
	case err != nil:
		b.sendError(chatID, i18n.T("bot.error", lang), err)
		return nil, false
	case len(prescriptions) == 0:
		b.sendMessage(chatID, i18n.T("bot.no_prescriptions", lang))
		return nil, false
	}
	return prescriptions, true
}

func (b *Bot) handlePlan(ctx context.Context, chatID int64, athlete *models.Athlete, lang i18n.Language) {
	prescriptions, ok := b.recompute(ctx, chatID, athlete, lang)
	if !ok {
		return
	}
	b.sendMessage(chatID, formatPlan(prescriptions, lang))
}

func (b *Bot) handleNutrition(ctx context.Context, chatID int64, athlete *models.Athlete, args string, lang i18n.Language) {
	plan, err := b.deps.Nutrition.Plan(ctx, athlete.ID, adaptive.ParseIntensity(args))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			b.sendMessage(chatID, i18n.T("bot.no_target", lang))
			return
		}
		b.sendError(chatID, i18n.T("bot.error", lang), err)
		return
	}
	b.sendMessage(chatID, formatNutrition(plan, lang))
}

func (b *Bot) handleChart(ctx context.Context, chatID int64, athlete *models.Athlete, lang i18n.Language) {
	prescriptions, ok := b.recompute(ctx, chatID, athlete, lang)
	if !ok {
		return
	}
	first := prescriptions[0]
	png, err := b.deps.Chart(first.Result, lang)
	if err != nil {
		b.sendError(chatID, i18n.T("bot.error", lang), err)
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
		Name:  "factores.png",
		Bytes: png,
	})
	photo.Caption = i18n.Tf("bot.chart_caption", lang, first.Exercise)
	b.send(chatID, photo)
}

func (b *Bot) handleExcel(ctx context.Context, chatID int64, athlete *models.Athlete, lang i18n.Language) {
	prescriptions, ok := b.recompute(ctx, chatID, athlete, lang)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := b.deps.Workbook(&buf, athlete.Name, prescriptions, lang); err != nil {
		b.sendError(chatID, i18n.T("bot.error", lang), err)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("plan_%s.xlsx", fileSafe(athlete.Name)),
		Bytes: buf.Bytes(),
	})
	doc.Caption = i18n.Tf("export.title", lang, athlete.Name)
	b.send(chatID, doc)
}

// fileSafe keeps letters, digits and dashes; spaces become underscores.
func fileSafe(name string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == ' ':
			sb.WriteRune('_')
		case r == '-' || r == '_' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z'):
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "atleta"
	}
	return sb.String()
}
