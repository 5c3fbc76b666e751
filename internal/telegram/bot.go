package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"nutrition-advisor/internal/app"
	"nutrition-advisor/internal/config"
	"nutrition-advisor/internal/logger"
	"nutrition-advisor/internal/meal"
	"nutrition-advisor/internal/profile"
	"nutrition-advisor/internal/storage"
)

const (
	requestTimeout = 1 * time.Minute
	metricsDays    = 7
	saveCallback   = "save"
)

// Bot wraps the Telegram API and the advisor application.
type Bot struct {
	api     *tgbotapi.BotAPI
	app     *app.App
	cfg     *config.Config
	pending *pendingEstimates
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, a *app.App) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	logger.Info("Authorized on account", zap.String("username", bot.Self.UserName))

	webhookURL := cfg.TelegramWebhookURL
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook for %s: %w", webhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	logger.Info("Webhook set", zap.String("description", resp.Description))

	return &Bot{api: bot, app: a, cfg: cfg, pending: newPendingEstimates()}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		logger.Warn("Error parsing update", zap.Error(err))
		return
	}

	if update.CallbackQuery != nil {
		if !b.cfg.IsAllowed(update.CallbackQuery.From.ID) {
			return
		}
		go b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !b.cfg.IsAllowed(update.Message.From.ID) {
		logger.Warn("Unauthorized access attempt",
			zap.Int64("user_id", update.Message.From.ID),
			zap.String("username", update.Message.From.UserName))
		return
	}

	go b.processMessage(update.Message)
}

func userKey(telegramID int64) string {
	return "telegram:" + strconv.FormatInt(telegramID, 10)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch msg.Command() {
	case "start", "help":
		b.reply(msg.Chat.ID, helpText)
		return
	case "profile":
		b.handleProfileCommand(msg)
		return
	case "gaps":
		b.handleGapsCommand(ctx, msg)
		return
	case "plan":
		b.handlePlanCommand(ctx, msg)
		return
	case "score":
		b.handleScoreCommand(ctx, msg)
		return
	case "metrics":
		b.handleMetricsRequest(ctx, msg)
		return
	}

	// A link is treated as a published menu to import.
	if strings.HasPrefix(msg.Text, "http://") || strings.HasPrefix(msg.Text, "https://") {
		b.handleImportRequest(ctx, msg)
		return
	}

	b.handleEstimateRequest(ctx, msg)
}

// loadProfile replies with a hint and returns nil when the user has not set a profile yet.
func (b *Bot) loadProfile(chatID, telegramID int64) *profile.UserProfile {
	p, err := b.app.LoadProfile(userKey(telegramID))
	if errors.Is(err, storage.ErrProfileNotFound) {
		b.reply(chatID, "👤 Set up your profile first, for example:\n`/profile age=30 gender=male weight=70 height=175 activity=moderate`")
		return nil
	}
	if err != nil {
		logger.Error("Failed to load profile", zap.Int64("user_id", telegramID), zap.Error(err))
		b.reply(chatID, "❌ Error loading your profile.")
		return nil
	}
	return p
}

func (b *Bot) handleProfileCommand(msg *tgbotapi.Message) {
	key := userKey(msg.From.ID)
	args := strings.TrimSpace(msg.CommandArguments())

	var current *profile.UserProfile
	if p, err := b.app.LoadProfile(key); err == nil {
		current = p
	}

	if args == "" {
		if current == nil {
			b.reply(msg.Chat.ID, profileUsage)
			return
		}
		b.reply(msg.Chat.ID, formatProfile(*current))
		return
	}

	if strings.EqualFold(args, "reset") {
		existed, err := b.app.DeleteProfile(key)
		switch {
		case err != nil:
			b.replyError(msg.Chat.ID, "deleting profile", err)
		case !existed:
			b.reply(msg.Chat.ID, "You have no saved profile.")
		default:
			b.reply(msg.Chat.ID, "🗑 Profile deleted.")
		}
		return
	}

	p, err := parseProfileArgs(args, current)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ %s\n\n%s", escape(err.Error()), profileUsage))
		return
	}
	if err := b.app.SaveProfile(key, p); err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ %s", escape(err.Error())))
		return
	}
	b.reply(msg.Chat.ID, "✅ *Profile saved*\n\n"+formatProfile(p))
}

func (b *Bot) handleGapsCommand(ctx context.Context, msg *tgbotapi.Message) {
	p := b.loadProfile(msg.Chat.ID, msg.From.ID)
	if p == nil {
		return
	}

	report, err := b.app.AnalyzeNutrition(ctx, *p, app.Window{})
	if err != nil {
		b.replyError(msg.Chat.ID, "analyzing nutrition", err)
		return
	}
	gaps, err := b.app.NutritionGaps(ctx, *p, report.Window)
	if err != nil {
		b.replyError(msg.Chat.ID, "analyzing nutrition", err)
		return
	}
	b.reply(msg.Chat.ID, formatAnalysis(report)+"\n"+formatGaps(gaps))
}

func (b *Bot) handlePlanCommand(ctx context.Context, msg *tgbotapi.Message) {
	p := b.loadProfile(msg.Chat.ID, msg.From.ID)
	if p == nil {
		return
	}

	statusMsg := tgbotapi.NewMessage(msg.Chat.ID, "🧑‍🍳 *Thinking...* \n(Analyzing your recent meals and building a plan)")
	statusMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(statusMsg)
	if err != nil {
		logger.Warn("Failed to send initial reply", zap.Error(err))
		return
	}

	report, err := b.app.Recommend(ctx, userKey(msg.From.ID), *p, app.Window{}, nil)
	if err != nil {
		logger.Error("Error generating plan", zap.Error(err))
		b.edit(msg.Chat.ID, sentMsg.MessageID, fmt.Sprintf("❌ *Error generating plan:*\n```\n%s\n```", safeErr(err)))
		return
	}

	planText, adviceText := formatPlanMarkdownParts(report.Set)
	b.edit(msg.Chat.ID, sentMsg.MessageID, planText)
	b.reply(msg.Chat.ID, adviceText)
}

func (b *Bot) handleScoreCommand(ctx context.Context, msg *tgbotapi.Message) {
	dish := strings.TrimSpace(msg.CommandArguments())
	if dish == "" {
		b.reply(msg.Chat.ID, "Usage: `/score <dish name>`")
		return
	}

	var p *profile.UserProfile
	if stored, err := b.app.LoadProfile(userKey(msg.From.ID)); err == nil {
		p = stored
	}

	rec, score, err := b.app.ScoreDish(ctx, p, dish)
	if errors.Is(err, app.ErrMealNotFound) {
		b.reply(msg.Chat.ID, fmt.Sprintf("🔍 *%s* is not in the menu. Send the dish name without a command to get an estimate.", escape(dish)))
		return
	}
	if err != nil {
		b.replyError(msg.Chat.ID, "scoring meal", err)
		return
	}
	b.reply(msg.Chat.ID, formatScore(rec, score, false))
}

func (b *Bot) handleImportRequest(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}

	statusMsg := tgbotapi.NewMessage(msg.Chat.ID, "✂️ *Importing menu...*")
	statusMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(statusMsg)
	if err != nil {
		logger.Warn("Failed to send initial reply", zap.Error(err))
		return
	}

	n, err := b.app.ImportURL(ctx, msg.Text)
	if err != nil {
		logger.Error("Error importing menu", zap.String("url", msg.Text), zap.Error(err))
		b.edit(msg.Chat.ID, sentMsg.MessageID, fmt.Sprintf("❌ *Error importing menu:*\n```\n%s\n```", safeErr(err)))
		return
	}
	b.edit(msg.Chat.ID, sentMsg.MessageID, fmt.Sprintf("✅ *Menu imported!*\n\n%d dishes added.", n))
}

func (b *Bot) handleEstimateRequest(ctx context.Context, msg *tgbotapi.Message) {
	dish := strings.TrimSpace(msg.Text)
	if dish == "" {
		return
	}

	var p *profile.UserProfile
	if stored, err := b.app.LoadProfile(userKey(msg.From.ID)); err == nil {
		p = stored
	}

	// Catalog dishes are scored directly.
	if rec, score, err := b.app.ScoreDish(ctx, p, dish); err == nil {
		b.reply(msg.Chat.ID, formatScore(rec, score, false))
		return
	}

	if !b.app.HasLLM() {
		b.reply(msg.Chat.ID, "🔍 That dish is not in the menu and estimation is not configured.")
		return
	}

	statusMsg := tgbotapi.NewMessage(msg.Chat.ID, "🧮 *Estimating nutrients...*")
	statusMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(statusMsg)
	if err != nil {
		logger.Warn("Failed to send initial reply", zap.Error(err))
		return
	}

	rec, err := b.app.EstimateMeal(ctx, meal.EstimateRequest{DishName: dish}, false)
	if err != nil {
		b.edit(msg.Chat.ID, sentMsg.MessageID, fmt.Sprintf("❌ *Error estimating dish:*\n```\n%s\n```", safeErr(err)))
		return
	}

	score := b.app.ScoreMeal(ctx, p, rec)
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, formatScore(rec, score, true))
	edit.ParseMode = "Markdown"
	if msg.From.ID == b.cfg.AdminTelegramID {
		b.pending.put(msg.Chat.ID, sentMsg.MessageID, rec)
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("💾 Add to menu", saveCallback),
			),
		)
		edit.ReplyMarkup = &keyboard
	}
	b.send(edit)
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if query.Data != saveCallback || query.Message == nil {
		return
	}

	// Answer callback to remove spinner
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	if query.From.ID != b.cfg.AdminTelegramID {
		return
	}

	chatID := query.Message.Chat.ID
	shown, ok := b.pending.take(chatID, query.Message.MessageID)
	if !ok {
		b.reply(chatID, "⌛ This estimate has expired. Send the dish again.")
		return
	}

	rec, err := b.app.SaveMeal(ctx, shown)
	if err != nil {
		b.replyError(chatID, "saving dish", err)
		return
	}
	b.reply(chatID, fmt.Sprintf("✅ *%s* added to the menu.", escape(rec.DishName)))
}

func (b *Bot) handleMetricsRequest(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}

	usage, err := b.app.UsageReport(ctx, metricsDays)
	if err != nil {
		b.reply(msg.Chat.ID, "❌ Error fetching metrics.")
		return
	}
	b.reply(msg.Chat.ID, formatMetrics(usage, b.app.SysHealth(ctx)))
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	b.send(msg)
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	b.send(edit)
}

func (b *Bot) replyError(chatID int64, action string, err error) {
	logger.Error("Telegram request failed", zap.String("action", action), zap.Error(err))
	b.reply(chatID, fmt.Sprintf("❌ *Error %s:*\n```\n%s\n```", action, safeErr(err)))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		logger.Warn("Failed to send telegram message", zap.Error(err))
	}
}

func safeErr(err error) string {
	return strings.ReplaceAll(err.Error(), "`", "'")
}
