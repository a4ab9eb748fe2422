package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/quantstream-hq/xueqiu-relay/internal/logger"
)

const (
	startReply   = "I'm a bot, please talk to me!"
	unknownReply = "Sorry, I didn't understand that command."
)

// Bot wraps the long-polling Telegram bot: command handling plus channel
// delivery. Command handling is independent of the dispatch schedule.
type Bot struct {
	bot *tgbot.Bot
	log logger.Logger
}

// New builds the bot shell and registers the command handlers.
func New(token string, log logger.Logger) (*Bot, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	b := &Bot{log: log}
	inner, err := tgbot.New(token, tgbot.WithDefaultHandler(b.handleUnknown))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	inner.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, b.handleStart)
	b.bot = inner
	return b, nil
}

// Start runs the update polling loop until the context is cancelled.
func (b *Bot) Start(ctx context.Context) {
	b.log.InfoObj("telegram polling started", "bot_state", "polling")
	b.bot.Start(ctx)
	b.log.InfoObj("telegram polling stopped", "reason", ctx.Err())
}

// Sender returns the delivery surface bound to this bot.
func (b *Bot) Sender() Sender {
	return &botSender{bot: b.bot}
}

func (b *Bot) handleStart(ctx context.Context, api *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	b.reply(ctx, api, update.Message.Chat.ID, startReply)
}

// handleUnknown answers unrecognized commands; plain chatter is ignored.
func (b *Bot) handleUnknown(ctx context.Context, api *tgbot.Bot, update *models.Update) {
	if update.Message == nil || !strings.HasPrefix(update.Message.Text, "/") {
		return
	}
	b.reply(ctx, api, update.Message.Chat.ID, unknownReply)
}

func (b *Bot) reply(ctx context.Context, api *tgbot.Bot, chatID int64, text string) {
	if _, err := api.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		b.log.ErrorObj("command reply failed", "telegram_error", map[string]any{
			"chat_id": chatID,
			"error":   err.Error(),
		})
	}
}

// botSender sends MarkdownV2 messages through the Bot API.
type botSender struct {
	bot *tgbot.Bot
}

// SendMarkdown sends a MarkdownV2 message with link previews disabled.
func (s *botSender) SendMarkdown(ctx context.Context, chatID string, text string) *SendError {
	_, err := s.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:             chatID,
		Text:               text,
		ParseMode:          models.ParseModeMarkdown,
		LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: tgbot.True()},
	})
	return ClassifySendError(err)
}
