package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/dove-bot/pkg/bot/onboarding"
	"github.com/smith3v/dove-bot/pkg/bot/reminders"
	"github.com/smith3v/dove-bot/pkg/deck"
	"github.com/smith3v/dove-bot/pkg/logger"
	"github.com/smith3v/dove-bot/pkg/prefs"
	"github.com/smith3v/dove-bot/pkg/ui"
)

type flusher interface {
	Flush(ctx context.Context) error
}

type Options struct {
	Deck       *deck.Manager
	Prefs      prefs.Reader
	Writer     prefs.Merger
	Settings   *reminders.Settings
	Scheduler  *reminders.Scheduler
	Onboarding *onboarding.Service
	Now        func() time.Time
}

// Handler serves the bot's commands and callbacks.
type Handler struct {
	deck       *deck.Manager
	prefs      prefs.Reader
	writer     prefs.Merger
	settings   *reminders.Settings
	scheduler  *reminders.Scheduler
	onboarding *onboarding.Service
	now        func() time.Time
}

func New(opts Options) *Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handler{
		deck:       opts.Deck,
		prefs:      opts.Prefs,
		writer:     opts.Writer,
		settings:   opts.Settings,
		scheduler:  opts.Scheduler,
		onboarding: opts.Onboarding,
		now:        opts.Now,
	}
}

// Register wires every command and callback prefix into b.
func (h *Handler) Register(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.HandleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/quote", bot.MatchTypeExact, h.HandleQuote)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/reminder", bot.MatchTypeExact, h.HandleReminder)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/profile", bot.MatchTypeExact, h.HandleProfile)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/export", bot.MatchTypeExact, h.HandleExport)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, ui.DeckCallbackPrefix, bot.MatchTypePrefix, h.HandleDeckCallback)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, ui.ReminderCallbackPrefix, bot.MatchTypePrefix, h.HandleReminderCallback)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, onboarding.CallbackPrefix, bot.MatchTypePrefix, h.HandleOnboardingCallback)
}

// readRecord waits for queued writes so the record reflects every gesture.
func (h *Handler) readRecord(ctx context.Context, userID int64) (prefs.Record, error) {
	if f, ok := h.writer.(flusher); ok {
		if err := f.Flush(ctx); err != nil {
			return prefs.Record{}, err
		}
	}
	return h.prefs.Read(ctx, userID)
}

func validMessage(update *models.Update) bool {
	return update != nil && update.Message != nil && update.Message.From != nil && update.Message.Chat.ID != 0
}

// callbackMessage returns the message a callback was attached to.
func callbackMessage(update *models.Update) (*models.Message, bool) {
	message := update.CallbackQuery.Message
	if message.Type != models.MaybeInaccessibleMessageTypeMessage || message.Message == nil || message.Message.Chat.ID == 0 {
		return nil, false
	}
	return message.Message, true
}

func answerCallback(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	if update.CallbackQuery.ID == "" {
		return
	}
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
		Text:            text,
	}); err != nil {
		logger.Error("failed to answer callback query", "error", err)
	}
}

func sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

func editMessage(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, keyboard *models.InlineKeyboardMarkup) error {
	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	return err
}

func emptyKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{}}
}
