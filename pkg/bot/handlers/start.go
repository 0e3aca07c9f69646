package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/dove-bot/pkg/bot/onboarding"
	"github.com/smith3v/dove-bot/pkg/logger"
	"github.com/smith3v/dove-bot/pkg/ui"
)

// HandleStart resumes an unfinished wizard, opens the deck for a known
// user and starts the wizard otherwise.
func (h *Handler) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleStart")
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if err := h.settings.EnsureDefaults(ctx, userID); err != nil {
		logger.Error("failed to create user settings", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Failed to start. Please try again later.")
		return
	}

	state, err := h.onboarding.GetState(ctx, userID)
	if err != nil {
		logger.Error("failed to load onboarding state", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Failed to start. Please try again later.")
		return
	}
	if state == nil {
		record, err := h.readRecord(ctx, userID)
		if err != nil {
			logger.Error("failed to read preference record", "user_id", userID, "error", err)
			sendText(ctx, b, chatID, "Failed to start. Please try again later.")
			return
		}
		if record.HasProfile() {
			if err := h.sendCard(ctx, b, chatID, userID); err != nil {
				logger.Error("failed to send quote card", "user_id", userID, "error", err)
				sendText(ctx, b, chatID, "Failed to load your quote. Please try again later.")
			}
			return
		}
		if state, err = h.onboarding.Begin(ctx, userID); err != nil {
			logger.Error("failed to begin onboarding", "user_id", userID, "error", err)
			sendText(ctx, b, chatID, "Failed to start. Please try again later.")
			return
		}
	}

	if err := h.sendStep(ctx, b, chatID, userID, state); err != nil {
		logger.Error("failed to send onboarding step", "user_id", userID, "step", state.Step, "error", err)
		sendText(ctx, b, chatID, "Failed to start. Please try again later.")
	}
}

func (h *Handler) sendStep(ctx context.Context, b *bot.Bot, chatID, userID int64, state *onboarding.State) error {
	text, keyboard, err := onboarding.RenderStep(state, h.reminderDraft(ctx, userID))
	if err != nil {
		return err
	}
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	return err
}

// reminderDraft is the stored reminder as an editor draft.
func (h *Handler) reminderDraft(ctx context.Context, userID int64) ui.ReminderDraft {
	record, err := h.readRecord(ctx, userID)
	if err != nil {
		logger.Warn("failed to read reminder, using default", "user_id", userID, "error", err)
		return ui.DefaultReminderDraft()
	}
	if record.Reminder == nil {
		return ui.DefaultReminderDraft()
	}
	return ui.DraftFromReminder(record.Reminder.Time, record.Reminder.Days)
}
