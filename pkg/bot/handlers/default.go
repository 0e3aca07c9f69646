package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/dove-bot/pkg/logger"
)

const HelpText = "Commands:\n" +
	"* /start: set up your profile or open your quotes.\n" +
	"* /quote: show today's quote card.\n" +
	"* /reminder: choose when to be reminded to pray.\n" +
	"* /profile: see your answers and favorites count.\n" +
	"* /export: download your favorite quotes as CSV."

// DefaultHandler captures onboarding answers and otherwise replies with help.
func (h *Handler) DefaultHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		logger.Debug("ignoring update without message in DefaultHandler")
		return
	}
	if update.Message.Chat.ID == 0 || update.Message.From == nil {
		logger.Error("chat ID is zero in DefaultHandler")
		return
	}
	if update.Message.Text != "" && h.tryHandleOnboardingText(ctx, b, update) {
		return
	}
	sendText(ctx, b, update.Message.Chat.ID, HelpText)
}
