package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/dove-bot/pkg/logger"
	"github.com/smith3v/dove-bot/pkg/ui"
)

func (h *Handler) HandleProfile(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleProfile")
		return
	}
	userID := update.Message.From.ID
	favorites, err := h.deck.Favorites(ctx, userID)
	if err != nil {
		logger.Error("failed to load favorites for profile", "user_id", userID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to load your profile. Please try again later.")
		return
	}
	record, err := h.readRecord(ctx, userID)
	if err != nil {
		logger.Error("failed to read preference record", "user_id", userID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to load your profile. Please try again later.")
		return
	}
	sendText(ctx, b, update.Message.Chat.ID, ui.RenderProfile(record, len(favorites)))
}
